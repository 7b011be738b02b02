package dbal

import (
	"errors"
	"reflect"
	"testing"

	"github.com/biyonik/go-dbal/platform"
)

func TestScanPlaceholders(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		positions int
		names     []string
	}{
		{"single positional", "SELECT * FROM users WHERE id = ?", 1, nil},
		{"multiple positional", "a = ? AND b = ? AND c = ?", 3, nil},
		{"single named", "id = :id", 0, []string{"id"}},
		{"multiple named", "id = :id AND name = :name", 0, []string{"id", "name"}},
		{"question mark in single quotes", "name = 'what?' AND id = ?", 1, nil},
		{"question mark in double quotes", `"col?" = ?`, 1, nil},
		{"question mark in backticks", "`col?` = ?", 1, nil},
		{"doubled quote escape", "name = 'it''s?' AND id = ?", 1, nil},
		{"backslash escape in single quotes", `name = 'a\'s?' AND id = ?`, 1, nil},
		{"line comment", "id = ? -- what about :this?\n AND b = ?", 2, nil},
		{"block comment", "id = ? /* :name ? */ AND b = ?", 2, nil},
		{"postgres cast is not named", "id = :id AND price::int > 0", 0, []string{"id"}},
		{"double colon alone", "price::numeric", 0, nil},
		{"colon without identifier", "a : b", 0, nil},
		{"no placeholders", "SELECT 1", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := scanPlaceholders(tt.sql)

			var positions int
			var names []string
			for _, tok := range tokens {
				if tok.name == "" {
					positions++
				} else {
					names = append(names, tok.name)
				}
			}

			if positions != tt.positions {
				t.Errorf("scanPlaceholders(%q) positional = %d, want %d", tt.sql, positions, tt.positions)
			}
			if !reflect.DeepEqual(names, tt.names) {
				t.Errorf("scanPlaceholders(%q) named = %v, want %v", tt.sql, names, tt.names)
			}
		})
	}
}

func TestResolvePositional(t *testing.T) {
	bag := NewParameterBag()
	bag.BindPositional(0, "active")
	bag.BindPositional(1, 18)

	sql, args, err := bag.Resolve("status = ? AND age > ?", platform.MySQL())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if sql != "status = ? AND age > ?" {
		t.Errorf("Resolve() sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []any{"active", 18}) {
		t.Errorf("Resolve() args = %v", args)
	}
}

func TestResolveNamed(t *testing.T) {
	bag := NewParameterBag()
	bag.BindNamed("status", "active")
	bag.BindNamed(":age", 18) // leading colon is stripped on bind

	sql, args, err := bag.Resolve("status = :status AND age > :age", platform.MySQL())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if sql != "status = ? AND age > ?" {
		t.Errorf("Resolve() sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []any{"active", 18}) {
		t.Errorf("Resolve() args = %v", args)
	}
}

func TestResolveNamedReuse(t *testing.T) {
	bag := NewParameterBag()
	bag.BindNamed("id", 7)

	sql, args, err := bag.Resolve("a = :id OR b = :id", platform.MySQL())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if sql != "a = ? OR b = ?" {
		t.Errorf("Resolve() sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []any{7, 7}) {
		t.Errorf("Resolve() args = %v", args)
	}
}

func TestResolvePostgresPlaceholders(t *testing.T) {
	bag := NewParameterBag()
	bag.BindPositional(0, "active")
	bag.BindPositional(1, 18)

	sql, args, err := bag.Resolve("status = ? AND age > ?", platform.Postgres())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if sql != "status = $1 AND age > $2" {
		t.Errorf("Resolve() sql = %q", sql)
	}
	if len(args) != 2 {
		t.Errorf("Resolve() args = %v", args)
	}
}

func TestResolveStyleConflict(t *testing.T) {
	bag := NewParameterBag()
	bag.BindPositional(0, 1)
	bag.BindNamed("name", "x")

	_, _, err := bag.Resolve("id = ? AND name = :name", platform.MySQL())
	if !errors.Is(err, ErrPlaceholderStyleConflict) {
		t.Errorf("Resolve() error = %v, want ErrPlaceholderStyleConflict", err)
	}
}

func TestResolveMismatch(t *testing.T) {
	t.Run("missing positional", func(t *testing.T) {
		bag := NewParameterBag()
		bag.BindPositional(0, 1)

		_, _, err := bag.Resolve("a = ? AND b = ?", platform.MySQL())
		if !errors.Is(err, ErrParameterMismatch) {
			t.Errorf("Resolve() error = %v, want ErrParameterMismatch", err)
		}
	})

	t.Run("missing named", func(t *testing.T) {
		bag := NewParameterBag()

		_, _, err := bag.Resolve("a = :missing", platform.MySQL())
		if !errors.Is(err, ErrParameterMismatch) {
			t.Errorf("Resolve() error = %v, want ErrParameterMismatch", err)
		}
	})

	t.Run("unused positional", func(t *testing.T) {
		bag := NewParameterBag()
		bag.BindPositional(0, 1)
		bag.BindPositional(1, 2)

		_, _, err := bag.Resolve("a = ?", platform.MySQL())
		if !errors.Is(err, ErrParameterMismatch) {
			t.Errorf("Resolve() error = %v, want ErrParameterMismatch", err)
		}
	})

	t.Run("unused named is tolerated", func(t *testing.T) {
		bag := NewParameterBag()
		bag.BindNamed("id", 1)
		bag.BindNamed("extra", 2)

		_, _, err := bag.Resolve("a = :id", platform.MySQL())
		if err != nil {
			t.Errorf("Resolve() error = %v, want nil", err)
		}
	})
}

func TestResolveListExpansion(t *testing.T) {
	t.Run("slice expands to placeholders", func(t *testing.T) {
		bag := NewParameterBag()
		bag.BindPositional(0, []string{"active", "pending", "blocked"})

		sql, args, err := bag.Resolve("status IN (?)", platform.MySQL())
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if sql != "status IN (?, ?, ?)" {
			t.Errorf("Resolve() sql = %q", sql)
		}
		if !reflect.DeepEqual(args, []any{"active", "pending", "blocked"}) {
			t.Errorf("Resolve() args = %v", args)
		}
	})

	t.Run("following positions shift", func(t *testing.T) {
		bag := NewParameterBag()
		bag.BindPositional(0, []int{1, 2})
		bag.BindPositional(1, "active")

		sql, args, err := bag.Resolve("id IN (?) AND status = ?", platform.Postgres())
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if sql != "id IN ($1, $2) AND status = $3" {
			t.Errorf("Resolve() sql = %q", sql)
		}
		if !reflect.DeepEqual(args, []any{1, 2, "active"}) {
			t.Errorf("Resolve() args = %v", args)
		}
	})

	t.Run("empty slice is an error", func(t *testing.T) {
		bag := NewParameterBag()
		bag.BindPositional(0, []int{})

		_, _, err := bag.Resolve("id IN (?)", platform.MySQL())
		if !errors.Is(err, ErrEmptyIn) {
			t.Errorf("Resolve() error = %v, want ErrEmptyIn", err)
		}
	})

	t.Run("byte slice is a blob not a list", func(t *testing.T) {
		bag := NewParameterBag()
		bag.BindPositional(0, []byte{0x01, 0x02})

		sql, args, err := bag.Resolve("payload = ?", platform.MySQL())
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if sql != "payload = ?" {
			t.Errorf("Resolve() sql = %q", sql)
		}
		if len(args) != 1 {
			t.Errorf("Resolve() args = %v, want single blob", args)
		}
	})

	t.Run("named slice expands", func(t *testing.T) {
		bag := NewParameterBag()
		bag.BindNamed("ids", []int{3, 4, 5})

		sql, args, err := bag.Resolve("id IN (:ids)", platform.MySQL())
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if sql != "id IN (?, ?, ?)" {
			t.Errorf("Resolve() sql = %q", sql)
		}
		if !reflect.DeepEqual(args, []any{3, 4, 5}) {
			t.Errorf("Resolve() args = %v", args)
		}
	})
}

func TestParameterBagBind(t *testing.T) {
	bag := NewParameterBag()

	if err := bag.Bind(0, "a"); err != nil {
		t.Errorf("Bind(int) error = %v", err)
	}
	if err := bag.Bind("name", "b"); err != nil {
		t.Errorf("Bind(string) error = %v", err)
	}
	if err := bag.Bind(3.14, "c"); err == nil {
		t.Error("Bind(float) accepted, want error")
	}

	if v, ok := bag.Positional(0); !ok || v != "a" {
		t.Errorf("Positional(0) = %v, %v", v, ok)
	}
	if v, ok := bag.Named("name"); !ok || v != "b" {
		t.Errorf("Named(name) = %v, %v", v, ok)
	}
	if bag.Len() != 2 {
		t.Errorf("Len() = %d, want 2", bag.Len())
	}
}

func TestParameterBagCloneAndClear(t *testing.T) {
	bag := NewParameterBag()
	bag.BindPositional(0, 1)
	bag.BindNamed("x", 2)

	clone := bag.Clone()
	bag.Clear()

	if bag.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", bag.Len())
	}
	if clone.Len() != 2 {
		t.Errorf("clone Len() = %d, want 2", clone.Len())
	}
	if v, ok := clone.Named("x"); !ok || v != 2 {
		t.Errorf("clone Named(x) = %v, %v", v, ok)
	}
}

// Benchmark tests
func BenchmarkResolve(b *testing.B) {
	bag := NewParameterBag()
	bag.BindPositional(0, "active")
	bag.BindPositional(1, []int{1, 2, 3})
	p := platform.MySQL()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = bag.Resolve("status = ? AND id IN (?)", p)
	}
}
