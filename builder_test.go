package dbal

import (
	"errors"
	"reflect"
	"testing"

	"github.com/biyonik/go-dbal/platform"
)

func newTestBuilder() *Builder {
	return NewBuilder(platform.MySQL())
}

func buildSQL(t *testing.T, b *Builder) string {
	t.Helper()
	sql, err := b.SQL()
	if err != nil {
		t.Fatalf("SQL() error = %v", err)
	}
	return sql
}

func TestRenderSelect(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder) *Builder
		want  string
	}{
		{
			"minimal",
			func(b *Builder) *Builder {
				return b.Select("u.id", "u.name").From("users", "u")
			},
			"SELECT u.id, u.name FROM `users` u",
		},
		{
			"empty select list means star",
			func(b *Builder) *Builder {
				return b.Select().From("users", "")
			},
			"SELECT * FROM `users`",
		},
		{
			"distinct",
			func(b *Builder) *Builder {
				return b.Select("u.country").Distinct().From("users", "u")
			},
			"SELECT DISTINCT u.country FROM `users` u",
		},
		{
			"add select appends",
			func(b *Builder) *Builder {
				return b.Select("u.id").AddSelect("u.name", "u.email").From("users", "u")
			},
			"SELECT u.id, u.name, u.email FROM `users` u",
		},
		{
			"where and order",
			func(b *Builder) *Builder {
				return b.Select("u.id").
					From("users", "u").
					Where("u.status = ?").
					OrderBy("u.name", "").
					AddOrderBy("u.id", "desc")
			},
			"SELECT u.id FROM `users` u WHERE u.status = ? ORDER BY u.name ASC, u.id DESC",
		},
		{
			"group by and having",
			func(b *Builder) *Builder {
				return b.Select("u.country", "COUNT(*)").
					From("users", "u").
					GroupBy("u.country").
					Having("COUNT(*) > ?")
			},
			"SELECT u.country, COUNT(*) FROM `users` u GROUP BY u.country HAVING COUNT(*) > ?",
		},
		{
			"limit and offset",
			func(b *Builder) *Builder {
				return b.Select("u.id").From("users", "u").SetMaxResults(10).SetFirstResult(20)
			},
			"SELECT u.id FROM `users` u LIMIT 10 OFFSET 20",
		},
		{
			"paginate",
			func(b *Builder) *Builder {
				return b.Select("u.id").From("users", "u").Paginate(3, 15)
			},
			"SELECT u.id FROM `users` u LIMIT 15 OFFSET 30",
		},
		{
			"offset without limit uses platform trick",
			func(b *Builder) *Builder {
				return b.Select("u.id").From("users", "u").SetFirstResult(20)
			},
			"SELECT u.id FROM `users` u LIMIT 18446744073709551615 OFFSET 20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildSQL(t, tt.build(newTestBuilder())); got != tt.want {
				t.Errorf("SQL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWhereCombination(t *testing.T) {
	b := newTestBuilder()
	x := b.Expr()

	sql := buildSQL(t, b.Select("u.id").
		From("users", "u").
		Where("u.status = ?").
		Where("u.age > ?").
		OrWhere(x.Eq("u.role", "?")))

	want := "SELECT u.id FROM `users` u WHERE (u.status = ? AND u.age > ?) OR u.role = ?"
	if sql != want {
		t.Errorf("SQL() = %q, want %q", sql, want)
	}
}

func TestWhereRawParenthesization(t *testing.T) {
	b := newTestBuilder()

	sql := buildSQL(t, b.Select("u.id").
		From("users", "u").
		Where("a = ? OR b = ?").
		AndWhere("c = ?"))

	want := "SELECT u.id FROM `users` u WHERE (a = ? OR b = ?) AND c = ?"
	if sql != want {
		t.Errorf("SQL() = %q, want %q", sql, want)
	}
}

func TestJoins(t *testing.T) {
	t.Run("joins chain off their alias", func(t *testing.T) {
		b := newTestBuilder()
		sql := buildSQL(t, b.Select("u.id", "p.number", "c.code").
			From("users", "u").
			LeftJoin("u", "phones", "p", "p.user_id = u.id").
			InnerJoin("p", "carriers", "c", "c.id = p.carrier_id"))

		want := "SELECT u.id, p.number, c.code FROM `users` u" +
			" LEFT JOIN `phones` p ON p.user_id = u.id" +
			" INNER JOIN `carriers` c ON c.id = p.carrier_id"
		if sql != want {
			t.Errorf("SQL() = %q, want %q", sql, want)
		}
	})

	t.Run("right join", func(t *testing.T) {
		b := newTestBuilder()
		sql := buildSQL(t, b.Select("u.id").
			From("users", "u").
			RightJoin("u", "orders", "o", "o.user_id = u.id"))

		want := "SELECT u.id FROM `users` u RIGHT JOIN `orders` o ON o.user_id = u.id"
		if sql != want {
			t.Errorf("SQL() = %q, want %q", sql, want)
		}
	})

	t.Run("unknown alias is an error", func(t *testing.T) {
		b := newTestBuilder()
		_, err := b.Select("u.id").
			From("users", "u").
			LeftJoin("ghost", "phones", "p", "p.user_id = ghost.id").
			SQL()
		if !errors.Is(err, ErrUnknownAlias) {
			t.Errorf("SQL() error = %v, want ErrUnknownAlias", err)
		}
	})

	t.Run("duplicate alias is an error", func(t *testing.T) {
		b := newTestBuilder()
		_, err := b.Select("u.id").
			From("users", "u").
			LeftJoin("u", "phones", "u", "1 = 1").
			SQL()
		if !errors.Is(err, ErrNonUniqueAlias) {
			t.Errorf("SQL() error = %v, want ErrNonUniqueAlias", err)
		}
	})

	t.Run("duplicate from alias is an error", func(t *testing.T) {
		b := newTestBuilder()
		_, err := b.Select("u.id").
			From("users", "u").
			From("orders", "u").
			SQL()
		if !errors.Is(err, ErrNonUniqueAlias) {
			t.Errorf("SQL() error = %v, want ErrNonUniqueAlias", err)
		}
	})
}

func TestRenderInsert(t *testing.T) {
	t.Run("set value preserves order", func(t *testing.T) {
		b := newTestBuilder()
		sql := buildSQL(t, b.Insert("users").
			SetValue("name", "?").
			SetValue("email", "?"))

		want := "INSERT INTO `users` (`name`, `email`) VALUES (?, ?)"
		if sql != want {
			t.Errorf("SQL() = %q, want %q", sql, want)
		}
	})

	t.Run("values map sorts columns", func(t *testing.T) {
		b := newTestBuilder()
		sql := buildSQL(t, b.Insert("users").Values(map[string]string{
			"name":  "?",
			"email": "?",
			"age":   "?",
		}))

		want := "INSERT INTO `users` (`age`, `email`, `name`) VALUES (?, ?, ?)"
		if sql != want {
			t.Errorf("SQL() = %q, want %q", sql, want)
		}
	})

	t.Run("no values is an error", func(t *testing.T) {
		b := newTestBuilder()
		_, err := b.Insert("users").SQL()
		if !errors.Is(err, ErrNoValues) {
			t.Errorf("SQL() error = %v, want ErrNoValues", err)
		}
	})
}

func TestRenderUpdate(t *testing.T) {
	t.Run("with where", func(t *testing.T) {
		b := newTestBuilder()
		sql := buildSQL(t, b.Update("users", "u").
			Set("status", "?").
			Set("updated_at", "NOW()").
			Where("u.id = ?"))

		want := "UPDATE `users` u SET `status` = ?, `updated_at` = NOW() WHERE u.id = ?"
		if sql != want {
			t.Errorf("SQL() = %q, want %q", sql, want)
		}
	})

	t.Run("without alias or where", func(t *testing.T) {
		b := newTestBuilder()
		sql := buildSQL(t, b.Update("users", "").Set("status", "?"))

		want := "UPDATE `users` SET `status` = ?"
		if sql != want {
			t.Errorf("SQL() = %q, want %q", sql, want)
		}
	})

	t.Run("no assignments is an error", func(t *testing.T) {
		b := newTestBuilder()
		_, err := b.Update("users", "").SQL()
		if !errors.Is(err, ErrNoValues) {
			t.Errorf("SQL() error = %v, want ErrNoValues", err)
		}
	})
}

func TestRenderDelete(t *testing.T) {
	b := newTestBuilder()
	sql := buildSQL(t, b.Delete("users", "u").Where("u.status = ?"))

	want := "DELETE FROM `users` u WHERE u.status = ?"
	if sql != want {
		t.Errorf("SQL() = %q, want %q", sql, want)
	}
}

func TestKindConflicts(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder) *Builder
	}{
		{"select then insert", func(b *Builder) *Builder {
			return b.Select("id").Insert("users")
		}},
		{"insert then where", func(b *Builder) *Builder {
			return b.Insert("users").SetValue("name", "?").Where("id = ?")
		}},
		{"delete then set", func(b *Builder) *Builder {
			return b.Delete("users", "").Set("status", "?")
		}},
		{"where before kind", func(b *Builder) *Builder {
			return b.Where("id = ?")
		}},
		{"from on update", func(b *Builder) *Builder {
			return b.Update("users", "").From("orders", "o")
		}},
		{"having on delete", func(b *Builder) *Builder {
			return b.Delete("users", "").Having("COUNT(*) > 1")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.build(newTestBuilder())
			_, err := b.SQL()
			if !errors.Is(err, ErrInvalidQueryState) {
				t.Errorf("SQL() error = %v, want ErrInvalidQueryState", err)
			}
			if b.Err() == nil {
				t.Error("Err() = nil, want accumulated error")
			}
		})
	}
}

func TestFirstErrorWins(t *testing.T) {
	b := newTestBuilder()
	b.Select("id").From("users; DROP", "").Where("id = ?").Insert("users")

	_, err := b.SQL()
	if !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("SQL() error = %v, want first error (ErrInvalidIdentifier)", err)
	}
}

func TestInvalidOrderDirection(t *testing.T) {
	b := newTestBuilder()
	_, err := b.Select("id").From("users", "").OrderBy("id", "SIDEWAYS").SQL()
	if !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("SQL() error = %v, want validation error", err)
	}
}

func TestSQLCaching(t *testing.T) {
	b := newTestBuilder()
	b.Select("u.id").From("users", "u").Where("u.status = ?")

	first := buildSQL(t, b)
	second := buildSQL(t, b)
	if first != second {
		t.Errorf("cached SQL() = %q, differs from %q", second, first)
	}

	// A mutating call invalidates the cache and the output changes.
	b.AndWhere("u.age > ?")
	third := buildSQL(t, b)
	if third == first {
		t.Error("SQL() unchanged after builder mutation")
	}
}

func TestResolvedSQL(t *testing.T) {
	b := newTestBuilder()
	b.Select("u.id").
		From("users", "u").
		Where("u.status = " + b.CreatePositionalParameter("active")).
		AndWhere("u.id IN (" + b.CreatePositionalParameter([]int{1, 2, 3}) + ")")

	sql, args, err := b.ResolvedSQL()
	if err != nil {
		t.Fatalf("ResolvedSQL() error = %v", err)
	}

	want := "SELECT u.id FROM `users` u WHERE u.status = ? AND u.id IN (?, ?, ?)"
	if sql != want {
		t.Errorf("ResolvedSQL() sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"active", 1, 2, 3}) {
		t.Errorf("ResolvedSQL() args = %v", args)
	}
}

func TestCreateNamedParameter(t *testing.T) {
	b := newTestBuilder()
	p1 := b.CreateNamedParameter("active")
	p2 := b.CreateNamedParameter(18)

	if p1 != ":dbValue1" || p2 != ":dbValue2" {
		t.Errorf("CreateNamedParameter() = %q, %q", p1, p2)
	}

	b.Select("u.id").From("users", "u").Where("u.status = " + p1).AndWhere("u.age > " + p2)

	sql, args, err := b.ResolvedSQL()
	if err != nil {
		t.Fatalf("ResolvedSQL() error = %v", err)
	}
	if sql != "SELECT u.id FROM `users` u WHERE u.status = ? AND u.age > ?" {
		t.Errorf("ResolvedSQL() sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []any{"active", 18}) {
		t.Errorf("ResolvedSQL() args = %v", args)
	}
}

func TestSetParameters(t *testing.T) {
	b := newTestBuilder()
	b.Select("u.id").From("users", "u").
		Where("u.status = ?").
		AndWhere("u.age > ?").
		SetParameters("active", 18)

	_, args, err := b.ResolvedSQL()
	if err != nil {
		t.Fatalf("ResolvedSQL() error = %v", err)
	}
	if !reflect.DeepEqual(args, []any{"active", 18}) {
		t.Errorf("ResolvedSQL() args = %v", args)
	}
}

func TestWhen(t *testing.T) {
	includeFilter := false
	b := newTestBuilder()
	b.Select("u.id").From("users", "u").
		When(includeFilter, func(b *Builder) *Builder {
			return b.Where("u.status = ?")
		}).
		When(true, func(b *Builder) *Builder {
			return b.Where("u.age > ?")
		})

	sql := buildSQL(t, b)
	want := "SELECT u.id FROM `users` u WHERE u.age > ?"
	if sql != want {
		t.Errorf("SQL() = %q, want %q", sql, want)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	base := newTestBuilder()
	base.Select("u.id").From("users", "u").Where("u.status = ?").SetParameters("active")

	variant := base.Clone()
	variant.AndWhere("u.age > ?")
	variant.Params().BindPositional(1, 18)

	baseSQL := buildSQL(t, base)
	if baseSQL != "SELECT u.id FROM `users` u WHERE u.status = ?" {
		t.Errorf("base SQL() = %q, clone mutated the original", baseSQL)
	}

	variantSQL := buildSQL(t, variant)
	if variantSQL != "SELECT u.id FROM `users` u WHERE u.status = ? AND u.age > ?" {
		t.Errorf("variant SQL() = %q", variantSQL)
	}

	if base.Params().Len() != 1 || variant.Params().Len() != 2 {
		t.Errorf("params = %d / %d, want 1 / 2", base.Params().Len(), variant.Params().Len())
	}
}

func TestReset(t *testing.T) {
	b := newTestBuilder()
	b.Select("u.id").From("users", "u").Where("u.status = ?")
	b.Reset()

	if b.Kind() != "none" {
		t.Errorf("Kind() after Reset = %q, want none", b.Kind())
	}
	if _, err := b.SQL(); err == nil {
		t.Error("SQL() after Reset succeeded, want state error")
	}

	// The builder is reusable with a fresh kind.
	sql := buildSQL(t, b.Insert("users").SetValue("name", "?"))
	if sql != "INSERT INTO `users` (`name`) VALUES (?)" {
		t.Errorf("SQL() after Reset = %q", sql)
	}
}

func TestPostgresPlaceholderStyle(t *testing.T) {
	b := NewBuilder(platform.Postgres())
	b.Select("u.id").From("users", "u").
		Where("u.status = ?").
		AndWhere("u.age > ?").
		SetParameters("active", 18)

	sql, args, err := b.ResolvedSQL()
	if err != nil {
		t.Fatalf("ResolvedSQL() error = %v", err)
	}
	want := `SELECT u.id FROM "users" u WHERE u.status = $1 AND u.age > $2`
	if sql != want {
		t.Errorf("ResolvedSQL() sql = %q, want %q", sql, want)
	}
	if len(args) != 2 {
		t.Errorf("ResolvedSQL() args = %v", args)
	}
}

// Benchmark tests
func BenchmarkBuildSelect(b *testing.B) {
	for i := 0; i < b.N; i++ {
		qb := NewBuilder(platform.MySQL())
		_, _ = qb.Select("u.id", "u.name").
			From("users", "u").
			LeftJoin("u", "phones", "p", "p.user_id = u.id").
			Where("u.status = ?").
			OrderBy("u.name", "ASC").
			SetMaxResults(10).
			SQL()
	}
}
