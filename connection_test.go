package dbal

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/biyonik/go-dbal/platform"
)

// fakeResult, sabit kimlik ve satır sayısı dönen sql.Result'tır.
type fakeResult struct {
	id       int64
	affected int64
}

func (r fakeResult) LastInsertId() (int64, error) { return r.id, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.affected, nil }

// captureDriver, yürütülen yazma cümlelerini argümanlarıyla birlikte kaydeder.
type captureDriver struct {
	fakeDriver
	execQueries []string
	execArgs    [][]any
	result      fakeResult
}

func (d *captureDriver) Execute(_ context.Context, query string, args []any) (sql.Result, error) {
	d.execQueries = append(d.execQueries, query)
	d.execArgs = append(d.execArgs, args)
	return d.result, nil
}

func newTestConnection(t *testing.T) (*Connection, *captureDriver) {
	t.Helper()
	driver := &captureDriver{result: fakeResult{id: 7, affected: 1}}
	return NewConnection(driver, platform.MySQL()), driver
}

func TestConnectionInsert(t *testing.T) {
	ctx := context.Background()
	conn, driver := newTestConnection(t)

	affected, err := conn.Insert(ctx, "users", map[string]any{
		"name":  "John",
		"email": "john@example.com",
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if affected != 1 {
		t.Errorf("Insert() affected = %d, want 1", affected)
	}

	// Columns are sorted for deterministic SQL.
	wantSQL := "INSERT INTO `users` (`email`, `name`) VALUES (?, ?)"
	if driver.execQueries[0] != wantSQL {
		t.Errorf("Insert() sql = %q, want %q", driver.execQueries[0], wantSQL)
	}
	if !reflect.DeepEqual(driver.execArgs[0], []any{"john@example.com", "John"}) {
		t.Errorf("Insert() args = %v", driver.execArgs[0])
	}

	if conn.LastInsertID() != 7 {
		t.Errorf("LastInsertID() = %d, want 7", conn.LastInsertID())
	}
}

func TestConnectionInsertEmptyValues(t *testing.T) {
	conn, _ := newTestConnection(t)

	if _, err := conn.Insert(context.Background(), "users", nil); !errors.Is(err, ErrNoValues) {
		t.Errorf("Insert() error = %v, want ErrNoValues", err)
	}
}

func TestConnectionUpdate(t *testing.T) {
	ctx := context.Background()
	conn, driver := newTestConnection(t)

	_, err := conn.Update(ctx, "users",
		map[string]any{"status": "inactive"},
		map[string]any{"id": 1},
	)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	wantSQL := "UPDATE `users` SET `status` = ? WHERE id = ?"
	if driver.execQueries[0] != wantSQL {
		t.Errorf("Update() sql = %q, want %q", driver.execQueries[0], wantSQL)
	}
	if !reflect.DeepEqual(driver.execArgs[0], []any{"inactive", 1}) {
		t.Errorf("Update() args = %v", driver.execArgs[0])
	}
}

func TestConnectionUpdateNilIdentifier(t *testing.T) {
	ctx := context.Background()
	conn, driver := newTestConnection(t)

	_, err := conn.Update(ctx, "users",
		map[string]any{"status": "archived"},
		map[string]any{"deleted_at": nil},
	)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	wantSQL := "UPDATE `users` SET `status` = ? WHERE deleted_at IS NULL"
	if driver.execQueries[0] != wantSQL {
		t.Errorf("Update() sql = %q, want %q", driver.execQueries[0], wantSQL)
	}
	if !reflect.DeepEqual(driver.execArgs[0], []any{"archived"}) {
		t.Errorf("Update() args = %v", driver.execArgs[0])
	}
}

func TestConnectionDelete(t *testing.T) {
	ctx := context.Background()
	conn, driver := newTestConnection(t)

	_, err := conn.Delete(ctx, "users", map[string]any{"status": "banned"})
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	wantSQL := "DELETE FROM `users` WHERE status = ?"
	if driver.execQueries[0] != wantSQL {
		t.Errorf("Delete() sql = %q, want %q", driver.execQueries[0], wantSQL)
	}
}

func TestConnectionDeleteSliceIdentifier(t *testing.T) {
	ctx := context.Background()
	conn, driver := newTestConnection(t)

	// A slice identifier becomes an IN predicate with one placeholder per element.
	_, err := conn.Delete(ctx, "users", map[string]any{"id": []int{1, 2, 3}})
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	wantSQL := "DELETE FROM `users` WHERE id IN (?, ?, ?)"
	if driver.execQueries[0] != wantSQL {
		t.Errorf("Delete() sql = %q, want %q", driver.execQueries[0], wantSQL)
	}
	if !reflect.DeepEqual(driver.execArgs[0], []any{1, 2, 3}) {
		t.Errorf("Delete() args = %v", driver.execArgs[0])
	}
}

func TestConnectionExecute(t *testing.T) {
	ctx := context.Background()
	conn, driver := newTestConnection(t)

	affected, err := conn.Execute(ctx, "UPDATE users SET status = ? WHERE id = ?", "active", 1)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if affected != 1 {
		t.Errorf("Execute() affected = %d, want 1", affected)
	}
	if !reflect.DeepEqual(driver.execArgs[0], []any{"active", 1}) {
		t.Errorf("Execute() args = %v", driver.execArgs[0])
	}
}

func TestConnectionClosed(t *testing.T) {
	ctx := context.Background()
	conn, _ := newTestConnection(t)

	if err := conn.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !conn.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}

	// Repeated Close is harmless.
	if err := conn.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if _, err := conn.Execute(ctx, "DELETE FROM users"); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("Execute() on closed error = %v, want ErrConnectionClosed", err)
	}
	if _, err := conn.Query(ctx, "SELECT 1"); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("Query() on closed error = %v, want ErrConnectionClosed", err)
	}
	if err := conn.Begin(ctx); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("Begin() on closed error = %v, want ErrConnectionClosed", err)
	}
}

func TestConnectionBuilderExecute(t *testing.T) {
	ctx := context.Background()
	conn, driver := newTestConnection(t)

	// Insert returns the generated key.
	id, err := conn.Builder().
		Insert("users").
		SetValue("name", "?").
		SetParameters("John").
		Execute(ctx)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if id != 7 {
		t.Errorf("Execute() insert id = %d, want 7", id)
	}

	// Update returns the affected row count.
	affected, err := conn.Builder().
		Update("users", "").
		Set("status", "?").
		Where("id = ?").
		SetParameters("inactive", 1).
		Execute(ctx)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if affected != 1 {
		t.Errorf("Execute() update affected = %d, want 1", affected)
	}

	if len(driver.execQueries) != 2 {
		t.Fatalf("execQueries = %v", driver.execQueries)
	}
}

func TestBuilderExecuteKindGuards(t *testing.T) {
	ctx := context.Background()
	conn, _ := newTestConnection(t)

	if _, err := conn.Builder().Select("id").From("users", "").Execute(ctx); !errors.Is(err, ErrInvalidQueryState) {
		t.Errorf("Execute() on select error = %v, want ErrInvalidQueryState", err)
	}
	if _, err := conn.Builder().Insert("users").SetValue("name", "?").Query(ctx); !errors.Is(err, ErrInvalidQueryState) {
		t.Errorf("Query() on insert error = %v, want ErrInvalidQueryState", err)
	}

	// A detached builder cannot execute.
	if _, err := NewBuilder(platform.MySQL()).Insert("users").SetValue("name", "?").Execute(ctx); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("Execute() without connection error = %v, want ErrConnectionClosed", err)
	}
}

func TestConnectionTransactionDelegation(t *testing.T) {
	ctx := context.Background()
	conn, driver := newTestConnection(t)

	err := conn.Transaction(ctx, func(c *Connection) error {
		_, err := c.Insert(ctx, "users", map[string]any{"name": "John"})
		return err
	})
	if err != nil {
		t.Fatalf("Transaction() error = %v", err)
	}

	if conn.TransactionDepth() != 0 || conn.InTransaction() {
		t.Errorf("TransactionDepth() = %d after commit, want 0", conn.TransactionDepth())
	}

	want := []string{"BEGIN", "COMMIT"}
	if !reflect.DeepEqual(driver.statements, want) {
		t.Errorf("control statements = %v, want %v", driver.statements, want)
	}
	if len(driver.execQueries) != 1 {
		t.Errorf("execQueries = %v, want one insert", driver.execQueries)
	}
}

func TestConnectionSetTransactionIsolation(t *testing.T) {
	ctx := context.Background()
	conn, driver := newTestConnection(t)

	if err := conn.SetTransactionIsolation(ctx, platform.IsolationSerializable); err != nil {
		t.Fatalf("SetTransactionIsolation() error = %v", err)
	}

	wantSQL := "SET SESSION TRANSACTION ISOLATION LEVEL SERIALIZABLE"
	if driver.execQueries[0] != wantSQL {
		t.Errorf("SetTransactionIsolation() sql = %q, want %q", driver.execQueries[0], wantSQL)
	}

	if err := conn.SetTransactionIsolation(ctx, platform.IsolationLevel(42)); err == nil {
		t.Error("SetTransactionIsolation() with unknown level accepted, want error")
	}
}

// recordingLogger, Log çağrılarını sayan test logger'ıdır.
type recordingLogger struct {
	queries []string
}

func (l *recordingLogger) Log(query string, _ []any, _ time.Duration, _ error) {
	l.queries = append(l.queries, query)
}

func TestConnectionOptions(t *testing.T) {
	driver := &captureDriver{result: fakeResult{affected: 1}}
	logger := &recordingLogger{}

	conn := NewConnection(driver, platform.MySQL(),
		WithLogger(logger),
		WithDebug(true),
		WithResultCache(NewMemoryCache(8), 30*time.Second),
		WithSavepointNesting(),
	)

	if _, err := conn.Execute(context.Background(), "DELETE FROM users WHERE id = ?", 1); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(logger.queries) != 1 {
		t.Errorf("logger captured %d queries, want 1", len(logger.queries))
	}
	if !conn.tx.NestWithSavepoints() {
		t.Error("WithSavepointNesting() did not enable savepoint mode")
	}
	if conn.cacheTTL != 30*time.Second {
		t.Errorf("cacheTTL = %v, want 30s", conn.cacheTTL)
	}
}
