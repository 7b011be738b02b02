// Package dbal provides a database abstraction layer for Go.
//
// go-dbal offers a Doctrine-inspired API for building SQL statements,
// composing predicate expressions, managing bound parameters and driving
// nested transactions across MySQL, PostgreSQL and SQLite.
//
// # Quick Start
//
// Connect to a database and start building statements:
//
//	conn, err := dbal.Connect("mysql", "user:pass@tcp(localhost:3306)/dbname")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	b := conn.Builder()
//
// # Select Statements
//
// Build SELECT statements using the fluent API:
//
//	stmt, err := conn.Builder().
//	    Select("u.id", "u.name", "u.email").
//	    From("users", "u").
//	    Where("u.status = ?").
//	    OrderBy("u.created_at", "DESC").
//	    SetMaxResults(10).
//	    SetParameter(0, "active").
//	    Query(ctx)
//
// # Expressions
//
// Compose predicates through the expression builder:
//
//	expr := conn.Expr()
//	b.Where(expr.AndX(
//	    expr.OrX(expr.Eq("a", "?"), expr.Eq("b", "?")),
//	    expr.Eq("c", "?"),
//	))
//
// # Insert, Update, Delete
//
// Execute write operations:
//
//	// Insert
//	affected, err := conn.Insert(ctx, "users", map[string]any{
//	    "name":  "John",
//	    "email": "john@example.com",
//	})
//
//	// Update
//	affected, err := conn.Update(ctx, "users",
//	    map[string]any{"status": "inactive"},
//	    map[string]any{"id": 1},
//	)
//
//	// Delete
//	affected, err := conn.Delete(ctx, "users", map[string]any{"status": "banned"})
//
// # Transactions
//
// Transactions nest by depth counting; enable savepoint nesting to make
// inner blocks individually revertible:
//
//	conn.SetNestTransactionsWithSavepoints(true)
//
//	err := conn.Transaction(ctx, func(c *dbal.Connection) error {
//	    if _, err := c.Insert(ctx, "accounts", debit); err != nil {
//	        return err
//	    }
//	    _, err := c.Insert(ctx, "accounts", credit)
//	    return err
//	})
//
// # Security
//
// go-dbal protects against SQL injection through:
//   - Prepared statements for all values
//   - Identifier validation (table/column names)
//   - Operator whitelisting
//
// # Thread Safety
//
// Builder instances are NOT thread-safe. Create a new instance for each
// goroutine or statement. Connection serializes query execution.
//
// # Supported Databases
//
//   - MySQL / MariaDB
//   - PostgreSQL
//   - SQLite
package dbal
