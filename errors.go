package dbal

import (
	"errors"

	"github.com/biyonik/go-dbal/internal/validation"
)

// Sentinel errors for go-dbal.
// These errors can be checked using errors.Is().
var (
	// ErrInvalidIdentifier is returned when a table or column name contains invalid characters.
	ErrInvalidIdentifier = errors.New("dbal: invalid SQL identifier")

	// ErrInvalidOperator is returned when an unsupported SQL operator is used.
	ErrInvalidOperator = errors.New("dbal: invalid SQL operator")

	// ErrInvalidQueryState is returned when a builder method conflicts with the
	// statement kind already chosen (for example calling Set on a SELECT builder).
	ErrInvalidQueryState = errors.New("dbal: invalid query builder state")

	// ErrUnknownAlias is returned when a join references an alias that was never declared.
	ErrUnknownAlias = errors.New("dbal: unknown table alias")

	// ErrNonUniqueAlias is returned when the same alias is declared twice.
	ErrNonUniqueAlias = errors.New("dbal: non-unique table alias")

	// ErrPlaceholderStyleConflict is returned when a statement mixes positional (?)
	// and named (:name) placeholders.
	ErrPlaceholderStyleConflict = errors.New("dbal: positional and named placeholders cannot be mixed")

	// ErrParameterMismatch is returned when a placeholder has no bound value
	// or a positional binding has no placeholder.
	ErrParameterMismatch = errors.New("dbal: placeholder and parameter counts do not match")

	// ErrNoActiveTransaction is returned when commit or rollback is requested
	// outside of a transaction.
	ErrNoActiveTransaction = errors.New("dbal: no active transaction")

	// ErrCommitRollbackOnly is returned when committing a transaction that was
	// marked rollback-only.
	ErrCommitRollbackOnly = errors.New("dbal: transaction is marked for rollback only")

	// ErrSavepointsNotSupported is returned when savepoint operations are
	// requested on a platform without savepoint support.
	ErrSavepointsNotSupported = errors.New("dbal: savepoints are not supported by this platform")

	// ErrNestingInTransaction is returned when savepoint nesting mode is toggled
	// while a transaction is open.
	ErrNestingInTransaction = errors.New("dbal: savepoint nesting mode cannot change inside an open transaction")

	// ErrNoRows is returned when a query returns no rows.
	ErrNoRows = errors.New("dbal: no rows in result set")

	// ErrNoTable is returned when a statement is built without a table.
	ErrNoTable = errors.New("dbal: no table specified")

	// ErrNoValues is returned when an insert or update carries no column values.
	ErrNoValues = errors.New("dbal: no values specified")

	// ErrEmptyIn is returned when an IN predicate receives an empty value list.
	ErrEmptyIn = errors.New("dbal: empty value list passed to IN")

	// ErrConnectionClosed is returned when a closed connection is used.
	ErrConnectionClosed = errors.New("dbal: connection closed")

	// ErrStatementClosed is returned when a closed statement is iterated.
	ErrStatementClosed = errors.New("dbal: statement already closed")

	// ErrNilDestination is returned when a nil pointer is passed as scan destination.
	ErrNilDestination = errors.New("dbal: nil destination pointer")

	// ErrInvalidDestination is returned when the destination is not a pointer to struct/slice.
	ErrInvalidDestination = errors.New("dbal: destination must be a pointer to struct or slice")

	// ErrCacheMiss is returned by result caches when a key has no entry.
	ErrCacheMiss = errors.New("dbal: cache miss")
)

// QueryError wraps a driver error with the statement that produced it.
type QueryError struct {
	Err     error
	Query   string
	Args    []any
	Message string
}

func (e *QueryError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError creates a new QueryError with context.
func NewQueryError(err error, query string, args []any, message string) *QueryError {
	return &QueryError{
		Err:     err,
		Query:   query,
		Args:    args,
		Message: message,
	}
}

// WrapError attaches an operation name to a driver error.
func WrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Err: err, Message: "dbal: " + operation}
}

// StateError reports a builder call that is illegal in the current statement kind.
// It unwraps to ErrInvalidQueryState.
type StateError struct {
	Method string
	Kind   string
	Reason string
}

func (e *StateError) Error() string {
	return "dbal: " + e.Method + " is not allowed on a " + e.Kind + " statement: " + e.Reason
}

func (e *StateError) Is(target error) bool {
	return target == ErrInvalidQueryState
}

// ParameterError reports a placeholder/binding problem with its position or name.
type ParameterError struct {
	Err         error
	Placeholder string
	Reason      string
}

func (e *ParameterError) Error() string {
	if e.Placeholder != "" {
		return "dbal: parameter '" + e.Placeholder + "': " + e.Reason
	}
	return "dbal: parameter error: " + e.Reason
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

// ValidationError represents an identifier validation error.
type ValidationError struct {
	Identifier string
	Context    string
	Reason     string
}

func (e *ValidationError) Error() string {
	return "dbal: invalid " + e.Context + " '" + e.Identifier + "': " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

// NewValidationError creates a new ValidationError.
func NewValidationError(identifier, context, reason string) *ValidationError {
	return &ValidationError{
		Identifier: identifier,
		Context:    context,
		Reason:     reason,
	}
}

// mapValidationError lifts internal identifier validation failures onto the
// package sentinel so callers can match them with errors.Is.
func mapValidationError(err error) error {
	var ie *validation.IdentifierError
	if errors.As(err, &ie) {
		return &ValidationError{Identifier: ie.Identifier, Context: "identifier", Reason: ie.Reason}
	}
	return err
}
