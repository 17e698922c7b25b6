package errors

// Postgres helpers: map pgx failures onto the persistence codes

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the ledger distinguishes
const (
	pgErrUniqueViolation   = "23505"
	pgErrNotNullViolation  = "23502"
	pgErrCheckViolation    = "23514"
	pgErrUndefinedTable    = "42P01"
	pgErrSerialization     = "40001"
	pgErrDeadlockDetected  = "40P01"
	pgErrLockNotAvailable  = "55P03"
	pgErrReadOnlySQLTx     = "25006"
	pgErrCannotConnectNow  = "57P03"
	pgErrAdminShutdown     = "57P01"
	pgErrTooManyConnection = "53300"
)

// ExtractPgError returns (*pgconn.PgError, true) if the root cause is a PgError
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether the error is a Postgres error with the given SQLSTATE code
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsCheckViolation reports whether the error is a check constraint violation
func IsCheckViolation(err error) bool { return IsSQLState(err, pgErrCheckViolation) }

// IsUndefinedTable reports a missing relation, usually an unmigrated database
func IsUndefinedTable(err error) bool { return IsSQLState(err, pgErrUndefinedTable) }

// DBErrorCode maps a Postgres error to an ErrorCode
// !ok means err wasn't a PgError
// Constraint violations stay persistence faults: every row is built server side,
// so a rejected row is our bug, never the caller's
func DBErrorCode(err error) (ErrorCode, bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeUnknown, false
	}

	switch pgErr.Code {
	case pgErrReadOnlySQLTx, pgErrCannotConnectNow, pgErrAdminShutdown, pgErrTooManyConnection:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps a driver error with a mapped ErrorCode and message
// Deadline and cancellation surface as timeouts. nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, context.DeadlineExceeded) || stderrs.Is(err, context.Canceled) {
		return Wrap(err, ErrorCodeTimeout, msg)
	}
	if code, ok := DBErrorCode(err); ok {
		return Wrap(err, code, msg)
	}
	return Wrap(err, ErrorCodeDB, msg)
}

// FromPostgresf is the formatted variant of FromPostgres
func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// IsRetryable reports whether a database error is transient contention
// The ledger never retries on its own; callers and logs use this as a hint
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}

	root := Root(err)

	var pgErr *pgconn.PgError
	if stderrs.As(root, &pgErr) {
		switch pgErr.Code {
		case pgErrSerialization, pgErrDeadlockDetected, pgErrLockNotAvailable, pgErrCannotConnectNow:
			return true
		default:
			return false
		}
	}

	s := strings.ToLower(root.Error())
	return strings.Contains(s, "commit unexpectedly resulted in rollback") ||
		strings.Contains(s, "deadlock detected") ||
		strings.Contains(s, "could not serialize access") ||
		strings.Contains(s, "terminating connection due to administrator command")
}

// Retryable is the backend-neutral alias of IsRetryable
func Retryable(err error) bool { return IsRetryable(err) }
