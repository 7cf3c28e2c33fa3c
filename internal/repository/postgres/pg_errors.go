package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kirinyoku/cinebook/internal/repository"
)

// SQLSTATE codes the repositories care about.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeExclusionViolation   = "23P01"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsRetryable reports whether the transaction lost a serialization race and
// could succeed if run again.
func IsRetryable(err error) bool {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

func translateDBErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	switch pgCode(err) {
	case codeUniqueViolation, codeExclusionViolation:
		return fmt.Errorf("%w: %w", repository.ErrConflict, err)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %w", repository.ErrNotFound, err)
	case codeCheckViolation:
		return fmt.Errorf("%w: %w", repository.ErrConstraint, err)
	}

	return err
}

// wrapDBErr prefixes err with op after mapping driver errors onto the
// repository sentinels.
func wrapDBErr(op string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s:%w", op, translateDBErr(err))
}
