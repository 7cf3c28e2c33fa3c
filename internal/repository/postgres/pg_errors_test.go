package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kirinyoku/cinebook/internal/repository"
	"github.com/stretchr/testify/assert"
)

func TestTranslateDBErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, repository.ErrNotFound},
		{"unique", &pgconn.PgError{Code: codeUniqueViolation}, repository.ErrConflict},
		{"foreign key", &pgconn.PgError{Code: codeForeignKeyViolation}, repository.ErrNotFound},
		{"check", &pgconn.PgError{Code: codeCheckViolation}, repository.ErrConstraint},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, wrapDBErr("op", tc.err), tc.want)
		})
	}

	plain := errors.New("boom")
	assert.Equal(t, plain, translateDBErr(plain))
	assert.NoError(t, wrapDBErr("op", nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("commit: %w", &pgconn.PgError{Code: codeSerializationFailure})))
	assert.True(t, IsRetryable(&pgconn.PgError{Code: codeDeadlockDetected}))
	assert.False(t, IsRetryable(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, IsRetryable(errors.New("boom")))
}
