package pgsql

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyPgError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{"deadline", context.DeadlineExceeded, true},
		{"connection exception", &pgconn.PgError{Code: "08006"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"syntax error", &pgconn.PgError{Code: "42601"}, false},
		{"unique violation", &pgconn.PgError{Code: pgUniqueViolation}, false},
		{"unknown", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyPgError("op", tt.err)
			assert.Equal(t, tt.unavailable, errors.Is(err, apperrors.ErrStorageUnavailable))
		})
	}

	assert.NoError(t, classifyPgError("op", nil))
	assert.ErrorIs(t, classifyPgError("op", context.Canceled), context.Canceled)
}

func TestRejection(t *testing.T) {
	key := domain.NewAccountKey("alice", domain.GlobalScope())
	epoch := domain.Epoch
	later := epoch.Add(1)

	acc := domain.NewAccount(key)
	acc.Balance = 10

	err := rejection(domain.Adjustment{Key: key, Delta: -11}, acc)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	acc.LastGrantAt = later
	err = rejection(domain.Adjustment{Key: key, Delta: 5, ExpectLastGrantAt: &epoch}, acc)
	assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)

	// State moved on after the failed write and would now accept it.
	err = rejection(domain.Adjustment{Key: key, Delta: 5, ExpectLastGrantAt: &later}, acc)
	assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)
}
