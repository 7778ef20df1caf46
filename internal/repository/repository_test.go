package repository

import (
	"context"
	"errors"
	"testing"

	"ludora/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a sqlx.DB backed by sqlmock with regexp query matching.
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestTransactionManager_Commit(t *testing.T) {
	db, mock := setupTestDB(t)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE user_profiles SET in_app_currency`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	profiles := NewSQLXProfileRepository(db)
	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return profiles.AddCurrency(ctx, "user-1", 10)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollbackOnError(t *testing.T) {
	db, mock := setupTestDB(t)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_NestedJoinsOuter(t *testing.T) {
	db, mock := setupTestDB(t)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return tm.WithTransaction(ctx, func(inner context.Context) error {
			calls++
			assert.Equal(t, ctx.Value(TransactionContextKey), inner.Value(TransactionContextKey))
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpectAffected_NoRowsIsNotFound(t *testing.T) {
	err := expectAffected(sqlmock.NewResult(0, 0), "quest", "q-1")
	assert.Equal(t, domain.CodeNotFound, domain.ErrorCodeOf(err))

	assert.NoError(t, expectAffected(sqlmock.NewResult(0, 1), "quest", "q-1"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(errors.New("ORA-00001: unique constraint (LUDORA.UQ_LEADERBOARDS_NAME) violated")))
	assert.False(t, isUniqueViolation(errors.New("ORA-02291: integrity constraint violated")))
	assert.False(t, isUniqueViolation(nil))
}
