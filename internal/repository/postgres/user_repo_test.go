package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classifieds-bot-backend/internal/domain"
)

func newUserMock(t *testing.T) (domain.UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

func userRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "external_id", "handle", "given_name", "family_name", "phone",
		"language", "balance", "agreement_accepted", "created_at", "updated_at",
	}).AddRow(1, int64(777), "seller", "Olena", "K", nil, "uk", "2.50", true, now, now)
}

func TestGetOrCreateUpserts(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectQuery(`INSERT INTO users .+ ON CONFLICT \(external_id\) DO UPDATE`).
		WithArgs(int64(777), "seller", "Olena", "K").
		WillReturnRows(userRows(t))

	u, err := repo.GetOrCreate(context.Background(), 777, "seller", "Olena", "K")
	require.NoError(t, err)
	assert.Equal(t, int64(777), u.ExternalID)
	assert.True(t, decimal.RequireFromString("2.50").Equal(u.Balance))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByExternalIDNotFound(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE external_id = \$1`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByExternalID(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustBalanceDebit(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectExec(`UPDATE users SET balance = balance \+ \$2`).
		WithArgs(int64(1), "-1.50").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AdjustBalance(context.Background(), 1, decimal.RequireFromString("-1.50"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustBalanceBelowZero(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectExec(`UPDATE users SET balance = balance \+ \$2`).
		WithArgs(int64(1), "-10.00").
		WillReturnError(&pq.Error{Code: "23514"})

	err := repo.AdjustBalance(context.Background(), 1, decimal.RequireFromString("-10.00"))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}
