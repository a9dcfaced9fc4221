package pooja

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DC-BookingService/pkg/dbmetrics"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT .* FROM poojas WHERE id = \\$1 AND is_deleted = \\$2").
		WithArgs(id, false).
		WillReturnRows(sqlmock.NewRows(poojaColumns).
			AddRow(id.String(), "Satyanarayan Pooja", 1100.0, 2100.0, 2500.0, 500.0, int64(90), int64(12), false))

	p, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Satyanarayan Pooja", p.Name)
	assert.Equal(t, 500.0, p.ItemsArrangementCost)
	assert.Equal(t, 90, p.DurationMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery("SELECT .* FROM poojas").WillReturnRows(sqlmock.NewRows(poojaColumns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPoojaNotFound)
}

func TestGetByIDs(t *testing.T) {
	repo, mock := newRepo(t)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT .* FROM poojas WHERE id IN \\(\\$1,\\$2\\) AND is_deleted = \\$3").
		WithArgs(a.String(), b.String(), false).
		WillReturnRows(sqlmock.NewRows(poojaColumns).
			AddRow(a.String(), "Ganesh Pooja", 500.0, 800.0, 900.0, 0.0, int64(60), int64(0), false))

	got, err := repo.GetByIDs(context.Background(), []uuid.UUID{a, b})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Ganesh Pooja", got[a].Name)
	assert.Nil(t, got[b])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementTotalBookings(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE poojas SET total_bookings = total_bookings \\+ 1 WHERE id = \\$1").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementTotalBookings(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
