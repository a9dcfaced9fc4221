package mapping

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DC-BookingService/pkg/ptr"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func TestGetActiveForPooja(t *testing.T) {
	repo, mock := newRepo(t)
	poojaID, priestID := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT .* FROM priest_pooja_mappings WHERE is_active = \\$1 AND is_deleted = \\$2 AND pooja_id = \\$3 ORDER BY created_at ASC, id ASC").
		WithArgs(true, false, poojaID).
		WillReturnRows(sqlmock.NewRows(mappingColumns).AddRow(
			uuid.NewString(), priestID.String(), poojaID.String(), true,
			"{Monday,Friday}", `{"09:00 AM","06:00 PM"}`,
			1500.0, nil, nil, int64(20), int64(7), false,
		))

	list, err := repo.GetActive(context.Background(), &poojaID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	m := list[0]
	assert.Equal(t, priestID, m.PriestID)
	assert.Equal(t, []string{"Monday", "Friday"}, m.AvailableDays)
	assert.Equal(t, []string{"09:00 AM", "06:00 PM"}, m.AvailableTimeSlots)
	assert.Equal(t, ptr.Ptr(1500.0), m.PriceVirtual)
	assert.Nil(t, m.PriceTemple)
	assert.Equal(t, 20, *m.YearsExperience)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveAllPoojas(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT .* FROM priest_pooja_mappings WHERE is_active = \\$1 AND is_deleted = \\$2 ORDER BY").
		WithArgs(true, false).
		WillReturnRows(sqlmock.NewRows(mappingColumns))

	list, err := repo.GetActive(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByPriestAndPoojaNotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT .* FROM priest_pooja_mappings .* LIMIT 1").
		WillReturnRows(sqlmock.NewRows(mappingColumns))

	_, err := repo.GetByPriestAndPooja(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrMappingNotFound)
}

func TestIncrementTotalPerformed(t *testing.T) {
	repo, mock := newRepo(t)
	priestID, poojaID := uuid.New(), uuid.New()

	mock.ExpectExec("UPDATE priest_pooja_mappings SET total_performed = total_performed \\+ 1 WHERE is_deleted = \\$1 AND pooja_id = \\$2 AND priest_id = \\$3").
		WithArgs(false, poojaID, priestID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementTotalPerformed(context.Background(), priestID, poojaID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
