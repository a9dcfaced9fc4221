package temple

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DC-BookingService/pkg/dbmetrics"
)

func TestGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(dbmetrics.Wrap(db, nil))

	id := uuid.New()
	mock.ExpectQuery("SELECT id, name, city, is_deleted FROM temples WHERE id = \\$1 AND is_deleted = \\$2").
		WithArgs(id, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "city", "is_deleted"}).
			AddRow(id.String(), "Kashi Vishwanath", "Varanasi", false))

	temple, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Kashi Vishwanath", temple.Name)
	assert.Equal(t, "Varanasi", *temple.City)

	mock.ExpectQuery("SELECT .* FROM temples").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTempleNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
