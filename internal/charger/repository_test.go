package charger

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var chargerCols = []string{
	"id", "host_id", "title", "description", "charger_type", "power_rating",
	"charging_speed", "plug_type", "num_ports", "price_per_hour", "address",
	"city", "state", "pincode", "latitude", "longitude", "is_available",
	"is_approved", "created_at", "updated_at",
}

func chargerRow(id int, available, approved bool) []driver.Value {
	now := time.Now()
	return []driver.Value{
		id, 2, "Home Charger", "", "CCS", 22.0, "Fast", "Type-2", 1, "100.00",
		"12 Main St", "Pune", "MH", "411001", 18.52, 73.85, available, approved,
		now, now,
	}
}

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func TestCreateAppliesDefaults(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO chargers")).
		WillReturnRows(sqlmock.NewRows(chargerCols).AddRow(chargerRow(10, true, false)...))

	c, err := repo.Create(context.Background(), &Charger{
		HostID:      2,
		Title:       "Home Charger",
		IsAvailable: true,
		IsApproved:  false,
	})
	require.NoError(t, err)
	require.Equal(t, 10, c.ID)
	require.False(t, c.IsApproved)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveReconcilesSuspendedCharger(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	// The row arrives with an inconsistent pair; the write must persist
	// is_available=false AND is_approved=false.
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE chargers")).
		WithArgs(
			"Home Charger", "", "CCS", 22.0, "Fast", "Type-2", 1,
			sqlmock.AnyArg(), "12 Main St", "Pune", "MH", "411001",
			18.52, 73.85, false, false, 10,
		).
		WillReturnRows(sqlmock.NewRows(chargerCols).AddRow(chargerRow(10, false, false)...))

	c := &Charger{
		ID: 10, HostID: 2, Title: "Home Charger", ChargerType: "CCS",
		PowerRating: 22.0, ChargingSpeed: "Fast", PlugType: "Type-2",
		NumPorts: 1, Address: "12 Main St", City: "Pune", State: "MH",
		Pincode: "411001", Latitude: 18.52, Longitude: 73.85,
		IsAvailable: false, IsApproved: true,
	}

	saved, err := repo.Save(context.Background(), c)
	require.NoError(t, err)
	require.False(t, saved.IsApproved)
	require.False(t, saved.IsAvailable)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListFiltersByDerivedState(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("is_available = TRUE AND is_approved = FALSE")).
		WillReturnRows(sqlmock.NewRows(chargerCols).AddRow(chargerRow(1, true, false)...))

	chargers, err := repo.List(context.Background(), ListFilter{State: StatePending})
	require.NoError(t, err)
	require.Len(t, chargers, 1)
	require.Equal(t, StatePending, ApprovalState(chargers[0]))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM chargers WHERE id = $1")).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	require.Error(t, err)
}
