package booking

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingCols = []string{
	"id", "reference", "user_id", "charger_id", "start_time", "end_time",
	"status", "total_cost", "payment_status", "host_notes", "user_notes",
	"cancellation_reason", "created_at", "updated_at",
}

func bookingRow(id int, status string, start, end time.Time) []driver.Value {
	now := time.Now()
	return []driver.Value{
		id, "4f6f1c2a-1111-2222-3333-444455556666", 3, 5, start, end,
		status, "200.00", PaymentPending, "", "", "", now, now,
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

func pendingBooking(start, end time.Time) *Booking {
	return &Booking{
		Reference:     "4f6f1c2a-1111-2222-3333-444455556666",
		UserID:        3,
		ChargerID:     5,
		StartTime:     start,
		EndTime:       end,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
	}
}

func TestCreateBookingCommitsWhenRangeIsFree(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM chargers WHERE id = $1 FOR UPDATE")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(5, start, end).
		WillReturnRows(sqlmock.NewRows(bookingCols))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(bookingRow(1, StatusPending, start, end)...))
	mock.ExpectCommit()

	created, err := repo.CreateBooking(context.Background(), pendingBooking(start, end))
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, StatusPending, created.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRollsBackOnOverlap(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	takenStart := start.Add(-time.Hour)
	takenEnd := start.Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM chargers WHERE id = $1 FOR UPDATE")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(5, start, end).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(bookingRow(7, StatusConfirmed, takenStart, takenEnd)...))
	mock.ExpectRollback()

	_, err := repo.CreateBooking(context.Background(), pendingBooking(start, end))

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 5, conflict.ChargerID)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, Interval{Start: takenStart, End: takenEnd}, conflict.Conflicts[0])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingMapsExclusionViolation(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM chargers WHERE id = $1 FOR UPDATE")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(5, start, end).
		WillReturnRows(sqlmock.NewRows(bookingCols))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"})
	mock.ExpectRollback()

	_, err := repo.CreateBooking(context.Background(), pendingBooking(start, end))

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 5, conflict.ChargerID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveBookingsOverlappingIgnoresTerminalStatuses(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(5, start, end).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	bookings, err := repo.ActiveBookingsOverlapping(context.Background(), 5, start, end)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateStatusGuardsTransition(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("UPDATE bookings").
		WithArgs(StatusConfirmed, "see you there", 1, StatusPending).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(bookingRow(1, StatusConfirmed, start, start.Add(time.Hour))...))

	b, err := repo.UpdateStatus(context.Background(), 1, StatusPending, StatusConfirmed, "see you there")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusReturnsConflictWhenRowMoved(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("UPDATE bookings").
		WithArgs(StatusConfirmed, "", 1, StatusPending).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err := repo.UpdateStatus(context.Background(), 1, StatusPending, StatusConfirmed, "")
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestUpdateStatusWritesCancellationReason(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("cancellation_reason = $2")).
		WithArgs(StatusCancelled, "plans changed", 1, StatusPending).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(bookingRow(1, StatusCancelled, start, start.Add(time.Hour))...))

	b, err := repo.UpdateStatus(context.Background(), 1, StatusPending, StatusCancelled, "plans changed")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, b.Status)
}
