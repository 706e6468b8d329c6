package user

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{
	"id", "email", "password_hash", "first_name", "last_name",
	"phone_number", "role", "created_at",
}

func userRow(id int, email, role string) []driver.Value {
	return []driver.Value{
		id, email, "$2a$10$hash", "Eva", "Nowak", "+48123456789", role, time.Now(),
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

func TestCreateUser(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("eva@example.com", "$2a$10$hash", "Eva", "Nowak", "+48123456789", "USER").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(userRow(1, "eva@example.com", "USER")...))

	u, err := repo.Create(context.Background(), &User{
		Email:        "eva@example.com",
		PasswordHash: "$2a$10$hash",
		FirstName:    "Eva",
		LastName:     "Nowak",
		PhoneNumber:  "+48123456789",
		Role:         "USER",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("eva@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(userRow(1, "eva@example.com", "USER")...))

	u, err := repo.FindByEmail(context.Background(), "eva@example.com")
	require.NoError(t, err)
	assert.Equal(t, "eva@example.com", u.Email)
}

func TestFindByEmailMissing(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestEmailExists(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("eva@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "eva@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestListByRole(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE role").
		WithArgs("HOST").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(userRow(9, "host@example.com", "HOST")...))

	users, err := repo.ListByRole(context.Background(), "HOST")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "HOST", users[0].Role)
}
