package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/rewards-onboarding/internal/entity"
)

func TestUserRepositoryCreateAssignsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("joe@diner.test", "hash", "Joe", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	repo := NewUserRepository(db)
	u := &entity.User{Email: "joe@diner.test", PasswordHash: "hash", Name: "Joe", CreatedAt: time.Now(), UpdatedAt: time.Now()}

	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int64(42), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	repo := NewUserRepository(db)
	err = repo.Create(context.Background(), &entity.User{Email: "joe@diner.test", PasswordHash: "hash", Name: "Joe"})

	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateDuplicateEmailPgx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	repo := NewUserRepository(db)
	err = repo.Create(context.Background(), &entity.User{Email: "joe@diner.test", PasswordHash: "hash", Name: "Joe"})

	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)
}

func TestUserRepositoryCreateOtherError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").WillReturnError(errors.New("connection reset"))

	repo := NewUserRepository(db)
	err = repo.Create(context.Background(), &entity.User{Email: "joe@diner.test", PasswordHash: "hash", Name: "Joe"})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrEmailAlreadyExists)
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT id, email, password, name, created_at, updated_at FROM users WHERE email").
		WithArgs("joe@diner.test").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name", "created_at", "updated_at"}).
			AddRow(7, "joe@diner.test", "hash", "Joe", now, now))

	repo := NewUserRepository(db)
	u, err := repo.FindByEmail(context.Background(), "joe@diner.test")

	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestUserRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name", "created_at", "updated_at"}))

	repo := NewUserRepository(db)
	_, err = repo.FindByID(context.Background(), 9)

	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}
