package postgres_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/flashgenius/flashgenius-api/internal/domain"
	"github.com/flashgenius/flashgenius-api/internal/platform/postgres"
	"github.com/flashgenius/flashgenius-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserStoreWithMock(t *testing.T) (store.UserStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	// MinCost keeps the hashing step fast in tests
	return postgres.NewPostgresUserStore(db, log, bcrypt.MinCost), mock, db
}

func newTestUser(t *testing.T) *domain.User {
	t.Helper()

	user, err := domain.NewUser("alice@example.com", "Alice", "password123")
	require.NoError(t, err)
	return user
}

func TestUserStoreCreate(t *testing.T) {
	userStore, mock, db := newUserStoreWithMock(t)
	defer func() { _ = db.Close() }()

	user := newTestUser(t)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, user.Email, user.DisplayName, sqlmock.AnyArg(), user.CreatedAt, user.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := userStore.Create(context.Background(), user)
	require.NoError(t, err)

	// The plaintext must be hashed before it reaches the database and
	// cleared afterwards.
	assert.Empty(t, user.Password)
	require.NotEmpty(t, user.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("password123")))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreCreateDuplicateEmail(t *testing.T) {
	userStore, mock, db := newUserStoreWithMock(t)
	defer func() { _ = db.Close() }()

	user := newTestUser(t)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(newPgError("23505"))

	err := userStore.Create(context.Background(), user)
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreCreateInvalidUser(t *testing.T) {
	userStore, mock, db := newUserStoreWithMock(t)
	defer func() { _ = db.Close() }()

	// Missing email fails validation before any SQL runs
	user := &domain.User{ID: uuid.New(), Password: "password123"}

	err := userStore.Create(context.Background(), user)
	assert.ErrorIs(t, err, domain.ErrEmptyEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreGetByID(t *testing.T) {
	userStore, mock, db := newUserStoreWithMock(t)
	defer func() { _ = db.Close() }()

	id := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "email", "display_name", "hashed_password", "created_at", "updated_at"}).
		AddRow(id.String(), "alice@example.com", "Alice", "$2a$10$fakehash", now, now)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(rows)

	user, err := userStore.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.DisplayName)
	assert.Equal(t, "$2a$10$fakehash", user.HashedPassword)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreGetByIDNotFound(t *testing.T) {
	userStore, mock, db := newUserStoreWithMock(t)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WillReturnError(sql.ErrNoRows)

	_, err := userStore.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreGetByEmail(t *testing.T) {
	userStore, mock, db := newUserStoreWithMock(t)
	defer func() { _ = db.Close() }()

	id := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "email", "display_name", "hashed_password", "created_at", "updated_at"}).
		AddRow(id.String(), "alice@example.com", "Alice", "$2a$10$fakehash", now, now)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("Alice@Example.com").
		WillReturnRows(rows)

	// Lookup is case-insensitive, the stored casing comes back
	user, err := userStore.GetByEmail(context.Background(), "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreGetByEmailNotFound(t *testing.T) {
	userStore, mock, db := newUserStoreWithMock(t)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE lower\(email\) = lower\(\$1\)`).
		WillReturnError(sql.ErrNoRows)

	_, err := userStore.GetByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreUpdateNotFound(t *testing.T) {
	userStore, mock, db := newUserStoreWithMock(t)
	defer func() { _ = db.Close() }()

	user := newTestUser(t)
	user.Password = ""
	user.HashedPassword = "$2a$10$fakehash"

	mock.ExpectExec(`UPDATE users`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := userStore.Update(context.Background(), user)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreDelete(t *testing.T) {
	userStore, mock, db := newUserStoreWithMock(t)
	defer func() { _ = db.Close() }()

	id := uuid.New()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := userStore.Delete(context.Background(), id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreDeleteNotFound(t *testing.T) {
	userStore, mock, db := newUserStoreWithMock(t)
	defer func() { _ = db.Close() }()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := userStore.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
