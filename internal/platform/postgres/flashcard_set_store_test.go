package postgres_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/flashgenius/flashgenius-api/internal/domain"
	"github.com/flashgenius/flashgenius-api/internal/platform/postgres"
	"github.com/flashgenius/flashgenius-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSetStoreWithMock(t *testing.T) (store.FlashcardSetStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return postgres.NewPostgresFlashcardSetStore(db, log), mock, db
}

func newTestSet(t *testing.T, ownerID uuid.UUID) *domain.FlashcardSet {
	t.Helper()

	set, err := domain.NewFlashcardSet(ownerID, "Photosynthesis", []domain.Flashcard{
		{Question: "What is photosynthesis?", Answer: "Conversion of light into chemical energy"},
		{Question: "Where does it occur?", Answer: "In the chloroplasts"},
	})
	require.NoError(t, err)
	return set
}

func TestFlashcardSetStoreCreate(t *testing.T) {
	setStore, mock, db := newSetStoreWithMock(t)
	defer func() { _ = db.Close() }()

	ownerID := uuid.New()
	set := newTestSet(t, ownerID)

	cardsJSON, err := json.Marshal(set.Cards)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO flashcard_sets`).
		WithArgs(set.ID, set.OwnerID, set.Title, cardsJSON, len(set.Cards), set.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = setStore.Create(context.Background(), set)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlashcardSetStoreCreateUnknownOwner(t *testing.T) {
	setStore, mock, db := newSetStoreWithMock(t)
	defer func() { _ = db.Close() }()

	set := newTestSet(t, uuid.New())

	mock.ExpectExec(`INSERT INTO flashcard_sets`).
		WillReturnError(newPgError("23503"))

	err := setStore.Create(context.Background(), set)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlashcardSetStoreCreateInvalidSet(t *testing.T) {
	setStore, mock, db := newSetStoreWithMock(t)
	defer func() { _ = db.Close() }()

	// No cards fails validation before any SQL runs
	set := &domain.FlashcardSet{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		Title:     "Empty",
		CreatedAt: time.Now().UTC(),
	}

	err := setStore.Create(context.Background(), set)
	assert.ErrorIs(t, err, domain.ErrSetNoCards)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlashcardSetStoreGetByID(t *testing.T) {
	setStore, mock, db := newSetStoreWithMock(t)
	defer func() { _ = db.Close() }()

	ownerID := uuid.New()
	set := newTestSet(t, ownerID)

	cardsJSON, err := json.Marshal(set.Cards)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "owner_id", "title", "cards", "created_at"}).
		AddRow(set.ID.String(), ownerID.String(), set.Title, cardsJSON, set.CreatedAt)

	mock.ExpectQuery(`SELECT (.+) FROM flashcard_sets WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(set.ID, ownerID).
		WillReturnRows(rows)

	got, err := setStore.GetByID(context.Background(), set.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, set.ID, got.ID)
	assert.Equal(t, set.Title, got.Title)
	require.Len(t, got.Cards, 2)
	assert.Equal(t, "What is photosynthesis?", got.Cards[0].Question)
	assert.Equal(t, "In the chloroplasts", got.Cards[1].Answer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlashcardSetStoreGetByIDNotFound(t *testing.T) {
	setStore, mock, db := newSetStoreWithMock(t)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT (.+) FROM flashcard_sets WHERE id = \$1 AND owner_id = \$2`).
		WillReturnError(sql.ErrNoRows)

	_, err := setStore.GetByID(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrFlashcardSetNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlashcardSetStoreListByOwner(t *testing.T) {
	setStore, mock, db := newSetStoreWithMock(t)
	defer func() { _ = db.Close() }()

	ownerID := uuid.New()
	now := time.Now().UTC()
	newerID := uuid.New()
	olderID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "title", "card_count", "created_at"}).
		AddRow(newerID.String(), "Spanish Verbs", 8, now).
		AddRow(olderID.String(), "Photosynthesis", 5, now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT (.+) FROM flashcard_sets WHERE owner_id = \$1 ORDER BY created_at DESC, id DESC`).
		WithArgs(ownerID).
		WillReturnRows(rows)

	summaries, err := setStore.ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, newerID, summaries[0].ID)
	assert.Equal(t, "Spanish Verbs", summaries[0].Title)
	assert.Equal(t, 8, summaries[0].CardCount)
	assert.Equal(t, olderID, summaries[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlashcardSetStoreListByOwnerEmpty(t *testing.T) {
	setStore, mock, db := newSetStoreWithMock(t)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"id", "title", "card_count", "created_at"})

	mock.ExpectQuery(`SELECT (.+) FROM flashcard_sets WHERE owner_id = \$1`).
		WillReturnRows(rows)

	summaries, err := setStore.ListByOwner(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlashcardSetStoreDelete(t *testing.T) {
	setStore, mock, db := newSetStoreWithMock(t)
	defer func() { _ = db.Close() }()

	id := uuid.New()
	ownerID := uuid.New()

	mock.ExpectExec(`DELETE FROM flashcard_sets WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(id, ownerID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := setStore.Delete(context.Background(), id, ownerID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlashcardSetStoreDeleteNotFound(t *testing.T) {
	setStore, mock, db := newSetStoreWithMock(t)
	defer func() { _ = db.Close() }()

	mock.ExpectExec(`DELETE FROM flashcard_sets WHERE id = \$1 AND owner_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := setStore.Delete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrFlashcardSetNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
