package repository

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/studydeck/internal/apperr"
	"github.com/lshigami/studydeck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckRepository_GetDeckWithFlashcards(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewDeckRepository(db)
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("returns cards oldest first", func(t *testing.T) {
		deck := seedDeck(t, db, 3, base)

		got, err := repo.GetDeckWithFlashcards(ctx, deck.ID)
		require.NoError(t, err)
		require.Len(t, got.Flashcards, 3)
		assert.True(t, got.Flashcards[0].CreatedAt.Before(got.Flashcards[2].CreatedAt))
	})

	t.Run("missing deck", func(t *testing.T) {
		_, err := repo.GetDeckWithFlashcards(ctx, "does-not-exist")
		assert.Equal(t, apperr.CodeDeckNotFound, apperr.CodeOf(err))
	})

	t.Run("deck without cards", func(t *testing.T) {
		deck := seedDeck(t, db, 0, base)
		_, err := repo.GetDeckWithFlashcards(ctx, deck.ID)
		assert.Equal(t, apperr.CodeNoValidQuestions, apperr.CodeOf(err))
	})

	t.Run("soft deleted cards are ignored", func(t *testing.T) {
		deck := seedDeck(t, db, 1, base)
		require.NoError(t, db.Where("deck_id = ?", deck.ID).Delete(&model.Flashcard{}).Error)

		_, err := repo.GetDeckWithFlashcards(ctx, deck.ID)
		assert.Equal(t, apperr.CodeNoValidQuestions, apperr.CodeOf(err))
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := repo.GetDeckWithFlashcards(ctx, "  ")
		assert.Equal(t, apperr.CodeInvalidDeckID, apperr.CodeOf(err))
	})
}

func TestDeckRepository_GetMarkerField(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewDeckRepository(db)
	deck := seedDeck(t, db, 1, time.Now().UTC())

	got, err := repo.GetMarkerField(ctx, deck.ID, model.MarkerMadeToQuizAt)
	require.NoError(t, err)
	assert.True(t, got.Exists)
	assert.False(t, got.FieldPresent)
	assert.Nil(t, got.Value)

	marker := time.Date(2025, 2, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateDeck(ctx, deck.ID, map[string]any{model.MarkerMadeToQuizAt: marker}))

	got, err = repo.GetMarkerField(ctx, deck.ID, model.MarkerMadeToQuizAt)
	require.NoError(t, err)
	assert.True(t, got.FieldPresent)
	require.NotNil(t, got.Value)
	assert.True(t, marker.Equal(*got.Value))

	missing, err := repo.GetMarkerField(ctx, "nope", model.MarkerMadeToQuizAt)
	require.NoError(t, err)
	assert.False(t, missing.Exists)

	_, err = repo.GetMarkerField(ctx, deck.ID, "title")
	assert.Equal(t, apperr.CodeInvalidFields, apperr.CodeOf(err))
}

func TestDeckRepository_UpdateDeck(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewDeckRepository(db)
	deck := seedDeck(t, db, 0, time.Now().UTC())

	require.NoError(t, repo.UpdateDeck(ctx, deck.ID, map[string]any{"title": "Chemistry"}))
	var reloaded model.Deck
	require.NoError(t, db.First(&reloaded, "id = ?", deck.ID).Error)
	assert.Equal(t, "Chemistry", reloaded.Title)

	err := repo.UpdateDeck(ctx, deck.ID, map[string]any{"owner_id": "someone-else"})
	assert.Equal(t, apperr.CodeInvalidFields, apperr.CodeOf(err))

	err = repo.UpdateDeck(ctx, deck.ID, nil)
	assert.Equal(t, apperr.CodeInvalidFields, apperr.CodeOf(err))

	err = repo.UpdateDeck(ctx, "", map[string]any{"title": "x"})
	assert.Equal(t, apperr.CodeInvalidDeckID, apperr.CodeOf(err))

	err = repo.UpdateDeck(ctx, "missing", map[string]any{"title": "x"})
	assert.Equal(t, apperr.CodeDeckNotFound, apperr.CodeOf(err))
}

func TestDeckRepository_AdvanceMarkerNeverMovesBackward(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewDeckRepository(db)
	deck := seedDeck(t, db, 0, time.Now().UTC())
	early := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	moved, err := repo.AdvanceMarker(ctx, deck.ID, late)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.AdvanceMarker(ctx, deck.ID, early)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = repo.AdvanceMarker(ctx, deck.ID, late)
	require.NoError(t, err)
	assert.False(t, moved)

	marker, err := repo.GetMarkerField(ctx, deck.ID, model.MarkerMadeToQuizAt)
	require.NoError(t, err)
	require.NotNil(t, marker.Value)
	assert.True(t, late.Equal(*marker.Value))

	_, err = repo.AdvanceMarker(ctx, "missing", late)
	assert.Equal(t, apperr.CodeDeckNotFound, apperr.CodeOf(err))

	_, err = repo.AdvanceMarker(ctx, " ", late)
	assert.Equal(t, apperr.CodeInvalidDeckID, apperr.CodeOf(err))
}

func TestDeckRepository_GetFlashcardsSinceIsInclusive(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewDeckRepository(db)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	deck := seedDeck(t, db, 3, base) // base, base+1s, base+2s

	cards, err := repo.GetFlashcardsSince(ctx, deck.ID, base.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.True(t, base.Add(time.Second).Equal(cards[0].CreatedAt))

	cards, err = repo.GetFlashcardsSince(ctx, deck.ID, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, cards)

	// The read never writes the marker.
	var reloaded model.Deck
	require.NoError(t, db.First(&reloaded, "id = ?", deck.ID).Error)
	assert.Nil(t, reloaded.MadeToQuizAt)
}

func TestDeckRepository_CreateAndAddFlashcards(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewDeckRepository(db)

	deck := &model.Deck{Title: "History", OwnerID: "u1"}
	require.NoError(t, repo.CreateDeck(ctx, deck))
	require.NotEmpty(t, deck.ID)

	cards, err := repo.AddFlashcards(ctx, deck.ID, []model.Flashcard{
		{Term: "1066", Definition: "Battle of Hastings"},
		{Term: "1215", Definition: "Magna Carta"},
	})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, deck.ID, cards[0].DeckID)
	assert.NotEmpty(t, cards[1].ID)

	_, err = repo.AddFlashcards(ctx, "missing", []model.Flashcard{{Term: "a", Definition: "b"}})
	assert.Equal(t, apperr.CodeDeckNotFound, apperr.CodeOf(err))

	err = repo.CreateDeck(ctx, &model.Deck{Title: "No owner"})
	assert.Equal(t, apperr.CodeInvalidUserID, apperr.CodeOf(err))
}
