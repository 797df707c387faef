package repository

import (
	"testing"
	"time"

	"github.com/lshigami/studydeck/database"
	"github.com/lshigami/studydeck/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedDeck(t *testing.T, db *gorm.DB, cards int, createdAt time.Time) *model.Deck {
	t.Helper()
	deck := &model.Deck{Title: "Biology", OwnerID: "owner-1"}
	require.NoError(t, db.Create(deck).Error)
	for i := 0; i < cards; i++ {
		card := model.Flashcard{
			DeckID:     deck.ID,
			Term:       "term",
			Definition: "definition",
			CreatedAt:  createdAt.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.Create(&card).Error)
	}
	return deck
}
