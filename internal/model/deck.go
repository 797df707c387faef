package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarkerMadeToQuizAt is the deck column recording the last successful quiz pass.
const MarkerMadeToQuizAt = "made_to_quiz_at"

type Deck struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	OwnerID      string         `gorm:"not null;index" json:"owner_id"`
	IsPublic     bool           `gorm:"not null;default:false" json:"is_public"`
	MadeToQuizAt *time.Time     `json:"made_to_quiz_at,omitempty"`
	Flashcards   []Flashcard    `gorm:"foreignKey:DeckID" json:"flashcards,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *Deck) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// Flashcard.CreatedAt is assigned once on insert and never updated; the quiz
// engine relies on it to find cards added since the last pass.
type Flashcard struct {
	ID         string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	DeckID     string         `gorm:"type:varchar(36);not null;index:idx_flashcards_deck_created,priority:1" json:"deck_id"`
	Term       string         `gorm:"type:text;not null" json:"term"`
	Definition string         `gorm:"type:text;not null" json:"definition"`
	CreatedAt  time.Time      `gorm:"index:idx_flashcards_deck_created,priority:2" json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (f *Flashcard) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
