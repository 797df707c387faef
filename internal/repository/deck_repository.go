package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/studydeck/internal/apperr"
	"github.com/lshigami/studydeck/internal/model"
	"gorm.io/gorm"
)

// MarkerField is the result of an existence-checking read of a deck
// timestamp. Exists is false when the deck itself is missing.
type MarkerField struct {
	Exists       bool
	FieldPresent bool
	Value        *time.Time
}

type DeckRepository interface {
	CreateDeck(ctx context.Context, deck *model.Deck) error
	AddFlashcards(ctx context.Context, deckID string, cards []model.Flashcard) ([]model.Flashcard, error)
	FindDeck(ctx context.Context, deckID string) (*model.Deck, error)
	GetDeckWithFlashcards(ctx context.Context, deckID string) (*model.Deck, error)
	GetMarkerField(ctx context.Context, deckID, field string) (MarkerField, error)
	UpdateDeck(ctx context.Context, deckID string, fields map[string]any) error
	AdvanceMarker(ctx context.Context, deckID string, at time.Time) (bool, error)
	GetFlashcardsSince(ctx context.Context, deckID string, since time.Time) ([]model.Flashcard, error)
}

// markerFields are the deck timestamps GetMarkerField may read.
var markerFields = map[string]func(*model.Deck) *time.Time{
	model.MarkerMadeToQuizAt: func(d *model.Deck) *time.Time { return d.MadeToQuizAt },
}

// updatableDeckFields are the columns UpdateDeck accepts.
var updatableDeckFields = map[string]bool{
	"title":                  true,
	"is_public":              true,
	model.MarkerMadeToQuizAt: true,
}

type deckRepository struct {
	db *gorm.DB
}

func NewDeckRepository(db *gorm.DB) DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) CreateDeck(ctx context.Context, deck *model.Deck) error {
	if strings.TrimSpace(deck.OwnerID) == "" {
		return apperr.New(apperr.CodeInvalidUserID, errors.New("owner id is empty"))
	}
	if strings.TrimSpace(deck.Title) == "" {
		return apperr.New(apperr.CodeInvalidFields, errors.New("title is empty"))
	}
	if err := r.db.WithContext(ctx).Create(deck).Error; err != nil {
		return fmt.Errorf("create deck: %w", err)
	}
	return nil
}

func (r *deckRepository) AddFlashcards(ctx context.Context, deckID string, cards []model.Flashcard) ([]model.Flashcard, error) {
	if strings.TrimSpace(deckID) == "" {
		return nil, apperr.New(apperr.CodeInvalidDeckID, errors.New("deck id is empty"))
	}
	if len(cards) == 0 {
		return nil, apperr.New(apperr.CodeInvalidFields, errors.New("no flashcards given"))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findDeck(tx, deckID, &model.Deck{}); err != nil {
			return err
		}
		for i := range cards {
			cards[i].DeckID = deckID
		}
		if err := tx.Create(&cards).Error; err != nil {
			return fmt.Errorf("insert flashcards: %w", err)
		}
		// Touch the deck so its updated_at reflects the edit.
		return tx.Model(&model.Deck{}).Where("id = ?", deckID).Update("updated_at", tx.NowFunc()).Error
	})
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *deckRepository) FindDeck(ctx context.Context, deckID string) (*model.Deck, error) {
	if strings.TrimSpace(deckID) == "" {
		return nil, apperr.New(apperr.CodeInvalidDeckID, errors.New("deck id is empty"))
	}
	var deck model.Deck
	err := r.db.WithContext(ctx).
		Preload("Flashcards", func(db *gorm.DB) *gorm.DB {
			return db.Order("flashcards.created_at ASC, flashcards.id ASC")
		}).
		Where("id = ?", deckID).First(&deck).Error
	if err != nil {
		return nil, notFoundOr(err, apperr.CodeDeckNotFound, "deck %s", deckID)
	}
	return &deck, nil
}

func (r *deckRepository) GetDeckWithFlashcards(ctx context.Context, deckID string) (*model.Deck, error) {
	deck, err := r.FindDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if len(deck.Flashcards) == 0 {
		return nil, apperr.Newf(apperr.CodeNoValidQuestions, "deck %s has no flashcards", deckID)
	}
	return deck, nil
}

func (r *deckRepository) GetMarkerField(ctx context.Context, deckID, field string) (MarkerField, error) {
	if strings.TrimSpace(deckID) == "" {
		return MarkerField{}, apperr.New(apperr.CodeInvalidDeckID, errors.New("deck id is empty"))
	}
	get, ok := markerFields[field]
	if !ok {
		return MarkerField{}, apperr.Newf(apperr.CodeInvalidFields, "unknown marker field %q", field)
	}

	var deck model.Deck
	err := findDeck(r.db.WithContext(ctx), deckID, &deck)
	if apperr.CodeOf(err) == apperr.CodeDeckNotFound {
		return MarkerField{Exists: false}, nil
	}
	if err != nil {
		return MarkerField{}, err
	}

	value := get(&deck)
	return MarkerField{Exists: true, FieldPresent: value != nil, Value: value}, nil
}

func (r *deckRepository) UpdateDeck(ctx context.Context, deckID string, fields map[string]any) error {
	if strings.TrimSpace(deckID) == "" {
		return apperr.New(apperr.CodeInvalidDeckID, errors.New("deck id is empty"))
	}
	if len(fields) == 0 {
		return apperr.New(apperr.CodeInvalidFields, errors.New("no fields to update"))
	}
	for name := range fields {
		if !updatableDeckFields[name] {
			return apperr.Newf(apperr.CodeInvalidFields, "field %q cannot be updated", name)
		}
	}

	res := r.db.WithContext(ctx).Model(&model.Deck{}).Where("id = ?", deckID).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update deck %s: %w", deckID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Newf(apperr.CodeDeckNotFound, "deck %s", deckID)
	}
	return nil
}

// AdvanceMarker sets made_to_quiz_at to at unless it already holds an equal or
// later instant, so the marker never moves backward. It reports whether it moved.
func (r *deckRepository) AdvanceMarker(ctx context.Context, deckID string, at time.Time) (bool, error) {
	if strings.TrimSpace(deckID) == "" {
		return false, apperr.New(apperr.CodeInvalidDeckID, errors.New("deck id is empty"))
	}
	at = at.UTC()
	db := r.db.WithContext(ctx)

	res := db.Model(&model.Deck{}).
		Where("id = ? AND (made_to_quiz_at IS NULL OR made_to_quiz_at < ?)", deckID, at).
		Update(model.MarkerMadeToQuizAt, at)
	if res.Error != nil {
		return false, fmt.Errorf("advance marker of deck %s: %w", deckID, res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	if err := findDeck(db, deckID, &model.Deck{}); err != nil {
		return false, err
	}
	return false, nil
}

// GetFlashcardsSince returns the deck's cards with created_at >= since, oldest
// first. It is a pure read.
func (r *deckRepository) GetFlashcardsSince(ctx context.Context, deckID string, since time.Time) ([]model.Flashcard, error) {
	if strings.TrimSpace(deckID) == "" {
		return nil, apperr.New(apperr.CodeInvalidDeckID, errors.New("deck id is empty"))
	}
	var cards []model.Flashcard
	err := r.db.WithContext(ctx).
		Where("deck_id = ? AND created_at >= ?", deckID, since.UTC()).
		Order("created_at ASC, id ASC").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("query flashcards since %s: %w", since.Format(time.RFC3339Nano), err)
	}
	return cards, nil
}

func findDeck(db *gorm.DB, deckID string, deck *model.Deck) error {
	if err := db.Where("id = ?", deckID).First(deck).Error; err != nil {
		return notFoundOr(err, apperr.CodeDeckNotFound, "deck %s", deckID)
	}
	return nil
}

// notFoundOr maps gorm.ErrRecordNotFound to code and wraps anything else.
func notFoundOr(err error, code apperr.Code, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(code, fmt.Errorf(format+": %w", append(args, err)...))
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
