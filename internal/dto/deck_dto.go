package dto

import "time"

type FlashcardResponseDTO struct {
	ID         string    `json:"id"`
	DeckID     string    `json:"deck_id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	CreatedAt  time.Time `json:"created_at"`
}

type DeckResponseDTO struct {
	ID           string                 `json:"id"`
	Title        string                 `json:"title"`
	OwnerID      string                 `json:"owner_id"`
	IsPublic     bool                   `json:"is_public"`
	MadeToQuizAt *time.Time             `json:"made_to_quiz_at,omitempty"`
	Flashcards   []FlashcardResponseDTO `json:"flashcards"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}
