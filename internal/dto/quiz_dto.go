package dto

import "time"

// QuestionItem is one generated question as the AI returns it.
type QuestionItem struct {
	Question           string       `json:"question"`
	RelatedFlashcardID *string      `json:"related_flashcard_id"`
	Choices            []ChoiceItem `json:"choices"`
}

type ChoiceItem struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Envelope payloads, one per successful outcome.

type QuizCreatedData struct {
	QuizID         string `json:"quizId"`
	QuestionsAdded int    `json:"questionsAdded"`
}

type QuizExtendedData struct {
	QuizID               string `json:"quizId"`
	CountOfNewFlashcards int    `json:"countOfNewFlashcards"`
	QuestionsAdded       int    `json:"questionsAdded"`
}

type QuizUnchangedData struct {
	QuizID string `json:"quizId"`
}

type ChoiceResponseDTO struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionResponseDTO struct {
	ID                 string              `json:"id"`
	Question           string              `json:"question"`
	RelatedFlashcardID *string             `json:"related_flashcard_id,omitempty"`
	Choices            []ChoiceResponseDTO `json:"choices"`
	CreatedAt          time.Time           `json:"created_at"`
}

type QuizDetailDTO struct {
	ID        string                `json:"id"`
	DeckID    string                `json:"deck_id"`
	QuizType  string                `json:"quiz_type"`
	Questions []QuestionResponseDTO `json:"questions"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}
