package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const QuizTypeMultipleChoice = "multiple-choice"

// ValidQuizTypes lists the quiz types the stores accept.
var ValidQuizTypes = map[string]bool{
	QuizTypeMultipleChoice: true,
}

type Quiz struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	DeckID    string         `gorm:"type:varchar(36);not null;index:idx_quizzes_deck_type,priority:1" json:"deck_id"`
	QuizType  string         `gorm:"not null;index:idx_quizzes_deck_type,priority:2" json:"quiz_type"`
	Questions []Question     `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// QuizBatch is the ledger row written in the same transaction as a batch of
// questions. Its presence means the batch is fully committed.
type QuizBatch struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	QuizID        string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_quiz_batches_quiz_key,priority:1" json:"quiz_id"`
	BatchKey      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_quiz_batches_quiz_key,priority:2" json:"batch_key"`
	QuestionCount int       `gorm:"not null;default:0" json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func (QuizBatch) TableName() string { return "quiz_batches" }

func (b *QuizBatch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// QuizClaim marks that one request has started creating the quiz of a type
// for a deck. The unique index makes the insert a compare-and-set.
type QuizClaim struct {
	DeckID    string    `gorm:"type:varchar(36);primaryKey" json:"deck_id"`
	QuizType  string    `gorm:"primaryKey" json:"quiz_type"`
	ClaimedAt time.Time `gorm:"not null;index" json:"claimed_at"`
}

func (QuizClaim) TableName() string { return "quiz_claims" }
