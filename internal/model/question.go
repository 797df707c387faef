package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID                 string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	QuizID             string         `gorm:"type:varchar(36);not null;index" json:"quiz_id"`
	Question           string         `gorm:"type:text;not null" json:"question"`
	RelatedFlashcardID *string        `gorm:"type:varchar(64)" json:"related_flashcard_id,omitempty"`
	Choices            []Choice       `gorm:"foreignKey:QuestionID" json:"choices,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Question) TableName() string { return "question_and_answers" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

type Choice struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	QuestionID string `gorm:"type:varchar(36);not null;index" json:"question_id"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"is_correct"`
}

func (Choice) TableName() string { return "choices" }

func (c *Choice) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
