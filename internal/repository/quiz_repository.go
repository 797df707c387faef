package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lshigami/studydeck/internal/apperr"
	"github.com/lshigami/studydeck/internal/dto"
	"github.com/lshigami/studydeck/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizRepository interface {
	CreateQuiz(ctx context.Context, deckID, quizType string) (string, error)
	// AppendQuestions writes each well-formed item as a question with its
	// choices and skips malformed ones. It returns how many were written.
	AppendQuestions(ctx context.Context, quizID string, items []json.RawMessage) (int, error)
	// AppendBatch is AppendQuestions plus a ledger row for batchKey, in one
	// transaction. A batch that is already in the ledger writes nothing.
	AppendBatch(ctx context.Context, quizID, batchKey string, items []json.RawMessage) (int, error)
	IsBatchCommitted(ctx context.Context, quizID, batchKey string) (bool, error)
	GetQuizzesByDeckAndType(ctx context.Context, deckID, quizType string) ([]model.Quiz, error)
	GetQuizWithQuestions(ctx context.Context, quizID string) (*model.Quiz, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) CreateQuiz(ctx context.Context, deckID, quizType string) (string, error) {
	if strings.TrimSpace(deckID) == "" {
		return "", apperr.New(apperr.CodeInvalidDeckID, errors.New("deck id is empty"))
	}
	if !model.ValidQuizTypes[quizType] {
		return "", apperr.Newf(apperr.CodeInvalidQuizType, "unknown quiz type %q", quizType)
	}

	quiz := model.Quiz{DeckID: deckID, QuizType: quizType}
	if err := r.db.WithContext(ctx).Create(&quiz).Error; err != nil {
		return "", fmt.Errorf("create quiz for deck %s: %w", deckID, err)
	}
	return quiz.ID, nil
}

func (r *quizRepository) AppendQuestions(ctx context.Context, quizID string, items []json.RawMessage) (int, error) {
	if err := validateAppend(quizID, items); err != nil {
		return 0, err
	}

	written := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := appendItems(tx, quizID, items)
		written = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (r *quizRepository) AppendBatch(ctx context.Context, quizID, batchKey string, items []json.RawMessage) (int, error) {
	if err := validateAppend(quizID, items); err != nil {
		return 0, err
	}
	if batchKey == "" {
		return 0, apperr.New(apperr.CodeInvalidFields, errors.New("batch key is empty"))
	}

	written := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := model.QuizBatch{QuizID: quizID, BatchKey: batchKey}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
		if res.Error != nil {
			return fmt.Errorf("insert batch ledger row: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			log.Info().Str("quizID", quizID).Str("batchKey", batchKey).Msg("Batch already committed, nothing written")
			return nil
		}

		n, err := appendItems(tx, quizID, items)
		if err != nil {
			return err
		}
		written = n
		return tx.Model(&model.QuizBatch{}).Where("id = ?", entry.ID).Update("question_count", n).Error
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (r *quizRepository) IsBatchCommitted(ctx context.Context, quizID, batchKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.QuizBatch{}).
		Where("quiz_id = ? AND batch_key = ?", quizID, batchKey).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check batch %s of quiz %s: %w", batchKey, quizID, err)
	}
	return count > 0, nil
}

// GetQuizzesByDeckAndType returns active quizzes, earliest first.
func (r *quizRepository) GetQuizzesByDeckAndType(ctx context.Context, deckID, quizType string) ([]model.Quiz, error) {
	if strings.TrimSpace(deckID) == "" {
		return nil, apperr.New(apperr.CodeInvalidDeckID, errors.New("deck id is empty"))
	}
	if !model.ValidQuizTypes[quizType] {
		return nil, apperr.Newf(apperr.CodeInvalidQuizType, "unknown quiz type %q", quizType)
	}
	quizzes := []model.Quiz{}
	err := r.db.WithContext(ctx).
		Where("deck_id = ? AND quiz_type = ?", deckID, quizType).
		Order("created_at ASC, id ASC").
		Find(&quizzes).Error
	if err != nil {
		return nil, fmt.Errorf("query quizzes for deck %s: %w", deckID, err)
	}
	return quizzes, nil
}

func (r *quizRepository) GetQuizWithQuestions(ctx context.Context, quizID string) (*model.Quiz, error) {
	if strings.TrimSpace(quizID) == "" {
		return nil, apperr.New(apperr.CodeInvalidQuizID, errors.New("quiz id is empty"))
	}
	var quiz model.Quiz
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_and_answers.created_at ASC, question_and_answers.id ASC")
		}).
		Preload("Questions.Choices").
		Where("id = ?", quizID).First(&quiz).Error
	if err != nil {
		return nil, notFoundOr(err, apperr.CodeQuizNotFound, "quiz %s", quizID)
	}
	return &quiz, nil
}

func validateAppend(quizID string, items []json.RawMessage) error {
	if strings.TrimSpace(quizID) == "" {
		return apperr.New(apperr.CodeInvalidQuizID, errors.New("quiz id is empty"))
	}
	if len(items) == 0 {
		return apperr.New(apperr.CodeMissingQuestionData, errors.New("no questions to append"))
	}
	return nil
}

// appendItems writes items inside tx. The quiz's updated_at is bumped first,
// which also proves the quiz exists.
func appendItems(tx *gorm.DB, quizID string, items []json.RawMessage) (int, error) {
	res := tx.Model(&model.Quiz{}).Where("id = ?", quizID).Update("updated_at", tx.NowFunc())
	if res.Error != nil {
		return 0, fmt.Errorf("touch quiz %s: %w", quizID, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, apperr.Newf(apperr.CodeQuizNotFound, "quiz %s", quizID)
	}

	written := 0
	for i, raw := range items {
		question, ok := toQuestion(quizID, i, raw)
		if !ok {
			continue
		}
		if err := tx.Create(&question).Error; err != nil {
			return 0, fmt.Errorf("insert question %d of quiz %s: %w", i, quizID, err)
		}
		written++
	}
	return written, nil
}

// toQuestion decodes one AI item. Malformed items and choices are logged and
// dropped rather than failing the batch.
func toQuestion(quizID string, index int, raw json.RawMessage) (model.Question, bool) {
	var item dto.QuestionItem
	if err := json.Unmarshal(raw, &item); err != nil {
		log.Warn().Err(err).Str("quizID", quizID).Int("index", index).Msg("Skipping malformed question item")
		return model.Question{}, false
	}
	text := strings.TrimSpace(item.Question)
	if text == "" {
		log.Warn().Str("quizID", quizID).Int("index", index).Msg("Skipping question item without text")
		return model.Question{}, false
	}

	choices := make([]model.Choice, 0, len(item.Choices))
	correct := 0
	for _, c := range item.Choices {
		if strings.TrimSpace(c.Text) == "" {
			log.Warn().Str("quizID", quizID).Int("index", index).Msg("Dropping choice without text")
			continue
		}
		if c.IsCorrect {
			correct++
		}
		choices = append(choices, model.Choice{Text: c.Text, IsCorrect: c.IsCorrect})
	}
	if len(choices) == 0 {
		log.Warn().Str("quizID", quizID).Int("index", index).Msg("Skipping question item without choices")
		return model.Question{}, false
	}
	if correct != 1 {
		log.Warn().Str("quizID", quizID).Int("index", index).Int("correctChoices", correct).
			Msg("Question does not have exactly one correct choice")
	}

	var related *string
	if item.RelatedFlashcardID != nil && strings.TrimSpace(*item.RelatedFlashcardID) != "" {
		id := strings.TrimSpace(*item.RelatedFlashcardID)
		related = &id
	}
	return model.Question{QuizID: quizID, Question: text, RelatedFlashcardID: related, Choices: choices}, true
}
