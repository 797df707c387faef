package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/lshigami/studydeck/internal/apperr"
	"github.com/lshigami/studydeck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawItems(t *testing.T, items ...string) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, 0, len(items))
	for _, s := range items {
		require.True(t, json.Valid([]byte(s)), s)
		out = append(out, json.RawMessage(s))
	}
	return out
}

const goodItem = `{"question":"What is ATP?","related_flashcard_id":"card-1","choices":[
	{"text":"Energy carrier","is_correct":true},{"text":"A protein","is_correct":false},
	{"text":"A lipid","is_correct":false},{"text":"A sugar","is_correct":false}]}`

func TestQuizRepository_CreateQuiz(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewQuizRepository(db)
	deck := seedDeck(t, db, 1, time.Now().UTC())

	id, err := repo.CreateQuiz(ctx, deck.ID, model.QuizTypeMultipleChoice)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = repo.CreateQuiz(ctx, "", model.QuizTypeMultipleChoice)
	assert.Equal(t, apperr.CodeInvalidDeckID, apperr.CodeOf(err))

	_, err = repo.CreateQuiz(ctx, deck.ID, "essay")
	assert.Equal(t, apperr.CodeInvalidQuizType, apperr.CodeOf(err))
}

func TestQuizRepository_AppendQuestionsSkipsMalformed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewQuizRepository(db)
	deck := seedDeck(t, db, 1, time.Now().UTC())
	quizID, err := repo.CreateQuiz(ctx, deck.ID, model.QuizTypeMultipleChoice)
	require.NoError(t, err)

	items := rawItems(t,
		goodItem,
		`{"question":"","choices":[{"text":"a","is_correct":true}]}`,
		`{"question":"No choices","choices":[]}`,
		`{"question":"Choices is a string","choices":"abc"}`,
		`"not an object"`,
		`{"question":"Blank choice dropped","choices":[{"text":" ","is_correct":false},{"text":"kept","is_correct":true}]}`,
	)

	n, err := repo.AppendQuestions(ctx, quizID, items)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	quiz, err := repo.GetQuizWithQuestions(ctx, quizID)
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 2)
	assert.Len(t, quiz.Questions[0].Choices, 4)
	require.NotNil(t, quiz.Questions[0].RelatedFlashcardID)
	assert.Equal(t, "card-1", *quiz.Questions[0].RelatedFlashcardID)
	assert.Len(t, quiz.Questions[1].Choices, 1)

	for _, q := range quiz.Questions {
		correct := 0
		for _, c := range q.Choices {
			if c.IsCorrect {
				correct++
			}
		}
		assert.Equal(t, 1, correct, q.Question)
	}
}

func TestQuizRepository_AppendQuestionsErrors(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewQuizRepository(db)

	_, err := repo.AppendQuestions(ctx, "", rawItems(t, goodItem))
	assert.Equal(t, apperr.CodeInvalidQuizID, apperr.CodeOf(err))

	_, err = repo.AppendQuestions(ctx, "quiz", nil)
	assert.Equal(t, apperr.CodeMissingQuestionData, apperr.CodeOf(err))

	_, err = repo.AppendQuestions(ctx, "missing-quiz", rawItems(t, goodItem))
	assert.Equal(t, apperr.CodeQuizNotFound, apperr.CodeOf(err))

	var count int64
	require.NoError(t, db.Model(&model.Question{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestQuizRepository_AppendBatchIsOncePerKey(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewQuizRepository(db)
	deck := seedDeck(t, db, 1, time.Now().UTC())
	quizID, err := repo.CreateQuiz(ctx, deck.ID, model.QuizTypeMultipleChoice)
	require.NoError(t, err)

	committed, err := repo.IsBatchCommitted(ctx, quizID, "key-1")
	require.NoError(t, err)
	assert.False(t, committed)

	n, err := repo.AppendBatch(ctx, quizID, "key-1", rawItems(t, goodItem, goodItem))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	committed, err = repo.IsBatchCommitted(ctx, quizID, "key-1")
	require.NoError(t, err)
	assert.True(t, committed)

	n, err = repo.AppendBatch(ctx, quizID, "key-1", rawItems(t, goodItem))
	require.NoError(t, err)
	assert.Zero(t, n)

	var batch model.QuizBatch
	require.NoError(t, db.Where("quiz_id = ? AND batch_key = ?", quizID, "key-1").First(&batch).Error)
	assert.Equal(t, 2, batch.QuestionCount)

	var count int64
	require.NoError(t, db.Model(&model.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestQuizRepository_AppendBatchRollsBackOnMissingQuiz(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewQuizRepository(db)

	_, err := repo.AppendBatch(ctx, "missing-quiz", "key-1", rawItems(t, goodItem))
	assert.Equal(t, apperr.CodeQuizNotFound, apperr.CodeOf(err))

	committed, err := repo.IsBatchCommitted(ctx, "missing-quiz", "key-1")
	require.NoError(t, err)
	assert.False(t, committed)
}

func TestQuizRepository_GetQuizzesByDeckAndType(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewQuizRepository(db)
	deck := seedDeck(t, db, 1, time.Now().UTC())

	quizzes, err := repo.GetQuizzesByDeckAndType(ctx, deck.ID, model.QuizTypeMultipleChoice)
	require.NoError(t, err)
	assert.NotNil(t, quizzes)
	assert.Empty(t, quizzes)

	first := model.Quiz{DeckID: deck.ID, QuizType: model.QuizTypeMultipleChoice, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	second := model.Quiz{DeckID: deck.ID, QuizType: model.QuizTypeMultipleChoice, CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Create(&first).Error)

	quizzes, err = repo.GetQuizzesByDeckAndType(ctx, deck.ID, model.QuizTypeMultipleChoice)
	require.NoError(t, err)
	require.Len(t, quizzes, 2)
	assert.Equal(t, first.ID, quizzes[0].ID)

	_, err = repo.GetQuizWithQuestions(ctx, "missing")
	assert.Equal(t, apperr.CodeQuizNotFound, apperr.CodeOf(err))
}
