package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/studydeck/database"
	"github.com/lshigami/studydeck/internal/dto"
	"github.com/lshigami/studydeck/internal/model"
	"github.com/lshigami/studydeck/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeAI answers every batch with one well-formed question per flashcard
// unless respond overrides it.
type fakeAI struct {
	calls   [][]string
	respond func(call int, ids []string) (json.RawMessage, error)
}

func (f *fakeAI) GenerateStructured(_ context.Context, _ *genai.Schema, _ string, inlineData string) (json.RawMessage, error) {
	ids := idsFromBatch(inlineData)
	f.calls = append(f.calls, ids)
	if f.respond != nil {
		return f.respond(len(f.calls)-1, ids)
	}
	return questionsFor(ids), nil
}

func idsFromBatch(inline string) []string {
	var ids []string
	for _, line := range strings.Split(inline, "\n") {
		if id, ok := strings.CutPrefix(line, "ID: "); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func questionsFor(ids []string) json.RawMessage {
	items := make([]dto.QuestionItem, 0, len(ids))
	for _, id := range ids {
		related := id
		items = append(items, dto.QuestionItem{
			Question:           "Which definition matches card " + id + "?",
			RelatedFlashcardID: &related,
			Choices: []dto.ChoiceItem{
				{Text: "right", IsCorrect: true},
				{Text: "wrong 1"},
				{Text: "wrong 2"},
				{Text: "wrong 3"},
			},
		})
	}
	raw, _ := json.Marshal(map[string]any{"quiz": items, "errorMessage": nil})
	return raw
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

// counting wrappers record every write the engine makes.

type countingDeckRepo struct {
	repository.DeckRepository
	updates int
}

func (r *countingDeckRepo) UpdateDeck(ctx context.Context, deckID string, fields map[string]any) error {
	r.updates++
	return r.DeckRepository.UpdateDeck(ctx, deckID, fields)
}

func (r *countingDeckRepo) AdvanceMarker(ctx context.Context, deckID string, at time.Time) (bool, error) {
	r.updates++
	return r.DeckRepository.AdvanceMarker(ctx, deckID, at)
}

type countingQuizRepo struct {
	repository.QuizRepository
	creates int
	appends int
}

func (r *countingQuizRepo) CreateQuiz(ctx context.Context, deckID, quizType string) (string, error) {
	r.creates++
	return r.QuizRepository.CreateQuiz(ctx, deckID, quizType)
}

func (r *countingQuizRepo) AppendQuestions(ctx context.Context, quizID string, items []json.RawMessage) (int, error) {
	r.appends++
	return r.QuizRepository.AppendQuestions(ctx, quizID, items)
}

func (r *countingQuizRepo) AppendBatch(ctx context.Context, quizID, batchKey string, items []json.RawMessage) (int, error) {
	r.appends++
	return r.QuizRepository.AppendBatch(ctx, quizID, batchKey, items)
}

func (r *countingQuizRepo) writes() int { return r.creates + r.appends }

type countingClaimRepo struct {
	repository.QuizClaimRepository
	claims int
}

func (r *countingClaimRepo) Claim(ctx context.Context, deckID, quizType string) (bool, error) {
	r.claims++
	return r.QuizClaimRepository.Claim(ctx, deckID, quizType)
}

type denyingClaimRepo struct {
	onClaim func()
}

func (r *denyingClaimRepo) Claim(context.Context, string, string) (bool, error) {
	if r.onClaim != nil {
		r.onClaim()
	}
	return false, nil
}

func (r *denyingClaimRepo) Release(context.Context, string, string) error { return nil }

type engineFixture struct {
	db      *gorm.DB
	decks   *countingDeckRepo
	quizzes *countingQuizRepo
	claims  *countingClaimRepo
	ai      *fakeAI
	clock   *fakeClock
	svc     *quizService
}

var baseTime = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &engineFixture{
		db:      db,
		decks:   &countingDeckRepo{DeckRepository: repository.NewDeckRepository(db)},
		quizzes: &countingQuizRepo{QuizRepository: repository.NewQuizRepository(db)},
		claims:  &countingClaimRepo{QuizClaimRepository: repository.NewGormQuizClaimRepository(db, time.Minute)},
		ai:      &fakeAI{},
		clock:   &fakeClock{t: baseTime.Add(time.Hour)},
	}
	f.svc = newQuizService(f.decks, f.quizzes, f.claims, f.ai, DefaultBatchSize, f.clock.now)
	return f
}

func (f *engineFixture) seedDeck(t *testing.T, cards int) *model.Deck {
	t.Helper()
	deck := &model.Deck{Title: "Cell biology", OwnerID: "owner-1"}
	require.NoError(t, f.db.Create(deck).Error)
	for i := 0; i < cards; i++ {
		f.addCard(t, deck.ID, baseTime.Add(time.Duration(i)*time.Second))
	}
	return deck
}

func (f *engineFixture) addCard(t *testing.T, deckID string, createdAt time.Time) model.Flashcard {
	t.Helper()
	card := model.Flashcard{DeckID: deckID, Term: "term", Definition: "definition", CreatedAt: createdAt}
	require.NoError(t, f.db.Create(&card).Error)
	return card
}

func (f *engineFixture) questionCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.Question{}).Count(&n).Error)
	return n
}

func (f *engineFixture) marker(t *testing.T, deckID string) *time.Time {
	t.Helper()
	var deck model.Deck
	require.NoError(t, f.db.First(&deck, "id = ?", deckID).Error)
	return deck.MadeToQuizAt
}
