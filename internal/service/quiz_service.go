package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/studydeck/config"
	"github.com/lshigami/studydeck/internal/apperr"
	"github.com/lshigami/studydeck/internal/dto"
	"github.com/lshigami/studydeck/internal/model"
	"github.com/lshigami/studydeck/internal/repository"
	"github.com/rs/zerolog/log"
)

// DefaultBatchSize is the number of flashcards sent to the model per call.
const DefaultBatchSize = 20

// QuizState is how the engine classifies a deck at the start of a run.
type QuizState string

const (
	StateNoQuizYet            QuizState = "NO_QUIZ_YET"
	StateQuizExistsNoNewCards QuizState = "QUIZ_EXISTS_NO_NEW_CARDS"
	StateQuizExistsNewCards   QuizState = "QUIZ_EXISTS_HAS_NEW_CARDS"
)

// Outcome is the terminal result of a successful run.
type Outcome string

const (
	OutcomeCreated   Outcome = "CREATED"
	OutcomeExtended  Outcome = "EXTENDED"
	OutcomeUnchanged Outcome = "UNCHANGED"
)

type QuizService interface {
	// GenerateQuiz creates, extends or leaves unchanged the deck's
	// multiple-choice quiz. Every outcome, including failures, is reported
	// in the returned envelope.
	GenerateQuiz(ctx context.Context, deckID, requesterID string) *dto.ResultEnvelope
	GetQuiz(ctx context.Context, quizID string) (*dto.QuizDetailDTO, error)
}

type quizService struct {
	deckRepo  repository.DeckRepository
	quizRepo  repository.QuizRepository
	claimRepo repository.QuizClaimRepository
	ai        AIClient
	batchSize int
	now       func() time.Time
}

func NewQuizService(
	deckRepo repository.DeckRepository,
	quizRepo repository.QuizRepository,
	claimRepo repository.QuizClaimRepository,
	ai AIClient,
	cfg *config.Config,
) QuizService {
	return newQuizService(deckRepo, quizRepo, claimRepo, ai, cfg.Quiz.BatchSize, time.Now)
}

func newQuizService(
	deckRepo repository.DeckRepository,
	quizRepo repository.QuizRepository,
	claimRepo repository.QuizClaimRepository,
	ai AIClient,
	batchSize int,
	now func() time.Time,
) *quizService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &quizService{
		deckRepo:  deckRepo,
		quizRepo:  quizRepo,
		claimRepo: claimRepo,
		ai:        ai,
		batchSize: batchSize,
		now:       now,
	}
}

type reconcileResult struct {
	outcome        Outcome
	quizID         string
	newFlashcards  int
	questionsAdded int
}

func (s *quizService) GenerateQuiz(ctx context.Context, deckID, requesterID string) (env *dto.ResultEnvelope) {
	deckID = strings.TrimSpace(deckID)
	requesterID = strings.TrimSpace(requesterID)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("deckID", deckID).Msg("Quiz generation panicked")
			env = failureEnvelope(requesterID, apperr.New(apperr.CodeInternal, fmt.Errorf("panic: %v", r)))
		}
	}()

	if deckID == "" {
		return failureEnvelope(requesterID, apperr.New(apperr.CodeInvalidDeckID, errors.New("deck id is empty")))
	}
	if requesterID == "" {
		return failureEnvelope(requesterID, apperr.New(apperr.CodeInvalidUserID, errors.New("user id is empty")))
	}

	res, err := s.reconcile(ctx, deckID)
	if err != nil {
		log.Error().Err(err).Str("deckID", deckID).Str("requesterID", requesterID).
			Str("code", string(apperr.CodeOf(err))).Msg("Quiz generation failed")
		return failureEnvelope(requesterID, err)
	}

	log.Info().Str("deckID", deckID).Str("quizID", res.quizID).Str("outcome", string(res.outcome)).
		Int("newFlashcards", res.newFlashcards).Int("questionsAdded", res.questionsAdded).
		Msg("Quiz generation finished")
	return successEnvelope(requesterID, res)
}

func (s *quizService) reconcile(ctx context.Context, deckID string) (*reconcileResult, error) {
	// Captured before any flashcard is read, so a card added while batches
	// are generated is picked up by the next run.
	runStart := s.now().UTC()

	marker, err := s.deckRepo.GetMarkerField(ctx, deckID, model.MarkerMadeToQuizAt)
	if err != nil {
		return nil, fmt.Errorf("read quiz marker: %w", err)
	}
	if !marker.Exists {
		return nil, apperr.Newf(apperr.CodeDeckNotFound, "deck %s", deckID)
	}

	quizzes, err := s.quizRepo.GetQuizzesByDeckAndType(ctx, deckID, model.QuizTypeMultipleChoice)
	if err != nil {
		return nil, fmt.Errorf("read existing quizzes: %w", err)
	}

	if len(quizzes) == 0 {
		if marker.FieldPresent {
			log.Warn().Str("deckID", deckID).Msg("Deck has a quiz marker but no quiz, generating a new one")
		}
		log.Info().Str("deckID", deckID).Str("state", string(StateNoQuizYet)).Msg("Classified deck")
		return s.createQuiz(ctx, deckID, marker, runStart)
	}
	if len(quizzes) > 1 {
		log.Warn().Str("deckID", deckID).Int("quizzes", len(quizzes)).Str("quizID", quizzes[0].ID).
			Msg("Deck has several active quizzes of the same type, extending the earliest")
	}
	return s.extendQuiz(ctx, deckID, quizzes[0].ID, marker, runStart)
}

func (s *quizService) createQuiz(ctx context.Context, deckID string, marker repository.MarkerField, runStart time.Time) (*reconcileResult, error) {
	deck, err := s.deckRepo.GetDeckWithFlashcards(ctx, deckID)
	if err != nil {
		return nil, err
	}

	granted, err := s.claimRepo.Claim(ctx, deckID, model.QuizTypeMultipleChoice)
	if err != nil {
		return nil, fmt.Errorf("claim quiz creation: %w", err)
	}
	if !granted {
		log.Info().Str("deckID", deckID).Msg("Quiz creation already claimed by another request")
		return s.extendExistingOr(ctx, deckID, marker, runStart,
			apperr.Newf(apperr.CodeGenerationInProgress, "deck %s", deckID))
	}
	defer s.releaseClaim(deckID)

	// Another request may have created the quiz between our read and the claim.
	quizzes, err := s.quizRepo.GetQuizzesByDeckAndType(ctx, deckID, model.QuizTypeMultipleChoice)
	if err != nil {
		return nil, fmt.Errorf("re-read quizzes after claim: %w", err)
	}
	if len(quizzes) > 0 {
		return s.extendQuiz(ctx, deckID, quizzes[0].ID, marker, runStart)
	}

	quizID, err := s.quizRepo.CreateQuiz(ctx, deckID, model.QuizTypeMultipleChoice)
	if err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	log.Info().Str("deckID", deckID).Str("quizID", quizID).Int("flashcards", len(deck.Flashcards)).Msg("Quiz created")

	added, err := s.generateBatches(ctx, quizID, deck.Flashcards)
	if err != nil {
		return nil, err
	}
	if err := s.setMarker(ctx, deckID, runStart); err != nil {
		return nil, err
	}
	return &reconcileResult{outcome: OutcomeCreated, quizID: quizID, newFlashcards: len(deck.Flashcards), questionsAdded: added}, nil
}

// extendExistingOr continues on the extend path if a quiz exists by now, and
// returns fallback otherwise.
func (s *quizService) extendExistingOr(ctx context.Context, deckID string, marker repository.MarkerField, runStart time.Time, fallback error) (*reconcileResult, error) {
	quizzes, err := s.quizRepo.GetQuizzesByDeckAndType(ctx, deckID, model.QuizTypeMultipleChoice)
	if err != nil {
		return nil, fmt.Errorf("re-read quizzes: %w", err)
	}
	if len(quizzes) == 0 {
		return nil, fallback
	}
	return s.extendQuiz(ctx, deckID, quizzes[0].ID, marker, runStart)
}

func (s *quizService) extendQuiz(ctx context.Context, deckID, quizID string, marker repository.MarkerField, runStart time.Time) (*reconcileResult, error) {
	var since time.Time
	if marker.FieldPresent && marker.Value != nil {
		since = marker.Value.UTC()
	} else {
		// An earlier run created the quiz but never finished. Consider every
		// card; batches it already committed are skipped by key.
		log.Warn().Str("deckID", deckID).Str("quizID", quizID).Msg("Quiz exists without a marker, reconsidering all flashcards")
	}

	cards, err := s.deckRepo.GetFlashcardsSince(ctx, deckID, since)
	if err != nil {
		return nil, fmt.Errorf("read new flashcards: %w", err)
	}
	if len(cards) == 0 {
		log.Info().Str("deckID", deckID).Str("state", string(StateQuizExistsNoNewCards)).Msg("Classified deck")
		return &reconcileResult{outcome: OutcomeUnchanged, quizID: quizID}, nil
	}
	log.Info().Str("deckID", deckID).Str("state", string(StateQuizExistsNewCards)).Int("newFlashcards", len(cards)).Msg("Classified deck")

	added, err := s.generateBatches(ctx, quizID, cards)
	if err != nil {
		return nil, err
	}
	if err := s.setMarker(ctx, deckID, runStart); err != nil {
		return nil, err
	}
	return &reconcileResult{outcome: OutcomeExtended, quizID: quizID, newFlashcards: len(cards), questionsAdded: added}, nil
}

// generateBatches runs the cards through the model batch by batch, strictly
// in order, committing each batch before the next is drawn.
func (s *quizService) generateBatches(ctx context.Context, quizID string, cards []model.Flashcard) (int, error) {
	batches := chunkFlashcards(cards, s.batchSize)
	added, insufficient := 0, 0

	for i, batch := range batches {
		key := batchKey(batch)
		logger := log.With().Str("quizID", quizID).Int("batch", i+1).Int("batches", len(batches)).Int("size", len(batch)).Logger()

		committed, err := s.quizRepo.IsBatchCommitted(ctx, quizID, key)
		if err != nil {
			return added, err
		}
		if committed {
			logger.Info().Msg("Batch already committed, skipping")
			continue
		}

		logger.Debug().Msg("Generating batch")
		raw, err := s.ai.GenerateStructured(ctx, quizSchema(), quizInstruction(len(batch)), formatBatch(batch))
		res := classifyGeneration(raw, err)
		switch res.kind {
		case generationFailed:
			logger.Error().Err(res.cause).Int("questionsKept", added).Msg("AI generation failed for batch")
			return added, apperr.New(apperr.CodeAIGenerationFailed, fmt.Errorf("batch %d of %d: %w", i+1, len(batches), res.cause))
		case generationInsufficient:
			logger.Warn().Str("reason", res.reason).Msg("Model judged batch insufficient, continuing with the next batch")
			insufficient++
			continue
		}
		if res.reason != "" {
			logger.Warn().Str("errorMessage", res.reason).Msg("Model returned questions together with an error message")
		}
		if len(res.items) != len(batch) {
			logger.Warn().Int("returned", len(res.items)).Msg("Model returned a different number of questions than requested")
		}

		n, err := s.quizRepo.AppendBatch(ctx, quizID, key, res.items)
		if err != nil {
			return added, fmt.Errorf("append batch %d of %d: %w", i+1, len(batches), err)
		}
		if n == 0 {
			logger.Warn().Msg("Batch committed without any well-formed question")
		}
		logger.Info().Int("questions", n).Msg("Batch committed")
		added += n
	}

	// The marker must not move past cards the model refused; the next run
	// retries them and skips the batches committed here.
	if insufficient > 0 {
		return added, apperr.Newf(apperr.CodeInsufficientInput, "%d of %d batches were judged insufficient", insufficient, len(batches))
	}
	return added, nil
}

func (s *quizService) setMarker(ctx context.Context, deckID string, at time.Time) error {
	moved, err := s.deckRepo.AdvanceMarker(ctx, deckID, at)
	if err != nil {
		return fmt.Errorf("set quiz marker: %w", err)
	}
	if !moved {
		log.Info().Str("deckID", deckID).Time("runStart", at).Msg("Quiz marker already at or past this run, left as is")
	}
	return nil
}

// releaseClaim runs on a fresh context so a cancelled request still frees it.
func (s *quizService) releaseClaim(deckID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.claimRepo.Release(ctx, deckID, model.QuizTypeMultipleChoice); err != nil {
		log.Warn().Err(err).Str("deckID", deckID).Msg("Failed to release quiz claim")
	}
}

func (s *quizService) GetQuiz(ctx context.Context, quizID string) (*dto.QuizDetailDTO, error) {
	quiz, err := s.quizRepo.GetQuizWithQuestions(ctx, strings.TrimSpace(quizID))
	if err != nil {
		return nil, err
	}
	var out dto.QuizDetailDTO
	if err := copier.CopyWithOption(&out, quiz, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("map quiz %s: %w", quizID, err)
	}
	if out.Questions == nil {
		out.Questions = []dto.QuestionResponseDTO{}
	}
	return &out, nil
}

func successEnvelope(requesterID string, res *reconcileResult) *dto.ResultEnvelope {
	env := &dto.ResultEnvelope{Status: http.StatusOK, RequestOwnerID: requesterID}
	switch res.outcome {
	case OutcomeCreated:
		env.Message = fmt.Sprintf("Quiz created with %d questions", res.questionsAdded)
		env.Data = dto.QuizCreatedData{QuizID: res.quizID, QuestionsAdded: res.questionsAdded}
	case OutcomeExtended:
		env.Message = fmt.Sprintf("Quiz extended for %d new flashcards", res.newFlashcards)
		env.Data = dto.QuizExtendedData{QuizID: res.quizID, CountOfNewFlashcards: res.newFlashcards, QuestionsAdded: res.questionsAdded}
	default:
		env.Message = "No new flashcards since the last quiz generation, quiz unchanged"
		env.Data = dto.QuizUnchangedData{QuizID: res.quizID}
	}
	return env
}

func failureEnvelope(requesterID string, err error) *dto.ResultEnvelope {
	code := apperr.CodeOf(err)
	return &dto.ResultEnvelope{
		Status:         apperr.HTTPStatus(code),
		RequestOwnerID: requesterID,
		Message:        apperr.Message(code),
		Data:           nil,
	}
}
