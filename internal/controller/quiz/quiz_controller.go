package quiz

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/studydeck/internal/controller"
	"github.com/lshigami/studydeck/internal/dto"
	"github.com/lshigami/studydeck/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	quizService service.QuizService
}

func NewQuizController(quizService service.QuizService) *QuizController {
	return &QuizController{quizService: quizService}
}

// GenerateQuiz godoc
// @Summary Generate or extend the deck's multiple-choice quiz
// @Description Creates the quiz on the first call. Later calls add questions only for flashcards created since the last successful generation, or leave the quiz unchanged. The HTTP status equals the envelope status.
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param deck_id path string true "Deck ID"
// @Param request body dto.GenerateQuizRequest false "Requester, used only when authentication is disabled"
// @Success 200 {object} dto.ResultEnvelope "Quiz created, extended or unchanged"
// @Failure 400 {object} dto.ResultEnvelope "Invalid deck or user ID, or flashcards not sufficient for quiz questions"
// @Failure 404 {object} dto.ResultEnvelope "Deck not found or has no flashcards"
// @Failure 409 {object} dto.ResultEnvelope "Quiz generation already in progress"
// @Failure 502 {object} dto.ResultEnvelope "AI generation failed"
// @Failure 500 {object} dto.ResultEnvelope "Internal server error"
// @Router /decks/{deck_id}/quizzes [post]
func (qc *QuizController) GenerateQuiz(c *gin.Context) {
	var req dto.GenerateQuizRequest
	// The body is optional; an empty one, chunked or not, decodes as io.EOF.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		controller.RespondBindError(c, err)
		return
	}

	requester := controller.Requester(c, req.UserID)
	deckID := c.Param("deck_id")
	log.Info().Str("deckID", deckID).Str("requesterID", requester).Msg("Quiz generation requested")

	// A started run finishes even if the client goes away.
	env := qc.quizService.GenerateQuiz(context.WithoutCancel(c.Request.Context()), deckID, requester)
	c.JSON(env.Status, env)
}

// GetQuiz godoc
// @Summary Get a quiz with its questions and choices
// @Tags Quizzes
// @Produce json
// @Security BearerAuth
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {object} dto.QuizDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid quiz ID"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /quizzes/{quiz_id} [get]
func (qc *QuizController) GetQuiz(c *gin.Context) {
	quiz, err := qc.quizService.GetQuiz(c.Request.Context(), c.Param("quiz_id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}
