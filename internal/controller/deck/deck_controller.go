package deck

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/studydeck/internal/controller"
	"github.com/lshigami/studydeck/internal/dto"
	"github.com/lshigami/studydeck/internal/service"
)

type DeckController struct {
	deckService service.DeckService
}

func NewDeckController(deckService service.DeckService) *DeckController {
	return &DeckController{deckService: deckService}
}

// CreateDeck godoc
// @Summary Create a deck
// @Description Creates an empty deck. The owner is the token subject, or owner_id when authentication is disabled.
// @Tags Decks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param deck body dto.CreateDeckRequest true "Deck data"
// @Success 201 {object} dto.DeckResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /decks [post]
func (dc *DeckController) CreateDeck(c *gin.Context) {
	var req dto.CreateDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(c, err)
		return
	}

	deck, err := dc.deckService.CreateDeck(c.Request.Context(), controller.Requester(c, req.OwnerID), req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deck)
}

// GetDeck godoc
// @Summary Get a deck with its flashcards
// @Tags Decks
// @Produce json
// @Security BearerAuth
// @Param deck_id path string true "Deck ID"
// @Success 200 {object} dto.DeckResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid deck ID"
// @Failure 404 {object} dto.ErrorResponse "Deck not found"
// @Router /decks/{deck_id} [get]
func (dc *DeckController) GetDeck(c *gin.Context) {
	deck, err := dc.deckService.GetDeck(c.Request.Context(), c.Param("deck_id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deck)
}

// AddFlashcards godoc
// @Summary Add flashcards to a deck
// @Tags Decks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param deck_id path string true "Deck ID"
// @Param flashcards body dto.AddFlashcardsRequest true "Flashcards to add"
// @Success 201 {array} dto.FlashcardResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Deck not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /decks/{deck_id}/flashcards [post]
func (dc *DeckController) AddFlashcards(c *gin.Context) {
	var req dto.AddFlashcardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(c, err)
		return
	}

	cards, err := dc.deckService.AddFlashcards(c.Request.Context(), c.Param("deck_id"), req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cards)
}
