package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/studydeck/internal/apperr"
	"github.com/lshigami/studydeck/internal/dto"
	"github.com/lshigami/studydeck/internal/model"
	"github.com/lshigami/studydeck/internal/repository"
	"github.com/rs/zerolog/log"
)

type DeckService interface {
	CreateDeck(ctx context.Context, ownerID string, req dto.CreateDeckRequest) (*dto.DeckResponseDTO, error)
	AddFlashcards(ctx context.Context, deckID string, req dto.AddFlashcardsRequest) ([]dto.FlashcardResponseDTO, error)
	GetDeck(ctx context.Context, deckID string) (*dto.DeckResponseDTO, error)
}

type deckService struct {
	deckRepo repository.DeckRepository
}

func NewDeckService(deckRepo repository.DeckRepository) DeckService {
	return &deckService{deckRepo: deckRepo}
}

func (s *deckService) CreateDeck(ctx context.Context, ownerID string, req dto.CreateDeckRequest) (*dto.DeckResponseDTO, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, apperr.New(apperr.CodeInvalidUserID, errors.New("owner id is empty"))
	}
	deck := &model.Deck{
		Title:    strings.TrimSpace(req.Title),
		OwnerID:  ownerID,
		IsPublic: req.IsPublic,
	}
	if err := s.deckRepo.CreateDeck(ctx, deck); err != nil {
		return nil, err
	}
	log.Info().Str("deckID", deck.ID).Str("ownerID", ownerID).Msg("Deck created")
	return toDeckResponse(deck)
}

func (s *deckService) AddFlashcards(ctx context.Context, deckID string, req dto.AddFlashcardsRequest) ([]dto.FlashcardResponseDTO, error) {
	cards := make([]model.Flashcard, 0, len(req.Flashcards))
	for i, in := range req.Flashcards {
		term, def := strings.TrimSpace(in.Term), strings.TrimSpace(in.Definition)
		if term == "" || def == "" {
			return nil, apperr.Newf(apperr.CodeInvalidFields, "flashcard %d has an empty term or definition", i)
		}
		cards = append(cards, model.Flashcard{Term: term, Definition: def})
	}

	saved, err := s.deckRepo.AddFlashcards(ctx, strings.TrimSpace(deckID), cards)
	if err != nil {
		return nil, err
	}
	log.Info().Str("deckID", deckID).Int("count", len(saved)).Msg("Flashcards added")

	out := []dto.FlashcardResponseDTO{}
	if err := copier.Copy(&out, &saved); err != nil {
		return nil, fmt.Errorf("map flashcards: %w", err)
	}
	return out, nil
}

func (s *deckService) GetDeck(ctx context.Context, deckID string) (*dto.DeckResponseDTO, error) {
	deck, err := s.deckRepo.FindDeck(ctx, strings.TrimSpace(deckID))
	if err != nil {
		return nil, err
	}
	return toDeckResponse(deck)
}

func toDeckResponse(deck *model.Deck) (*dto.DeckResponseDTO, error) {
	var out dto.DeckResponseDTO
	if err := copier.CopyWithOption(&out, deck, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("map deck %s: %w", deck.ID, err)
	}
	if out.Flashcards == nil {
		out.Flashcards = []dto.FlashcardResponseDTO{}
	}
	return &out, nil
}
