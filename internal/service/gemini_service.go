package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/studydeck/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// AIClient sends an instruction plus inline data to a generative model and
// returns the JSON object it produced. Transport errors and unparseable
// output are returned as errors. It never retries.
type AIClient interface {
	GenerateStructured(ctx context.Context, schema *genai.Schema, instruction, inlineData string) (json.RawMessage, error)
}

var errAIUnavailable = errors.New("gemini client is not configured (GEMINI_API_KEY missing)")

type geminiService struct {
	client    *genai.Client
	modelName string
}

func NewGeminiService(cfg *config.Config) (AIClient, error) {
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Quiz generation will fail until it is configured.")
		return &geminiService{modelName: cfg.Gemini.Model}, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &geminiService{client: client, modelName: cfg.Gemini.Model}, nil
}

func (s *geminiService) GenerateStructured(ctx context.Context, schema *genai.Schema, instruction, inlineData string) (json.RawMessage, error) {
	if s.client == nil {
		return nil, errAIUnavailable
	}

	// GenerativeModel carries per-call settings, so build one per request.
	model := s.client.GenerativeModel(s.modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema

	resp, err := model.GenerateContent(ctx, genai.Text(instruction), genai.Text(inlineData))
	if err != nil {
		log.Error().Err(err).Str("model", s.modelName).Msg("Error generating content from Gemini")
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	return parseStructured(text)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini returned an empty response")
	}
	return sb.String(), nil
}

// parseStructured accepts a JSON object, optionally wrapped in a markdown
// code fence, and rejects anything else.
func parseStructured(text string) (json.RawMessage, error) {
	body := strings.TrimSpace(text)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
		body = strings.TrimSpace(body)
	}
	raw := []byte(body)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("gemini response is not valid JSON: %.200q", body)
	}
	if !bytes.HasPrefix(raw, []byte("{")) {
		return nil, fmt.Errorf("gemini response is not a JSON object: %.200q", body)
	}
	return json.RawMessage(raw), nil
}
