package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/studydeck/internal/model"
)

const choicesPerQuestion = 4

// quizSchema is the response shape requested from the model:
// {quiz: [{question, related_flashcard_id, choices: [{text, is_correct}]}], errorMessage}.
func quizSchema() *genai.Schema {
	choice := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"text":       {Type: genai.TypeString},
			"is_correct": {Type: genai.TypeBoolean},
		},
		Required: []string{"text", "is_correct"},
	}
	question := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"question":             {Type: genai.TypeString},
			"related_flashcard_id": {Type: genai.TypeString, Nullable: true},
			"choices":              {Type: genai.TypeArray, Items: choice},
		},
		Required: []string{"question", "choices"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"quiz":         {Type: genai.TypeArray, Items: question},
			"errorMessage": {Type: genai.TypeString, Nullable: true},
		},
		Required: []string{"quiz", "errorMessage"},
	}
}

func quizInstruction(count int) string {
	return fmt.Sprintf(`You are a teacher writing a multiple-choice quiz from a student's flashcards.
The flashcards are listed after these instructions, one block per card with its ID, term and definition.

Write exactly %d questions, one per flashcard, in the order the flashcards are listed.
Each question must have exactly %d choices, and exactly one choice must have "is_correct": true.
Wrong choices must be plausible and must not repeat the correct answer.
Set "related_flashcard_id" to the ID of the flashcard the question is based on.
Set "errorMessage" to null.

If the flashcards are too few, empty or unsuitable to write %d questions, do not invent content.
Instead return {"quiz": [], "errorMessage": "<short reason>"}.`, count, choicesPerQuestion, count)
}

// formatBatch renders cards as the inline data of a quiz request.
func formatBatch(cards []model.Flashcard) string {
	var sb strings.Builder
	for i, c := range cards {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "ID: %s\nTerm: %s\nDefinition: %s\n", c.ID, strings.TrimSpace(c.Term), strings.TrimSpace(c.Definition))
	}
	return sb.String()
}

// chunkFlashcards splits cards into batches of size; the last may be shorter.
func chunkFlashcards(cards []model.Flashcard, size int) [][]model.Flashcard {
	if size <= 0 {
		size = len(cards)
	}
	var batches [][]model.Flashcard
	for start := 0; start < len(cards); start += size {
		end := min(start+size, len(cards))
		batches = append(batches, cards[start:end])
	}
	return batches
}

// batchKey identifies a batch by the ids it contains, in order.
func batchKey(cards []model.Flashcard) string {
	h := sha256.New()
	for _, c := range cards {
		h.Write([]byte(c.ID))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type generationKind int

const (
	generationOK generationKind = iota
	generationInsufficient
	generationFailed
)

func (k generationKind) String() string {
	switch k {
	case generationOK:
		return "ok"
	case generationInsufficient:
		return "insufficient_input"
	default:
		return "failure"
	}
}

// generationResult is Ok(items), InsufficientInput(reason) or Failure(cause).
type generationResult struct {
	kind   generationKind
	items  []json.RawMessage
	reason string
	cause  error
}

// classifyGeneration turns one AI call into a generationResult. A response
// without a "quiz" array is a failure; an empty array is insufficient input,
// with the model's errorMessage as the reason when it gave one.
func classifyGeneration(raw json.RawMessage, err error) generationResult {
	if err != nil {
		return generationResult{kind: generationFailed, cause: err}
	}

	var body struct {
		Quiz         json.RawMessage `json:"quiz"`
		ErrorMessage *string         `json:"errorMessage"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return generationResult{kind: generationFailed, cause: fmt.Errorf("decode quiz response: %w", err)}
	}

	var items []json.RawMessage
	if len(body.Quiz) == 0 || string(body.Quiz) == "null" {
		return generationResult{kind: generationFailed, cause: fmt.Errorf("quiz response has no %q field", "quiz")}
	}
	if err := json.Unmarshal(body.Quiz, &items); err != nil {
		return generationResult{kind: generationFailed, cause: fmt.Errorf("quiz response field %q is not an array: %w", "quiz", err)}
	}

	reason := ""
	if body.ErrorMessage != nil {
		reason = strings.TrimSpace(*body.ErrorMessage)
	}
	if len(items) == 0 {
		if reason == "" {
			reason = "model returned no questions"
		}
		return generationResult{kind: generationInsufficient, reason: reason}
	}
	return generationResult{kind: generationOK, items: items, reason: reason}
}
