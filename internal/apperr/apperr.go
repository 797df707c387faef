package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a fixed string that classifies a failure. Codes travel from the
// stores up to the engine, which maps them to HTTP statuses exactly once.
type Code string

const (
	CodeInvalidDeckID        Code = "INVALID_DECK_ID"
	CodeInvalidUserID        Code = "INVALID_USER_ID"
	CodeInvalidQuizID        Code = "INVALID_QUIZ_ID"
	CodeInvalidQuizType      Code = "INVALID_QUIZ_TYPE"
	CodeInvalidFields        Code = "INVALID_FIELDS"
	CodeDeckNotFound         Code = "DECK_NOT_FOUND"
	CodeQuizNotFound         Code = "QUIZ_NOT_FOUND"
	CodeNoValidQuestions     Code = "NO_VALID_QUESTIONS"
	CodeMissingQuestionData  Code = "MISSING_QUESTION_DATA"
	CodeAIGenerationFailed   Code = "AI_GENERATION_FAILED"
	CodeInsufficientInput    Code = "INSUFFICIENT_INPUT"
	CodeGenerationInProgress Code = "QUIZ_GENERATION_IN_PROGRESS"
	CodeInternal             Code = "INTERNAL"
)

type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same code, so sentinel comparisons like
// errors.Is(err, apperr.New(apperr.CodeDeckNotFound, nil)) work.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func New(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Err: fmt.Errorf(format, args...)}
}

// CodeOf returns the code of the first *Error in the chain, or CodeInternal.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func HTTPStatus(code Code) int {
	switch code {
	case "":
		return http.StatusOK
	case CodeInvalidDeckID, CodeInvalidUserID, CodeInvalidQuizID, CodeInvalidQuizType,
		CodeInvalidFields, CodeMissingQuestionData, CodeInsufficientInput:
		return http.StatusBadRequest
	case CodeDeckNotFound, CodeQuizNotFound, CodeNoValidQuestions:
		return http.StatusNotFound
	case CodeGenerationInProgress:
		return http.StatusConflict
	case CodeAIGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message is the user-facing text for a code. It never includes the cause.
func Message(code Code) string {
	switch code {
	case CodeInvalidDeckID:
		return "Invalid deck ID"
	case CodeInvalidUserID:
		return "Invalid user ID"
	case CodeInvalidQuizID:
		return "Invalid quiz ID"
	case CodeInvalidQuizType:
		return "Invalid quiz type"
	case CodeInvalidFields:
		return "Invalid fields"
	case CodeDeckNotFound:
		return "Deck not found"
	case CodeQuizNotFound:
		return "Quiz not found"
	case CodeNoValidQuestions:
		return "Deck has no flashcards to build a quiz from"
	case CodeMissingQuestionData:
		return "Missing required question data"
	case CodeAIGenerationFailed:
		return "AI generation failed; already generated questions were kept, retry to continue"
	case CodeInsufficientInput:
		return "Some flashcards were not sufficient to generate quiz questions; generated questions were kept"
	case CodeGenerationInProgress:
		return "A quiz is already being generated for this deck"
	default:
		return "Internal server error"
	}
}
