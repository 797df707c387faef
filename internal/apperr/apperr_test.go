package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("loading deck: %w", New(CodeDeckNotFound, errors.New("record not found")))

	assert.Equal(t, CodeDeckNotFound, CodeOf(wrapped))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("ctx: %w", Newf(CodeQuizNotFound, "quiz %s", "q1"))

	assert.ErrorIs(t, err, New(CodeQuizNotFound, nil))
	assert.NotErrorIs(t, err, New(CodeDeckNotFound, nil))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeInvalidDeckID:        http.StatusBadRequest,
		CodeInvalidUserID:        http.StatusBadRequest,
		CodeMissingQuestionData:  http.StatusBadRequest,
		CodeDeckNotFound:         http.StatusNotFound,
		CodeNoValidQuestions:     http.StatusNotFound,
		CodeGenerationInProgress: http.StatusConflict,
		CodeInsufficientInput:    http.StatusBadRequest,
		CodeAIGenerationFailed:   http.StatusBadGateway,
		CodeInternal:             http.StatusInternalServerError,
		Code("SOMETHING_ELSE"):   http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), string(code))
	}
}
