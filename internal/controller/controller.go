package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/studydeck/internal/apperr"
	"github.com/lshigami/studydeck/internal/dto"
	"github.com/lshigami/studydeck/internal/middleware"
	"github.com/rs/zerolog/log"
)

// RespondError writes err as a dto.ErrorResponse with the status of its code.
// Unclassified errors are logged and hidden behind a generic message.
func RespondError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	status := apperr.HTTPStatus(code)
	if code == apperr.CodeInternal {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled service error")
	} else {
		log.Warn().Err(err).Str("path", c.FullPath()).Str("code", string(code)).Msg("Request failed")
	}
	c.JSON(status, dto.ErrorResponse{Message: apperr.Message(code), Details: []string{string(code)}})
}

// RespondBindError reports a request body that failed to bind or validate.
func RespondBindError(c *gin.Context, err error) {
	log.Warn().Err(err).Str("path", c.FullPath()).Msg("Failed to bind JSON")
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
}

// Requester prefers the verified token subject over an id from the body.
func Requester(c *gin.Context, fromBody string) string {
	if id, ok := middleware.RequesterID(c); ok {
		return id
	}
	return strings.TrimSpace(fromBody)
}
