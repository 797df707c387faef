package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/studydeck/config"
	"github.com/lshigami/studydeck/internal/dto"
	"github.com/rs/zerolog/log"
)

// RequesterIDKey is the gin context key holding the verified token subject.
const RequesterIDKey = "requesterID"

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims
}

func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
	})
	return token.SignedString(secretKey)
}

func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Auth verifies "Authorization: Bearer <jwt>" and stores the subject under
// RequesterIDKey. With no AUTH_JWT_SECRET configured it lets every request
// through and handlers fall back to the id in the request body.
func Auth(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		log.Warn().Msg("AUTH_JWT_SECRET is not set. Requests are not authenticated.")
	}

	return func(c *gin.Context) {
		if len(secret) == 0 {
			c.Next()
			return
		}

		tokenString, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing bearer token"})
			return
		}

		userID, err := GetUserIDFromToken(strings.TrimSpace(tokenString), secret)
		if err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("Rejected request with invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid token"})
			return
		}
		c.Set(RequesterIDKey, userID)
		c.Next()
	}
}

// RequesterID returns the verified requester, if the request carried one.
func RequesterID(c *gin.Context) (string, bool) {
	id := c.GetString(RequesterIDKey)
	return id, id != ""
}
