// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication. Tokens are HS256-signed
// JWTs carrying the user's identity (sub) and profile claims (email, name,
// picture), typically minted by an external identity provider after an OAuth
// sign-in.
//
// Behavior:
//   - Requests without an Authorization header pass through anonymously;
//     read endpoints are public and write handlers enforce authentication
//     themselves via UserID().
//   - Requests with a bearer token must carry a valid, unexpired HS256 JWT;
//     anything else is rejected with 401 so a client never silently degrades
//     to anonymous.
//   - On first sight of a subject the user row is created; on subsequent
//     requests profile fields are refreshed (upsert), so the users table
//     mirrors the identity provider.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/criticboard/go-review-backend/internal/domain"
	"github.com/criticboard/go-review-backend/internal/repo"
)

// ctxKeyUserID is the Gin context key under which the authenticated user's ID
// is stored. Downstream middleware (rate limiting, logging) and handlers read
// it via UserID().
const ctxKeyUserID = "userID"

// AuthClaims is the JWT claim set accepted by Auth.
//
// Sub (from RegisteredClaims) is the stable user ID. Email, Name, and Picture
// are profile fields mirrored into the users table on each authenticated
// request.
type AuthClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// Auth returns a Gin middleware that authenticates bearer JWTs and mirrors
// the token's profile claims into the users table.
//
// secret is the HS256 signing key shared with the token issuer. db is used
// for the user upsert; pass the same handle the services use.
//
// Place this before RateLimit so authenticated traffic is bucketed by user
// rather than by IP.
func Auth(db *gorm.DB, secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			// Anonymous request; write handlers reject it themselves.
			c.Next()
			return
		}

		claims := &AuthClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid || claims.Subject == "" {
			abortUnauthorized(c)
			return
		}

		u := &domain.User{
			ID:     claims.Subject,
			Email:  claims.Email,
			Name:   claims.Name,
			Avatar: claims.Picture,
		}
		if err := repo.UpsertUser(c.Request.Context(), db, u); err != nil {
			LoggerFrom(c).Error().Err(err).Str("user_id", claims.Subject).Msg("user upsert failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "internal_error",
				"message":    "internal server error",
			})
			return
		}

		c.Set(ctxKeyUserID, claims.Subject)
		c.Next()
	}
}

// UserID returns the authenticated user's ID from the Gin context, and
// whether the request is authenticated at all. Handlers use this to guard
// write operations.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyUserID)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value, returning "" when the scheme is absent or not Bearer.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    "invalid or expired token",
	})
}
