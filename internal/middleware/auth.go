package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yukikurage/threads-api/internal/constants"
	apierrors "github.com/yukikurage/threads-api/internal/errors"
)

var (
	errMissingToken   = errors.New("missing bearer token")
	errMissingSubject = errors.New("token has no subject")
)

// RequireAuth checks the bearer token issued by the identity provider and
// stores its subject as the auth id.
func RequireAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		authID, err := authIDFromHeader(c.GetHeader("Authorization"), key)
		if errors.Is(err, errMissingToken) {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if err != nil {
			apierrors.RespondWithError(c, http.StatusUnauthorized,
				apierrors.NewAPIError(apierrors.ErrCodeInvalidToken, "Invalid or expired token"))
			c.Abort()
			return
		}

		// Store auth ID in context for easy access in handlers
		c.Set(constants.ContextKeyAuthID, authID)
		c.Next()
	}
}

func authIDFromHeader(header string, key []byte) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", errMissingToken
	}

	token, err := jwt.Parse(strings.TrimSpace(raw), func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if subject == "" {
		return "", errMissingSubject
	}
	return subject, nil
}

// GetAuthID retrieves the current auth ID from context
func GetAuthID(c *gin.Context) (string, bool) {
	authID, exists := c.Get(constants.ContextKeyAuthID)
	if !exists {
		return "", false
	}
	s, ok := authID.(string)
	return s, ok && s != ""
}
