package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/threads-api/internal/constants"
	apierrors "github.com/yukikurage/threads-api/internal/errors"
	"github.com/yukikurage/threads-api/internal/models"
)

// UserLoader loads the profile behind an auth id.
type UserLoader interface {
	FetchUser(ctx context.Context, authID string) (*models.User, error)
}

// RequireOnboarded lets the request through only when the authenticated
// user has completed their profile. Must run after RequireAuth.
func RequireOnboarded(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authID, ok := GetAuthID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := users.FetchUser(c.Request.Context(), authID)
		switch {
		case errors.Is(err, apierrors.ErrNotFound), err == nil && !user.Onboarded:
			apierrors.OnboardingRequired(c)
			c.Abort()
			return
		case err != nil:
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyCurrentUser, user)
		c.Next()
	}
}

// GetCurrentUser retrieves the onboarded user set by RequireOnboarded
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(constants.ContextKeyCurrentUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
