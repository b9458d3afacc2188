package identity

import "github.com/gin-gonic/gin"

// Resolver yields the acting user id for a request. Two implementations
// exist: the real session resolver and a fixed identity for development and
// tests.
type Resolver interface {
	CurrentUserID(c *gin.Context) string
}

// SessionResolver reads the user id placed in the gin context by the auth
// middleware.
type SessionResolver struct{}

func (SessionResolver) CurrentUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// StaticResolver always returns one fixed user id. Dev/test convenience,
// not a security boundary.
type StaticResolver struct {
	UserID string
}

func (r StaticResolver) CurrentUserID(*gin.Context) string {
	return r.UserID
}

// FallbackResolver tries the session first and falls back to a fixed id
// when no session exists.
type FallbackResolver struct {
	Session  Resolver
	Fallback string
}

func (r FallbackResolver) CurrentUserID(c *gin.Context) string {
	if id := r.Session.CurrentUserID(c); id != "" {
		return id
	}
	return r.Fallback
}

// NewResolver builds the resolver for the configured fallback id. An empty
// fallback means sessions are required.
func NewResolver(fallbackUserID string) Resolver {
	if fallbackUserID == "" {
		return SessionResolver{}
	}
	return FallbackResolver{Session: SessionResolver{}, Fallback: fallbackUserID}
}
