package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/randyf333/SylliAI/internal/pkg/jwtutil"
	"github.com/randyf333/SylliAI/internal/session"
	"github.com/randyf333/SylliAI/internal/transport/http/response"
)

const (
	SessionCookieName = "sylliai_session"

	ContextUserIDKey    = "user_id"
	ContextEmailKey     = "email"
	ContextSessionIDKey = "session_id"
)

// SessionStore is the slice of the session store the guard needs.
type SessionStore interface {
	Get(ctx context.Context, id string) (*session.Session, bool, error)
	Delete(ctx context.Context, id string) error
}

// SessionGuard validates that the request carries a logged-in identity and a
// live token pair before anything touches the store. A missing session is
// Unauthenticated. A session without its token pair is unrecoverable and gets
// destroyed. An expired or invalid access token is SessionExpired but the
// session record survives: it still holds the refresh token the client needs
// to rotate the pair via the refresh endpoint. On success the identity is
// installed on the request context, scoping every downstream store call to
// this user.
func SessionGuard(sessions SessionStore, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			response.Error(c, 401, response.CodeUnauthorized, "please log in")
			c.Abort()
			return
		}

		sess, ok, err := sessions.Get(c.Request.Context(), sessionID)
		if err != nil {
			response.Error(c, 500, response.CodeInternalServer, "session lookup failed")
			c.Abort()
			return
		}
		if !ok || sess.UserID == "" {
			response.Error(c, 401, response.CodeUnauthorized, "please log in")
			c.Abort()
			return
		}

		if !sess.HasTokens() {
			_ = sessions.Delete(c.Request.Context(), sessionID)
			response.Error(c, 401, response.CodeSessionExpired, "session expired, please log in again")
			c.Abort()
			return
		}
		claims, err := jwtutil.ParseToken(jwtSecret, sess.AccessToken)
		if err != nil || claims.TokenType != jwtutil.TokenTypeAccess {
			response.Error(c, 401, response.CodeSessionExpired, "access token expired, refresh your session")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, sess.UserID)
		c.Set(ContextEmailKey, sess.Email)
		c.Set(ContextSessionIDKey, sessionID)
		c.Next()
	}
}
