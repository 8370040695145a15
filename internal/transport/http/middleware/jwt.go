package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"conduit-api/internal/pkg/jwtutil"
	"conduit-api/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	ContextClaimsKey   = "claims"
)

// AuthJWT rejects requests without a valid token.
func AuthJWT(secret string) gin.HandlerFunc {
	return authenticate(secret, true)
}

// OptionalAuthJWT lets anonymous requests through but still rejects a token
// that is present and invalid.
func OptionalAuthJWT(secret string) gin.HandlerFunc {
	return authenticate(secret, false)
}

func authenticate(secret string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c.GetHeader("Authorization"))
		if !ok {
			if required {
				response.MissingCredentials(c)
				return
			}
			c.Next()
			return
		}

		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			logrus.WithError(err).WithField("path", c.FullPath()).Debug("rejected token")
			response.MissingCredentials(c)
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// extractToken accepts "Token <jwt>" and "Bearer <jwt>".
func extractToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentUsername returns the username of the authenticated caller, if any.
func CurrentUsername(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUsernameKey)
	if !ok {
		return "", false
	}
	username, ok := v.(string)
	return username, ok && username != ""
}

func CurrentClaims(c *gin.Context) (*jwtutil.Claims, bool) {
	v, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwtutil.Claims)
	return claims, ok
}
