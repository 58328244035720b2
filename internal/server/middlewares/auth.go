package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// SubjectKey is the gin context key holding the authenticated token subject.
const SubjectKey = "auth.subject"

// Authenticator requires an HS256 bearer token signed with secret and issued
// by issuer. Tokens without an expiry are rejected.
func Authenticator(secret []byte, issuer string) gin.HandlerFunc {
	log := zap.S().Named("auth")
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5*time.Second),
	)
	keyFn := func(*jwt.Token) (any, error) { return secret, nil }

	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims := &jwt.RegisteredClaims{}
		if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, keyFn); err != nil {
			log.Debugw("rejected token", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Next()
	}
}
