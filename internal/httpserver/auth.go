package httpserver

import (
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const subjectKey = "subject"

// jwtGuard accepts HMAC-signed bearer tokens and stores the subject claim on the context.
func jwtGuard(secret string, logger *log.Logger) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{
		jwt.SigningMethodHS256.Alg(),
		jwt.SigningMethodHS384.Alg(),
		jwt.SigningMethodHS512.Alg(),
	}))
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			writeError(c, logger, fmt.Errorf("%w: missing bearer token", errUnauthorized))
			return
		}
		claims := jwt.RegisteredClaims{}
		token, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			writeError(c, logger, fmt.Errorf("%w: invalid token", errUnauthorized))
			return
		}
		c.Set(subjectKey, claims.Subject)
		c.Next()
	}
}
