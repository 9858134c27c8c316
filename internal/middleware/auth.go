package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"crypto/subtle" // constant-time comparison for the internal key
	"net/http"      // HTTP status codes for responses
	"strings"       // string utilities for prefix checking and trimming

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// TriggerAuth guards the run endpoints.  Two credentials are accepted:
// a matching X-Internal-Key header (how the cron triggers call in) or
// a valid HS256 bearer token signed with the shared secret (how an
// operator triggers a run by hand).  Requests carrying an internal key
// are decided on that key alone: an unconfigured key yields 503 and a
// mismatch yields 401, never a fallthrough to the JWT path.
func TriggerAuth(jwtSecret, internalKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if key := c.Request().Header.Get("X-Internal-Key"); key != "" {
				if internalKey == "" {
					return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "internal API key is not configured"})
				}
				if subtle.ConstantTimeCompare([]byte(key), []byte(internalKey)) == 1 {
					return next(c)
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid internal API key"})
			}

			// No internal key: require a Bearer access token.  The
			// Authorization header must start with "Bearer " followed
			// by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing credentials"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse the token, pinning the signing method to HMAC so a
			// token signed with a different algorithm is rejected.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// Expose the subject to handlers for logging purposes.
			c.Set("user_id", claims["sub"])
			return next(c)
		}
	}
}
