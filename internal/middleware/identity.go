package middleware

// identity.go defines helpers shared across middleware files for
// extracting the caller's identity from context. The cache and rate
// limit key builders use these to namespace per-user entries.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a string form of the authenticated user's ID
// stored by JWTAuth, or "anon" when the request is unauthenticated.
// JWT numeric claims arrive as float64, so both numeric and string
// representations are handled.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	case uint64:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	}
	return "anon"
}
