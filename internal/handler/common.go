package handler // handler defines http handlers

import (
	"errors"
	"strconv"
	"time"
	"unicode"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the user_id stored by the JWT middleware from
// echo.Context and converts it to uint64. JWT numeric claims arrive
// as float64, so several representations are handled.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseClock validates a "HH:MM" time-of-day string and returns it in
// normalized form. Seconds are not accepted; the seminar schedule is
// minute-granular.
func parseClock(s string) (string, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", err
	}
	return t.Format("15:04"), nil
}

// alphabetic reports whether s is non-empty and consists solely of
// letters.
func alphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// validateNames enforces the name rules shared by registration and
// profile updates: first and last name must appear together, and
// neither may contain anything but letters.
func validateNames(first, last string) error {
	if (first == "") != (last == "") {
		return errors.New("first name and last name should appear together")
	}
	if first != "" && (!alphabetic(first) || !alphabetic(last)) {
		return errors.New("first name or last name should not have number")
	}
	return nil
}
