package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/PJH6029/waffle-assignment-2/internal/config"
	"github.com/PJH6029/waffle-assignment-2/internal/repository"
)

// postJSON runs a handler against a JSON body and returns the recorder.
// Only validation paths that reject before touching the database are
// exercised here; the full flows live in the repository tests.
func postJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func newAuthHandler() *AuthHandler {
	cfg := config.Config{JWTSecret: "test", AccessTTLMin: 10, RefreshTTLDays: 7, BcryptCost: 4}
	return NewAuthHandler(cfg, repository.NewUserRepo(nil), repository.NewTokenRepo(nil))
}

func TestRegisterRejectsInvalidRole(t *testing.T) {
	h := newAuthHandler()
	rec := postJSON(t, h.Register, `{"username":"u","email":"u@x.com","password":"p","role":"admin"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "role should be either participant or instructor")
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	h := newAuthHandler()
	for _, body := range []string{
		`{"email":"u@x.com","password":"p","role":"participant"}`,
		`{"username":"u","password":"p","role":"participant"}`,
		`{"username":"u","email":"u@x.com","role":"participant"}`,
	} {
		rec := postJSON(t, h.Register, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	h := newAuthHandler()
	rec := postJSON(t, h.Register, `{"username":"u","email":"not-an-email","password":"p","role":"participant"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid email")
}

func TestRegisterRejectsLoneName(t *testing.T) {
	h := newAuthHandler()
	rec := postJSON(t, h.Register, `{"username":"u","email":"u@x.com","password":"p","role":"participant","first_name":"Jane"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "first name and last name should appear together")
}

func TestRegisterRejectsNumericName(t *testing.T) {
	h := newAuthHandler()
	rec := postJSON(t, h.Register, `{"username":"u","email":"u@x.com","password":"p","role":"participant","first_name":"Jane2","last_name":"Doe"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "first name or last name should not have number")
}

func TestRegisterRejectsNonPositiveYear(t *testing.T) {
	h := newAuthHandler()
	for _, body := range []string{
		`{"username":"u","email":"u@x.com","password":"p","role":"instructor","year":0}`,
		`{"username":"u","email":"u@x.com","password":"p","role":"instructor","year":-3}`,
	} {
		rec := postJSON(t, h.Register, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
		require.Contains(t, rec.Body.String(), "year should be a positive number")
	}
}
