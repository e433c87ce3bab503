package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "14:30", want: "14:30"},
		{in: "00:00", want: "00:00"},
		{in: "23:59", want: "23:59"},
		{in: "24:00", wantErr: true},
		{in: "14:60", wantErr: true},
		{in: "14:30:00", wantErr: true}, // seconds not accepted
		{in: "2pm", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseClock(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		require.Equal(t, tt.want, got)
	}
}

func TestValidateNames(t *testing.T) {
	require.NoError(t, validateNames("", ""))
	require.NoError(t, validateNames("Jane", "Doe"))

	err := validateNames("Jane", "")
	require.EqualError(t, err, "first name and last name should appear together")
	err = validateNames("", "Doe")
	require.EqualError(t, err, "first name and last name should appear together")

	err = validateNames("Jane2", "Doe")
	require.EqualError(t, err, "first name or last name should not have number")
	err = validateNames("Jane", "D0e")
	require.EqualError(t, err, "first name or last name should not have number")
}

func TestAlphabetic(t *testing.T) {
	require.True(t, alphabetic("Jane"))
	require.True(t, alphabetic("김철수")) // any letters, not just ASCII
	require.False(t, alphabetic(""))
	require.False(t, alphabetic("Jane2"))
	require.False(t, alphabetic("Jane Doe"))
}

func TestGetUserID(t *testing.T) {
	e := echo.New()
	ctx := func(v interface{}) echo.Context {
		c := e.NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())
		if v != nil {
			c.Set("user_id", v)
		}
		return c
	}

	// JWT claims surface numbers as float64.
	id, err := getUserID(ctx(float64(42)))
	require.NoError(t, err)
	require.Equal(t, uint64(42), id)

	id, err = getUserID(ctx(uint64(7)))
	require.NoError(t, err)
	require.Equal(t, uint64(7), id)

	id, err = getUserID(ctx("19"))
	require.NoError(t, err)
	require.Equal(t, uint64(19), id)

	_, err = getUserID(ctx(nil))
	require.Error(t, err)
	_, err = getUserID(ctx("abc"))
	require.Error(t, err)
}
