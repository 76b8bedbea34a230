package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookie(t *testing.T) {
	cookie := Cookie("some-session-id")

	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "some-session-id", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func TestClearCookie(t *testing.T) {
	cookie := ClearCookie()

	assert.Equal(t, CookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func TestFromRequest(t *testing.T) {
	t.Run("extracts the session id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: "abc-123"})

		id, ok := FromRequest(r)
		require.True(t, ok)
		assert.Equal(t, "abc-123", id)
	})

	t.Run("returns false without a cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		_, ok := FromRequest(r)
		assert.False(t, ok)
	})

	t.Run("returns false for an empty value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: ""})

		_, ok := FromRequest(r)
		assert.False(t, ok)
	})
}
