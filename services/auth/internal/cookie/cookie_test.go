package cookie

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefresh(t *testing.T) {
	t.Parallel()

	c := Refresh("tok", 604_800_000, false)
	assert.Equal(t, RefreshName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 604800, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	assert.True(t, Refresh("tok", 1000, true).Secure)
}

func TestClearRefresh(t *testing.T) {
	t.Parallel()

	c := ClearRefresh(true)
	assert.Equal(t, RefreshName, c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
	assert.True(t, c.Secure)
}
