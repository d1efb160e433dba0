package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobotsCache_DisallowsMatchingPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	}))
	defer srv.Close()

	c := NewRobotsCacheWithScheme(srv.Client(), "http")
	host := srv.Listener.Addr().String()

	allowed, err := c.Allowed(context.Background(), host, "contactscout-bot", "/private/page")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = c.Allowed(context.Background(), host, "contactscout-bot", "/contact")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRobotsCache_MissingRobotsTxtAllowsEverything(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewRobotsCacheWithScheme(srv.Client(), "http")
	host := srv.Listener.Addr().String()

	allowed, err := c.Allowed(context.Background(), host, "contactscout-bot", "/anything")
	require.NoError(t, err)
	assert.True(t, allowed)
}
