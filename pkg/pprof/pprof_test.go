package pprof

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPprofConfig_SetDefaults(t *testing.T) {
	var c PprofConfig
	c.SetDefaults()
	assert.Equal(t, "127.0.0.1", c.Host)
	assert.Equal(t, 8083, c.Port)
	assert.Equal(t, "/debug/pprof", c.Path)
	assert.False(t, c.Enable)
}

func TestServer_Handler(t *testing.T) {
	s := NewServer(PprofConfig{Path: "/debug/profiles"})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/profiles/goroutine?debug=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goroutine")

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/heap", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_DisabledStartStop(t *testing.T) {
	s := NewServer(PprofConfig{})
	require.NoError(t, s.Start())
	assert.NoError(t, s.Stop(context.Background()))
}
