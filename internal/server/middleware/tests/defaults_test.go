package tests

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/middleware"
)

func TestNoCache(t *testing.T) {
	h := middleware.NoCache(testHandler(http.StatusOK, "ok"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/books", nil))

	require.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
	require.Equal(t, "-1", rr.Header().Get("Expires"))
}

func TestCORS_ReflectsOrigin(t *testing.T) {
	h := middleware.CORS()(testHandler(http.StatusOK, "ok"))

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("Origin", "http://example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, "http://example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>home</h1>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600))

	h := middleware.Static(dir)(testHandler(http.StatusTeapot, "next"))

	cases := []struct {
		method, path string
		status       int
		body         string
	}{
		{http.MethodGet, "/", http.StatusOK, "<h1>home</h1>"},
		{http.MethodGet, "/app.js", http.StatusOK, "console.log(1)"},
		{http.MethodGet, "/books", http.StatusTeapot, "next"},
		{http.MethodPost, "/app.js", http.StatusTeapot, "next"},
		{http.MethodGet, "/../etc/passwd", http.StatusTeapot, "next"},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		require.Equal(t, tc.status, rr.Code, tc.path)
		require.Equal(t, tc.body, rr.Body.String(), tc.path)
	}
}
