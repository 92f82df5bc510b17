package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/api"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/docs"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/repository"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/service"
)

const testSigningKey = "test-signing-key-test-signing-key-0123"

const seed = `{
  "books": [
    {"id": 1, "name": "Dune", "userId": 1},
    {"id": 2, "name": "Solaris", "userId": 2}
  ],
  "profile": {"name": "shop"},
  "users": []
}`

type env struct {
	h       *api.Handler
	router  http.Handler
	store   *repository.JSONStore
	path    string
	metrics *metrics.Metrics
}

// helper: хендлеры поверх настоящей базы во временной директории, без guard
func newEnv(t *testing.T, content string) *env {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	store, err := repository.Open(path, nil)
	require.NoError(t, err)

	hasher := crypto.BcryptHasher{Cost: 4}
	svc := &service.Services{
		Auth: service.NewAuthService(
			repository.NewUsersRepository(store),
			hasher,
			crypto.JWTConfig{SigningKey: testSigningKey, AccessTTL: time.Hour},
			4,
		),
		Resources: service.NewResourcesService(store, hasher),
	}
	doc, _ := docs.Build(docs.NewDescriptor("http://localhost:3000", ""), docs.Annotations())
	m := metrics.New(nil)

	h := api.NewHandler(svc, nil, doc, m, 1024)
	r := chi.NewRouter()
	h.MountDocs(r, "", "")
	h.MountAuth(r)
	h.MountResources(r)

	return &env{h: h, router: r, store: store, path: path, metrics: m}
}

func (e *env) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func httpRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, target, nil)
}

func serve(e *env, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}
