package tests

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/repository"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/rules"
)

// fakeOwners — владельцы записей: resource -> id -> owner
type fakeOwners struct {
	kinds  map[string]repository.Kind
	owners map[string]map[string]string
}

func (f *fakeOwners) Kind(resource string) (repository.Kind, error) {
	k, ok := f.kinds[resource]
	if !ok {
		return 0, context.Canceled
	}
	return k, nil
}

func (f *fakeOwners) OwnerOf(_ context.Context, resource, id string) (string, bool, error) {
	o, ok := f.owners[resource][id]
	return o, ok, nil
}

type guardEnv struct {
	handler http.Handler
	metrics *metrics.Metrics

	called bool
	userID string
	scope  *rules.OwnerScope
	body   string
}

func newGuardEnv(t *testing.T) *guardEnv {
	t.Helper()

	table, err := rules.NewTable(map[string]int{
		"books":   664,
		"users":   600,
		"orders":  600,
		"profile": 600,
		"vault":   0,
		"reviews": 644,
	})
	require.NoError(t, err)

	owners := &fakeOwners{
		kinds: map[string]repository.Kind{
			"books":   repository.Collection,
			"users":   repository.Collection,
			"orders":  repository.Collection,
			"reviews": repository.Collection,
			"profile": repository.Singular,
		},
		owners: map[string]map[string]string{
			"users":   {"1": "1", "2": "2"},
			"orders":  {"10": "1", "11": "2"},
			"profile": {"": "1"},
		},
	}

	env := &guardEnv{metrics: metrics.New(prometheus.NewRegistry())}
	guard := middleware.NewGuard(middleware.NewJWTVerifier(testKey, "", ""), owners, env.metrics, nil, 1024)

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.called = true
		env.userID, _ = middleware.UserIDFromContext(r.Context())
		if s, ok := rules.OwnerScopeFromContext(r.Context()); ok {
			env.scope = &s
		}
		b, _ := io.ReadAll(r.Body)
		env.body = string(b)
		w.WriteHeader(http.StatusOK)
	})
	env.handler = table.Rewriter()(guard.Middleware()(final))
	return env
}

func (e *guardEnv) do(t *testing.T, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	e.called, e.userID, e.scope, e.body = false, "", nil, ""

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if userID != "" {
		tok, err := crypto.NewAccessToken(userID, userID+"@mail.com", crypto.JWTConfig{SigningKey: testKey, AccessTTL: time.Hour})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var m middleware.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m.Message
}

func TestGuard_PublicReadAndUnknownResource(t *testing.T) {
	env := newGuardEnv(t)

	rec := env.do(t, http.MethodGet, "/books/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.called)

	// ресурса нет в таблице: без ограничений
	rec = env.do(t, http.MethodDelete, "/tags/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.called)

	// preflight проходит всегда
	rec = env.do(t, http.MethodOptions, "/vault", "", "")
	require.True(t, env.called)
}

func TestGuard_WriteWithoutToken(t *testing.T) {
	env := newGuardEnv(t)

	rec := env.do(t, http.MethodDelete, "/books/1", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, env.called)
	require.Equal(t, "Missing authorization header", message(t, rec))

	require.Equal(t, float64(1), testutil.ToFloat64(env.metrics.GuardRejectionsTotal.WithLabelValues("books", "401")))
}

func TestGuard_WrongScheme(t *testing.T) {
	env := newGuardEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Incorrect authorization scheme", message(t, rec))
	require.False(t, env.called)
}

func TestGuard_LoggedWrite(t *testing.T) {
	env := newGuardEnv(t)

	rec := env.do(t, http.MethodPost, "/books", "5", `{"name":"Test"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.called)
	require.Equal(t, "5", env.userID)
	require.Equal(t, `{"name":"Test"}`, env.body)
}

func TestGuard_OwnerCollectionRead(t *testing.T) {
	env := newGuardEnv(t)

	rec := env.do(t, http.MethodGet, "/users", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.scope)
	require.Equal(t, rules.OwnerScope{Field: "id", UserID: "1"}, *env.scope)

	rec = env.do(t, http.MethodGet, "/orders", "2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, rules.OwnerScope{Field: "userId", UserID: "2"}, *env.scope)

	// 644: чтение доступно всем, фильтра нет
	rec = env.do(t, http.MethodGet, "/reviews", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, env.scope)
}

func TestGuard_OwnerItem(t *testing.T) {
	env := newGuardEnv(t)

	rec := env.do(t, http.MethodGet, "/users/1", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPatch, "/users/2", "1", `{"role":"admin"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, env.called)

	rec = env.do(t, http.MethodDelete, "/orders/11", "1", "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, "/orders/10", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// записи нет: пусть роутер ответит 404
	rec = env.do(t, http.MethodGet, "/orders/99", "1", "")
	require.True(t, env.called)
}

func TestGuard_OwnerSingular(t *testing.T) {
	env := newGuardEnv(t)

	rec := env.do(t, http.MethodGet, "/profile", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/profile", "2", `{}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, env.called)
}

func TestGuard_OwnerCreate(t *testing.T) {
	env := newGuardEnv(t)

	rec := env.do(t, http.MethodPost, "/orders", "1", `{"total":10}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, message(t, rec), "Private resource creation")
	require.False(t, env.called)

	rec = env.do(t, http.MethodPost, "/orders", "1", `{"total":10,"userId":2}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// своё создавать можно, тело доходит до обработчика целым
	rec = env.do(t, http.MethodPost, "/orders", "1", `{"total":10,"userId":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `{"total":10,"userId":1}`, env.body)

	rec = env.do(t, http.MethodPost, "/orders", "1", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/orders", "1", `{"userId":1,"pad":"`+strings.Repeat("x", 2048)+`"}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestGuard_NobodyAllowed(t *testing.T) {
	env := newGuardEnv(t)

	rec := env.do(t, http.MethodGet, "/vault", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/vault", "1", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, env.called)
}
