package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/client"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/config"
	h "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/net/http"
)

// newServer поднимает настоящий сервер на httptest
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db.json")
	require.NoError(t, os.WriteFile(dbPath, []byte(`{"books": [{"id": 1, "name": "Dune"}], "users": []}`), 0o600))

	cfg, err := config.Load(filepath.Join(dir, "missing.yaml"), config.Environment{})
	require.NoError(t, err)
	cfg.DB.Path = dbPath
	cfg.Auth.Password.Bcrypt.Cost = 4

	srv, err := h.Assemble(cfg, nil, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_RegisterLoginAndWrite(t *testing.T) {
	ts := newServer(t)
	ctx := context.Background()
	c := client.New(ts.URL+"/", nil)

	reg, err := c.Register(ctx, client.Credentials{Email: "olivier@mail.com", Password: "bestPassw0rd"}, map[string]any{"role": "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, reg.AccessToken)
	require.Equal(t, "admin", reg.User["role"])

	login, err := c.Login(ctx, client.Credentials{Email: "olivier@mail.com", Password: "bestPassw0rd"})
	require.NoError(t, err)
	require.NotEmpty(t, login.AccessToken)

	var created map[string]any
	err = c.Do(ctx, http.MethodPost, "/books", map[string]any{"name": "Test", "original_price": 10}, &created, login.AccessToken)
	require.NoError(t, err)
	require.EqualValues(t, 2, created["id"])
}

func TestClient_Errors(t *testing.T) {
	ts := newServer(t)
	ctx := context.Background()
	c := client.New(ts.URL, nil)

	err := c.Do(ctx, http.MethodPost, "/books", map[string]any{"name": "Test"}, nil, "")
	require.Equal(t, http.StatusUnauthorized, client.StatusOf(err))
	require.EqualError(t, err, "401: Missing authorization header")

	_, err = c.Login(ctx, client.Credentials{Email: "ghost@mail.com", Password: "x"})
	require.Equal(t, http.StatusBadRequest, client.StatusOf(err))

	// тело не JSON: сообщение берётся как есть
	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer plain.Close()
	err = client.New(plain.URL, nil).Do(ctx, http.MethodGet, "/", nil, nil, "")
	require.EqualError(t, err, "502: boom")

	// сервер недоступен: это не ответ сервера
	err = client.New("http://127.0.0.1:1", nil).Do(ctx, http.MethodGet, "/", nil, nil, "")
	require.Error(t, err)
	require.Zero(t, client.StatusOf(err))
}
