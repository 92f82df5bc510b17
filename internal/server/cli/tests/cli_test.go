package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/cli"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/config"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/logger"
)

const seedDB = `{
  "books": [{"id": 1, "name": "Dune"}],
  "tags": [],
  "users": []
}`

func withDeps(t *testing.T, fn func()) {
	t.Helper()

	origRead := cli.ReadPassword
	origNew := cli.NewAPIClient
	origLogger := cli.NewServerLogger
	t.Cleanup(func() {
		cli.ReadPassword = origRead
		cli.NewAPIClient = origNew
		cli.NewServerLogger = origLogger
	})

	fn()
}

// workspace: конфиг и база во временной директории
func workspace(t *testing.T, extraYAML string) (cfgPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "db.json")
	require.NoError(t, os.WriteFile(dbPath, []byte(seedDB), 0o600))

	cfgPath = filepath.Join(dir, "server.yaml")
	yml := "auth:\n  password:\n    bcrypt:\n      cost: 4\n" + extraYAML
	require.NoError(t, os.WriteFile(cfgPath, []byte(yml), 0o600))
	return cfgPath, dbPath
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmd("1.2.3", "2026-01-01")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	require.Equal(t, "version=1.2.3\nbuild_date=2026-01-01\n", out)
}

func TestDocs(t *testing.T) {
	cfgPath, dbPath := workspace(t, "")

	out, _, err := run(t, "", "docs", "--config", cfgPath, "--db", dbPath, "--port", "4000")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Equal(t, "JSON Server Auth API", doc["info"].(map[string]any)["title"])
	servers := doc["servers"].([]any)
	require.Equal(t, "http://localhost:4000", servers[0].(map[string]any)["url"])
}

func TestDocs_StrictWithBrokenFragment(t *testing.T) {
	annotations := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(annotations, "broken.yaml"), []byte("/x: [nope\n"), 0o600))
	cfgPath, dbPath := workspace(t, fmt.Sprintf("docs:\n  annotations_dir: %q\n", annotations))

	out, errOut, err := run(t, "", "docs", "--config", cfgPath, "--db", dbPath)
	require.NoError(t, err)
	require.Contains(t, errOut, "broken.yaml")
	require.True(t, json.Valid([]byte(out)))

	_, _, err = run(t, "", "docs", "--strict", "--config", cfgPath, "--db", dbPath)
	require.ErrorIs(t, err, cli.ErrSkippedFragments)
}

func TestRules(t *testing.T) {
	cfgPath, dbPath := workspace(t, "")

	out, _, err := run(t, "", "rules", "--config", cfgPath, "--db", dbPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Contains(t, lines[0], "RESOURCE")
	require.Contains(t, out, "users")
	require.Regexp(t, `users\s+600\s+owner\s+owner\s+true`, out)
	require.Regexp(t, `books\s+664\s+public\s+logged\s+true`, out)
}

func TestRules_Strict(t *testing.T) {
	cfgPath, dbPath := workspace(t, "rules:\n  table:\n    users: 600\n  strict: true\n")

	_, _, err := run(t, "", "rules", "--config", cfgPath, "--db", dbPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "books")
}

func TestUserAdd(t *testing.T) {
	withDeps(t, func() {
		cfgPath, dbPath := workspace(t, "")
		cli.ReadPassword = func(_ *cobra.Command, _ bool) (string, error) { return "bestPassw0rd", nil }

		out, _, err := run(t, "", "user", "add", "--email", "admin@mail.com", "--role", "admin", "--config", cfgPath, "--db", dbPath)
		require.NoError(t, err)
		require.Equal(t, "user 1 (admin@mail.com) added\n", out)

		raw, err := os.ReadFile(dbPath)
		require.NoError(t, err)
		require.Contains(t, string(raw), `"role": "admin"`)
		require.NotContains(t, string(raw), "bestPassw0rd")

		// повторно тот же email
		_, _, err = run(t, "", "user", "add", "--email", "admin@mail.com", "--config", cfgPath, "--db", dbPath)
		require.Error(t, err)
	})
}

func TestUserAdd_PasswordStdin(t *testing.T) {
	cfgPath, dbPath := workspace(t, "")

	out, _, err := run(t, "bestPassw0rd\n", "user", "add", "--email", "ci@mail.com", "--password-stdin", "--config", cfgPath, "--db", dbPath)
	require.NoError(t, err)
	require.Contains(t, out, "ci@mail.com")

	_, _, err = run(t, "", "user", "add", "--email", "empty@mail.com", "--password-stdin", "--config", cfgPath, "--db", dbPath)
	require.Error(t, err)
}

func TestToken(t *testing.T) {
	withDeps(t, func() {
		var gotPath string
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"accessToken":"tok-1","user":{"id":1}}`))
		}))
		defer srv.Close()

		cfgPath, dbPath := workspace(t, "")
		cli.ReadPassword = func(_ *cobra.Command, _ bool) (string, error) { return "bestPassw0rd", nil }

		out, _, err := run(t, "", "token", "--server", srv.URL, "--email", "olivier@mail.com", "--config", cfgPath, "--db", dbPath)
		require.NoError(t, err)
		require.Equal(t, "tok-1\n", out)
		require.Equal(t, "/login", gotPath)
		require.Equal(t, "olivier@mail.com", gotBody["email"])

		_, _, err = run(t, "", "token", "--register", "--server", srv.URL, "--email", "olivier@mail.com", "--config", cfgPath, "--db", dbPath)
		require.NoError(t, err)
		require.Equal(t, "/register", gotPath)
	})
}

func TestToken_ServerError(t *testing.T) {
	withDeps(t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Incorrect password"}`))
		}))
		defer srv.Close()

		cfgPath, dbPath := workspace(t, "")
		cli.ReadPassword = func(_ *cobra.Command, _ bool) (string, error) { return "wrong", nil }

		_, _, err := run(t, "", "token", "--server", srv.URL, "--email", "olivier@mail.com", "--config", cfgPath, "--db", dbPath)
		require.EqualError(t, err, "400: Incorrect password")
	})
}

// freePort возвращает свободный TCP-порт.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

// serve пишет в лог адрес swagger-ui и останавливается по отмене контекста
func TestServe_LogsDocsURL(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	withDeps(t, func() {
		cli.NewServerLogger = func(*config.Config) *logger.HTTPLogger {
			return &logger.HTTPLogger{Logger: zap.New(core)}
		}
	})

	cfgPath, dbPath := workspace(t, "")
	port := strconv.Itoa(freePort(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd := cli.NewRootCmd("dev", "")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "--config", cfgPath, "--db", dbPath, "--port", port})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return logs.FilterMessageSnippet("Swagger docs available at").Len() == 1
	}, 5*time.Second, 20*time.Millisecond)

	entry := logs.FilterMessageSnippet("Swagger docs available at").All()[0]
	require.Equal(t, "Swagger docs available at http://localhost:"+port+"/api-docs", entry.Message)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
	require.Equal(t, 1, logs.FilterMessage("server gracefully stopped").Len())
}
