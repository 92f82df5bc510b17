package tests

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/rules"
)

func TestListResource(t *testing.T) {
	e := newEnv(t, seed)

	rr := e.do(t, http.MethodGet, "/books", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	items := decodeBody[[]map[string]any](t, rr)
	require.Len(t, items, 2)
	require.Equal(t, "Dune", items[0]["name"])
}

// владельческая выборка, которую кладёт guard, сужает список
func TestListResource_OwnerScope(t *testing.T) {
	e := newEnv(t, seed)

	req := httpRequest(t, http.MethodGet, "/books")
	req = req.WithContext(rules.WithOwnerScope(req.Context(), rules.OwnerScope{Field: "userId", UserID: "2"}))
	rr := serve(e, req)

	require.Equal(t, http.StatusOK, rr.Code)
	items := decodeBody[[]map[string]any](t, rr)
	require.Len(t, items, 1)
	require.Equal(t, "Solaris", items[0]["name"])
}

func TestGetItem(t *testing.T) {
	e := newEnv(t, seed)

	rr := e.do(t, http.MethodGet, "/books/2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Solaris", decodeBody[map[string]any](t, rr)["name"])

	rr = e.do(t, http.MethodGet, "/books/42", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.JSONEq(t, `{}`, rr.Body.String())

	rr = e.do(t, http.MethodGet, "/nope", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateResource(t *testing.T) {
	e := newEnv(t, seed)

	rr := e.do(t, http.MethodPost, "/books", map[string]any{"name": "Hyperion", "userId": 1})
	require.Equal(t, http.StatusCreated, rr.Code)
	rec := decodeBody[map[string]any](t, rr)
	require.EqualValues(t, 3, rec["id"])

	got, err := e.store.Get(context.Background(), "books", "3")
	require.NoError(t, err)
	require.Equal(t, "Hyperion", got["name"])

	// запись попала на диск
	raw, err := os.ReadFile(e.path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "Hyperion")

	require.Equal(t, 1.0, testutil.ToFloat64(e.metrics.StoreWritesTotal.WithLabelValues("books", http.MethodPost)))
}

func TestCreateResource_Errors(t *testing.T) {
	e := newEnv(t, seed)

	cases := []struct {
		name   string
		target string
		body   any
		status int
	}{
		{"bad json", "/books", "{nope", http.StatusBadRequest},
		{"not an object", "/books", "[1,2]", http.StatusBadRequest},
		{"duplicate id", "/books", map[string]any{"id": 1, "name": "again"}, http.StatusConflict},
		{"too large", "/books", map[string]any{"name": strings.Repeat("x", 2048)}, http.StatusRequestEntityTooLarge},
		{"singular", "/profile", map[string]any{"name": "x"}, http.StatusMethodNotAllowed},
		{"unknown resource", "/nope", map[string]any{"name": "x"}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := e.do(t, http.MethodPost, tc.target, tc.body)
			require.Equal(t, tc.status, rr.Code, rr.Body.String())
		})
	}

	items, err := e.store.List(context.Background(), "books")
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestUpdateItem(t *testing.T) {
	e := newEnv(t, seed)

	// PATCH сливает поля
	rr := e.do(t, http.MethodPatch, "/books/1", map[string]any{"rating": 5})
	require.Equal(t, http.StatusOK, rr.Code)
	rec := decodeBody[map[string]any](t, rr)
	require.Equal(t, "Dune", rec["name"])
	require.EqualValues(t, 5, rec["rating"])

	// PUT заменяет запись, id остаётся прежним
	rr = e.do(t, http.MethodPut, "/books/1", map[string]any{"id": 99, "name": "Dune Messiah"})
	require.Equal(t, http.StatusOK, rr.Code)
	rec = decodeBody[map[string]any](t, rr)
	require.EqualValues(t, 1, rec["id"])
	require.Equal(t, "Dune Messiah", rec["name"])
	require.NotContains(t, rec, "rating")

	rr = e.do(t, http.MethodPut, "/books/42", map[string]any{"name": "x"})
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteItem(t *testing.T) {
	e := newEnv(t, seed)

	rr := e.do(t, http.MethodDelete, "/books/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{}`, rr.Body.String())

	rr = e.do(t, http.MethodGet, "/books/1", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = e.do(t, http.MethodDelete, "/books/1", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSingularResource(t *testing.T) {
	e := newEnv(t, seed)

	rr := e.do(t, http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "shop", decodeBody[map[string]any](t, rr)["name"])

	rr = e.do(t, http.MethodPatch, "/profile", map[string]any{"city": "Paris"})
	require.Equal(t, http.StatusOK, rr.Code)
	rec := decodeBody[map[string]any](t, rr)
	require.Equal(t, "shop", rec["name"])
	require.Equal(t, "Paris", rec["city"])

	rr = e.do(t, http.MethodPut, "/profile", map[string]any{"name": "store"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, map[string]any{"name": "store"}, decodeBody[map[string]any](t, rr))

	// у одиночного ресурса нет элементов
	rr = e.do(t, http.MethodGet, "/profile/1", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	// PUT на коллекцию не поддерживается
	rr = e.do(t, http.MethodPut, "/books", map[string]any{"name": "x"})
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

// пароль пользователя хэшируется при записи и не возвращается
func TestUsersResource_PasswordHidden(t *testing.T) {
	e := newEnv(t, seed)

	rr := e.do(t, http.MethodPost, "/users", map[string]any{"email": "a@b.io", "password": "secret"})
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotContains(t, decodeBody[map[string]any](t, rr), "password")

	got, err := e.store.Get(context.Background(), "users", "1")
	require.NoError(t, err)
	require.NotEqual(t, "secret", got["password"])
	require.NotEmpty(t, got["password"])

	rr = e.do(t, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), "password")
}
