package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/repository"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/rules"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/service"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/errors"
)

func newResourcesService(t *testing.T) (*service.ResourcesService, *mocks.MockResourceStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockResourceStore(ctrl)
	return service.NewResourcesService(store, testHasher()), store
}

func TestResources_List_OwnerScope(t *testing.T) {
	ctx := context.Background()
	svc, store := newResourcesService(t)

	store.EXPECT().List(ctx, "orders").Return([]repository.Record{
		{"id": 1, "userId": 1},
		{"id": 2, "userId": 2},
		{"id": 3, "userId": "1"},
	}, nil).Times(2)

	all, err := svc.List(ctx, "orders", nil)
	require.NoError(t, err)
	require.Len(t, all, 3)

	own, err := svc.List(ctx, "orders", &rules.OwnerScope{Field: "userId", UserID: "1"})
	require.NoError(t, err)
	require.Len(t, own, 2)
}

// хэши паролей не уходят наружу
func TestResources_UsersPasswordStripped(t *testing.T) {
	ctx := context.Background()
	svc, store := newResourcesService(t)

	store.EXPECT().List(ctx, "users").Return([]repository.Record{
		{"id": 1, "email": "a@b.c", "password": "$2a$hash"},
	}, nil)
	store.EXPECT().Get(ctx, "users", "1").Return(repository.Record{
		"id": 1, "email": "a@b.c", "password": "$2a$hash",
	}, nil)

	list, err := svc.List(ctx, "users", nil)
	require.NoError(t, err)
	require.NotContains(t, list[0], "password")

	rec, err := svc.Get(ctx, "users", "1")
	require.NoError(t, err)
	require.NotContains(t, rec, "password")
}

// пароль пользователя при обновлении хэшируется
func TestResources_UsersPasswordRehashed(t *testing.T) {
	ctx := context.Background()
	svc, store := newResourcesService(t)

	store.EXPECT().
		Patch(ctx, "users", "1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, patch repository.Record) (repository.Record, error) {
			pw := patch["password"].(string)
			require.NotEqual(t, "newpass", pw)
			ok, err := crypto.VerifyAny("newpass", pw)
			require.NoError(t, err)
			require.True(t, ok)
			return repository.Record{"id": 1, "email": "a@b.c", "password": pw}, nil
		})

	body := repository.Record{"password": "newpass"}
	rec, err := svc.Patch(ctx, "users", "1", body)
	require.NoError(t, err)
	require.NotContains(t, rec, "password")
	// тело вызывающего не меняется
	require.Equal(t, "newpass", body["password"])
}

// для остальных ресурсов поле password не трогаем
func TestResources_OtherPasswordUntouched(t *testing.T) {
	ctx := context.Background()
	svc, store := newResourcesService(t)

	body := repository.Record{"password": "wifi"}
	store.EXPECT().Insert(ctx, "coupons", body).Return(repository.Record{"id": 1, "password": "wifi"}, nil)

	rec, err := svc.Create(ctx, "coupons", body)
	require.NoError(t, err)
	require.Equal(t, "wifi", rec["password"])
}

func TestResources_OwnerOf(t *testing.T) {
	ctx := context.Background()
	svc, store := newResourcesService(t)

	store.EXPECT().Get(ctx, "books", "1").Return(repository.Record{"id": 1, "userId": 5}, nil)
	store.EXPECT().Get(ctx, "users", "5").Return(repository.Record{"id": 5}, nil)
	store.EXPECT().Get(ctx, "books", "9").Return(nil, serr.ErrNotFound)
	store.EXPECT().Get(ctx, "nope", "1").Return(nil, serr.ErrUnknownResource)

	owner, ok, err := svc.OwnerOf(ctx, "books", "1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "5", owner)

	// для users владелец: сама запись
	owner, ok, err = svc.OwnerOf(ctx, "users", "5")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "5", owner)

	_, ok, err = svc.OwnerOf(ctx, "books", "9")
	require.NoError(t, err)
	require.False(t, ok)

	// неизвестный ресурс: тоже "нет записи", роутер ответит 404
	_, ok, err = svc.OwnerOf(ctx, "nope", "1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResources_OwnerOf_Singular(t *testing.T) {
	ctx := context.Background()
	svc, store := newResourcesService(t)

	store.EXPECT().Object(ctx, "profile").Return(repository.Record{"userId": "3"}, nil)

	owner, ok, err := svc.OwnerOf(ctx, "profile", "")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "3", owner)
}
