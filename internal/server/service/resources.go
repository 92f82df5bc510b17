package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/models"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/repository"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/rules"
	serr "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/errors"
)

// ResourcesService — CRUD над произвольными ресурсами базы.
//
// Права здесь не проверяются: к этому моменту запрос уже прошёл guard.
// Сервис отвечает только за то, что не должно утечь или сохраниться
// в открытом виде: пароли пользователей.
type ResourcesService struct {
	store  ResourceStore
	hasher crypto.Hasher
}

// NewResourcesService создаёт ResourcesService.
func NewResourcesService(store ResourceStore, hasher crypto.Hasher) *ResourcesService {
	return &ResourcesService{store: store, hasher: hasher}
}

// Kind сообщает, коллекция ресурс или одиночный объект.
func (s *ResourcesService) Kind(resource string) (repository.Kind, error) {
	return s.store.Kind(resource)
}

// List возвращает записи коллекции. scope != nil: только записи владельца.
func (s *ResourcesService) List(ctx context.Context, resource string, scope *rules.OwnerScope) ([]repository.Record, error) {
	items, err := s.store.List(ctx, resource)
	if err != nil {
		return nil, err
	}
	out := make([]repository.Record, 0, len(items))
	for _, rec := range items {
		if scope != nil && repository.IDString(rec[scope.Field]) != scope.UserID {
			continue
		}
		out = append(out, sanitize(resource, rec))
	}
	return out, nil
}

// Get возвращает запись по id.
func (s *ResourcesService) Get(ctx context.Context, resource, id string) (repository.Record, error) {
	rec, err := s.store.Get(ctx, resource, id)
	if err != nil {
		return nil, err
	}
	return sanitize(resource, rec), nil
}

// Create добавляет запись в коллекцию.
func (s *ResourcesService) Create(ctx context.Context, resource string, body repository.Record) (repository.Record, error) {
	body, err := s.prepare(resource, body)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Insert(ctx, resource, body)
	if err != nil {
		return nil, err
	}
	return sanitize(resource, rec), nil
}

// Replace заменяет запись целиком.
func (s *ResourcesService) Replace(ctx context.Context, resource, id string, body repository.Record) (repository.Record, error) {
	body, err := s.prepare(resource, body)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Replace(ctx, resource, id, body)
	if err != nil {
		return nil, err
	}
	return sanitize(resource, rec), nil
}

// Patch частично обновляет запись.
func (s *ResourcesService) Patch(ctx context.Context, resource, id string, body repository.Record) (repository.Record, error) {
	body, err := s.prepare(resource, body)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Patch(ctx, resource, id, body)
	if err != nil {
		return nil, err
	}
	return sanitize(resource, rec), nil
}

// Delete удаляет запись.
func (s *ResourcesService) Delete(ctx context.Context, resource, id string) error {
	return s.store.Delete(ctx, resource, id)
}

// Object возвращает одиночный ресурс.
func (s *ResourcesService) Object(ctx context.Context, resource string) (repository.Record, error) {
	return s.store.Object(ctx, resource)
}

// ReplaceObject заменяет одиночный ресурс.
func (s *ResourcesService) ReplaceObject(ctx context.Context, resource string, body repository.Record) (repository.Record, error) {
	return s.store.ReplaceObject(ctx, resource, body)
}

// PatchObject частично обновляет одиночный ресурс.
func (s *ResourcesService) PatchObject(ctx context.Context, resource string, body repository.Record) (repository.Record, error) {
	return s.store.PatchObject(ctx, resource, body)
}

// OwnerOf возвращает id владельца записи. Пустой id: одиночный ресурс.
//
// Возвращает:
//   - owner, true: запись есть
//   - "", false: записи нет (дальше роутер ответит 404)
func (s *ResourcesService) OwnerOf(ctx context.Context, resource, id string) (string, bool, error) {
	var (
		rec repository.Record
		err error
	)
	if id == "" {
		rec, err = s.store.Object(ctx, resource)
	} else {
		rec, err = s.store.Get(ctx, resource, id)
	}
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) || errors.Is(err, serr.ErrUnknownResource) {
			return "", false, nil
		}
		return "", false, err
	}
	return repository.IDString(rec[rules.OwnerField(resource)]), true, nil
}

// prepare хэширует пароль, если запись пользователя приходит с ним.
func (s *ResourcesService) prepare(resource string, body repository.Record) (repository.Record, error) {
	if resource != repository.UsersResource {
		return body, nil
	}
	pw, ok := body[models.UserPasswordField].(string)
	if !ok || pw == "" {
		return body, nil
	}
	hash, err := s.hasher.Hash(pw)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", serr.ErrInternal, err)
	}
	out := make(repository.Record, len(body))
	for k, v := range body {
		out[k] = v
	}
	out[models.UserPasswordField] = hash
	return out, nil
}

// sanitize убирает хэш пароля из записей users.
func sanitize(resource string, rec repository.Record) repository.Record {
	if resource == repository.UsersResource {
		delete(rec, models.UserPasswordField)
	}
	return rec
}
