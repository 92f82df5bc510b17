package repository

import (
	"context"
	"errors"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/errors"
)

// UsersResource — имя коллекции пользователей в базе.
const UsersResource = "users"

// UsersRepository — доступ к пользователям поверх JSONStore.
type UsersRepository struct {
	store *JSONStore
}

func NewUsersRepository(store *JSONStore) *UsersRepository {
	return &UsersRepository{store: store}
}

// Create сохраняет пользователя. Email должен быть уникален.
//
// Возвращает:
//   - пользователя с присвоенным id
//   - ErrAlreadyExists если email уже занят
func (r *UsersRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	rec, err := r.store.InsertUnique(ctx, UsersResource, models.UserEmailField, u.Record())
	if err != nil {
		return models.User{}, err
	}
	return models.UserFromRecord(rec), nil
}

// GetByEmail ищет пользователя по email.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	rec, err := r.store.FindOne(ctx, UsersResource, models.UserEmailField, email)
	if err != nil {
		// коллекции users может не быть вовсе: для логина это то же самое, что "не найден"
		if errors.Is(err, serr.ErrUnknownResource) {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, err
	}
	return models.UserFromRecord(rec), nil
}
