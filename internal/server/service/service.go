// Package service содержит бизнес-логику приложения (json-server-auth).
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

import (
	"context"
	"fmt"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/config"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/models"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/repository"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users UsersRepo
	Store ResourceStore
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth      *AuthService
	Resources *ResourcesService
}

// NewServices собирает все сервисы приложения.
// cfg нужен для выбора хэшера паролей и параметров JWT.
func NewServices(repos Repositories, cfg *config.Config) (*Services, error) {
	hasher, err := NewHasher(cfg)
	if err != nil {
		return nil, err
	}
	return &Services{
		Auth:      NewAuthService(repos.Users, hasher, JWTConfig(cfg), cfg.Auth.MinPasswordLen),
		Resources: NewResourcesService(repos.Store, hasher),
	}, nil
}

// NewHasher создаёт хэшер паролей из конфига.
func NewHasher(cfg *config.Config) (crypto.Hasher, error) {
	p := cfg.Auth.Password
	h, err := crypto.NewHasher(p.Hasher, p.Bcrypt.Cost, crypto.Argon2Params{
		Time:      p.Argon2.Time,
		MemoryKiB: p.Argon2.MemoryKiB,
		Threads:   p.Argon2.Threads,
		KeyLen:    p.Argon2.KeyLen,
		SaltLen:   p.Argon2.SaltLen,
	})
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}
	return h, nil
}

// JWTConfig собирает параметры выпуска токенов из конфига.
func JWTConfig(cfg *config.Config) crypto.JWTConfig {
	return crypto.JWTConfig{
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		SigningKey: cfg.Auth.JWT.SigningKey,
		AccessTTL:  cfg.Auth.AccessTTL,
	}
}

// UsersRepo — репозиторий пользователей (нужен для register/login).
type UsersRepo interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

// ResourceStore — хранилище ресурсов (реализуется repository.JSONStore).
type ResourceStore interface {
	Kind(resource string) (repository.Kind, error)
	List(ctx context.Context, resource string) ([]repository.Record, error)
	Get(ctx context.Context, resource, id string) (repository.Record, error)
	Insert(ctx context.Context, resource string, rec repository.Record) (repository.Record, error)
	Replace(ctx context.Context, resource, id string, rec repository.Record) (repository.Record, error)
	Patch(ctx context.Context, resource, id string, patch repository.Record) (repository.Record, error)
	Delete(ctx context.Context, resource, id string) error
	Object(ctx context.Context, resource string) (repository.Record, error)
	ReplaceObject(ctx context.Context, resource string, rec repository.Record) (repository.Record, error)
	PatchObject(ctx context.Context, resource string, patch repository.Record) (repository.Record, error)
}
