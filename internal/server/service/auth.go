package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/models"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/repository"
	serr "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/errors"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// DefaultMinPasswordLen — минимальная длина пароля, если в конфиге не задано.
const DefaultMinPasswordLen = 4

// AuthService реализует регистрацию и логин пользователей.
//
// Ответственность:
//   - валидация email/пароля
//   - хэширование пароля и сохранение пользователя в users
//   - выпуск access токена
type AuthService struct {
	users  UsersRepo
	hasher crypto.Hasher
	jwt    crypto.JWTConfig

	minPasswordLen int
}

// AuthResult — ответ register/login: токен и пользователь без пароля.
type AuthResult struct {
	AccessToken string         `json:"accessToken"`
	User        map[string]any `json:"user"`
}

// NewAuthService создаёт AuthService.
func NewAuthService(users UsersRepo, hasher crypto.Hasher, jwt crypto.JWTConfig, minPasswordLen int) *AuthService {
	if minPasswordLen <= 0 {
		minPasswordLen = DefaultMinPasswordLen
	}
	return &AuthService{
		users:          users,
		hasher:         hasher,
		jwt:            jwt,
		minPasswordLen: minPasswordLen,
	}
}

// Register регистрирует нового пользователя.
//
// body — тело запроса как есть: email и password обязательны,
// остальные поля (role, firstname ...) сохраняются в записи пользователя.
//
// Ошибки:
//   - ErrEmailPasswordRequired, ErrEmailFormat, ErrPasswordTooShort
//   - ErrEmailExists если email уже зарегистрирован
func (s *AuthService) Register(ctx context.Context, body map[string]any) (AuthResult, error) {
	email, _ := body[models.UserEmailField].(string)
	password, _ := body[models.UserPasswordField].(string)
	email = models.NormalizeEmail(email)

	if email == "" || password == "" {
		return AuthResult{}, serr.ErrEmailPasswordRequired
	}
	if !emailRe.MatchString(email) {
		return AuthResult{}, serr.ErrEmailFormat
	}
	if err := s.CheckPassword(password); err != nil {
		return AuthResult{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%w: hash password: %v", serr.ErrInternal, err)
	}

	// id из тела (если есть) сохраняется, иначе его сгенерирует хранилище
	u := models.UserFromRecord(body)
	u.Email = email
	u.PasswordHash = hash

	created, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return AuthResult{}, serr.ErrEmailExists
		}
		return AuthResult{}, err
	}
	return s.issue(created)
}

// Login аутентифицирует пользователя по email и паролю.
//
// Ошибки:
//   - ErrEmailPasswordRequired
//   - ErrUserNotFound
//   - ErrIncorrectPassword
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, serr.ErrEmailPasswordRequired
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return AuthResult{}, serr.ErrUserNotFound
		}
		return AuthResult{}, err
	}

	// база могла наполняться другим хэшером, проверяем любой поддерживаемый формат
	ok, err := crypto.VerifyAny(password, u.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, serr.ErrIncorrectPassword
	}
	return s.issue(u)
}

// CheckPassword проверяет пароль по политике сервиса.
func (s *AuthService) CheckPassword(password string) error {
	if len(strings.TrimSpace(password)) < s.minPasswordLen {
		return serr.ErrPasswordTooShort
	}
	return nil
}

func (s *AuthService) issue(u models.User) (AuthResult, error) {
	token, err := crypto.NewAccessToken(repository.IDString(u.ID), u.Email, s.jwt)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%w: sign token: %v", serr.ErrInternal, err)
	}
	return AuthResult{AccessToken: token, User: u.Public()}, nil
}
