// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/crypto"
	serr "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/errors"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// userIDKey — ключ контекста, под которым хранится ID аутентифицированного пользователя.
const userIDKey ctxKey = "user_id"

// JWTVerifier инкапсулирует параметры проверки JWT access-токенов.
//
// Используется guard'ом для:
//   - проверки подписи токена
//   - валидации issuer и audience
//   - извлечения userID из claims.Subject
type JWTVerifier struct {
	SigningKey string // симметричный ключ для подписи (HS256)
	Issuer     string // ожидаемый issuer (опционально)
	Audience   string // ожидаемая audience (опционально)
}

// NewJWTVerifier создаёт новый JWTVerifier с заданными параметрами.
func NewJWTVerifier(signingKey, issuer, audience string) *JWTVerifier {
	return &JWTVerifier{SigningKey: signingKey, Issuer: issuer, Audience: audience}
}

// UserIDFromContext извлекает userID аутентифицированного пользователя из контекста.
//
// Возвращает:
//   - userID
//   - false, если пользователь не аутентифицирован
func UserIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(userIDKey)
	s, ok := v.(string)
	return s, ok
}

// WithUserID кладёт userID в контекст.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Verify проверяет значение заголовка Authorization и возвращает claims токена.
//
// Ошибки (тексты уходят клиенту как есть):
//   - ErrMissingAuthHeader: заголовка нет
//   - ErrAuthScheme: схема не Bearer
//   - ErrTokenExpired: срок действия истёк
//   - ErrTokenInvalid: подпись, issuer, audience или subject не сходятся
func (v *JWTVerifier) Verify(header string) (*crypto.Claims, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, serr.ErrMissingAuthHeader
	}
	tokenStr, ok := ExtractBearer(header)
	if !ok {
		return nil, serr.ErrAuthScheme
	}

	claims := &crypto.Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(v.SigningKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, serr.ErrTokenExpired
		}
		return nil, serr.ErrTokenInvalid
	}

	if v.Issuer != "" && claims.Issuer != v.Issuer {
		return nil, serr.ErrTokenInvalid
	}
	if v.Audience != "" {
		ok := false
		for _, aud := range claims.Audience {
			if aud == v.Audience {
				ok = true
				break
			}
		}
		if !ok {
			return nil, serr.ErrTokenInvalid
		}
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, serr.ErrTokenInvalid
	}
	return claims, nil
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает false, если схема не Bearer или токен пуст.
func ExtractBearer(h string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(h), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
