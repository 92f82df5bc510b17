package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/repository"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/rules"
	serr "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/logger"
)

// OwnerResolver отвечает guard'у, кому принадлежит запись.
// Реализуется service.ResourcesService.
type OwnerResolver interface {
	Kind(resource string) (repository.Kind, error)
	OwnerOf(ctx context.Context, resource, id string) (owner string, found bool, err error)
}

// Guard применяет правило, которое rules.Table.Rewriter положил в контекст.
//
// Порядок проверки:
//   - правила нет: пропускаем (ресурс без ограничений)
//   - public может: пропускаем
//   - нужен валидный Bearer-токен, иначе 401
//   - logged может: пропускаем
//   - owner может: проверяем владельца записи, иначе 403
//   - иначе 403
//
// Отказ всегда происходит до того, как запрос дойдёт до хранилища.
type Guard struct {
	verifier *JWTVerifier
	owners   OwnerResolver
	metrics  *metrics.Metrics
	log      *logger.HTTPLogger

	maxBodyBytes int64
}

// NewGuard создаёт Guard. m и log могут быть nil.
func NewGuard(verifier *JWTVerifier, owners OwnerResolver, m *metrics.Metrics, log *logger.HTTPLogger, maxBodyBytes int64) *Guard {
	if log == nil {
		log = logger.NewNop()
	}
	return &Guard{
		verifier:     verifier,
		owners:       owners,
		metrics:      m,
		log:          log,
		maxBodyBytes: maxBodyBytes,
	}
}

// AccessFor определяет, чтение это или запись.
func AccessFor(method string) rules.Access {
	switch method {
	case http.MethodGet, http.MethodHead:
		return rules.Read
	default:
		return rules.Write
	}
}

// Middleware возвращает HTTP middleware guard'а.
func (g *Guard) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule, ok := rules.FromContext(r.Context())
			if !ok || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			access := AccessFor(r.Method)
			p := rule.Permission
			if p.Allows(rules.Public, access) {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := g.verifier.Verify(r.Header.Get("Authorization"))
			if err != nil {
				g.reject(w, r, rule, http.StatusUnauthorized, err)
				return
			}
			r = r.WithContext(WithUserID(r.Context(), claims.Subject))

			switch {
			case p.Allows(rules.Logged, access):
				next.ServeHTTP(w, r)
			case p.Allows(rules.Owner, access):
				g.serveOwner(w, r, next, rule, claims.Subject, access)
			default:
				g.reject(w, r, rule, http.StatusForbidden, serr.ErrForbidden)
			}
		})
	}
}

// serveOwner — доступ только к своим записям.
func (g *Guard) serveOwner(w http.ResponseWriter, r *http.Request, next http.Handler, rule rules.Rule, userID string, access rules.Access) {
	ctx := r.Context()
	field := rules.OwnerField(rule.Resource)

	if rule.ID == "" {
		kind, err := g.owners.Kind(rule.Resource)
		if err != nil {
			// ресурса нет в базе: роутер ответит 404
			next.ServeHTTP(w, r)
			return
		}
		if kind == repository.Collection {
			switch {
			case access == rules.Read:
				// чтение коллекции владельцем: только свои записи
				next.ServeHTTP(w, r.WithContext(rules.WithOwnerScope(ctx, rules.OwnerScope{Field: field, UserID: userID})))
			case r.Method == http.MethodPost:
				g.checkCreate(w, r, next, rule, field, userID)
			default:
				// PUT/PATCH/DELETE на коллекцию роутер не поддерживает
				next.ServeHTTP(w, r)
			}
			return
		}
	}

	owner, found, err := g.owners.OwnerOf(ctx, rule.Resource, rule.ID)
	if err != nil {
		g.log.Logger.Sugar().Errorw("owner lookup failed", "resource", rule.Resource, "id", rule.ID, "error", err)
		g.reject(w, r, rule, http.StatusInternalServerError, serr.ErrInternal)
		return
	}
	if !found {
		next.ServeHTTP(w, r)
		return
	}
	if owner != userID {
		g.reject(w, r, rule, http.StatusForbidden, serr.ErrPrivateAccess)
		return
	}
	next.ServeHTTP(w, r)
}

// checkCreate — создавать можно только запись со ссылкой на себя.
// Тело читается целиком и возвращается в запрос для обработчика.
func (g *Guard) checkCreate(w http.ResponseWriter, r *http.Request, next http.Handler, rule rules.Rule, field, userID string) {
	body := r.Body
	if g.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, g.maxBodyBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			g.reject(w, r, rule, http.StatusRequestEntityTooLarge, serr.ErrPayloadTooLarge)
			return
		}
		g.reject(w, r, rule, http.StatusBadRequest, serr.ErrBadJSON)
		return
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		g.reject(w, r, rule, http.StatusBadRequest, serr.ErrBadJSON)
		return
	}
	if repository.IDString(obj[field]) != userID {
		g.reject(w, r, rule, http.StatusForbidden, serr.ErrPrivateCreate)
		return
	}

	r.Body = io.NopCloser(bytes.NewReader(raw))
	r.ContentLength = int64(len(raw))
	next.ServeHTTP(w, r)
}

func (g *Guard) reject(w http.ResponseWriter, r *http.Request, rule rules.Rule, status int, err error) {
	g.metrics.GuardRejected(rule.Resource, status)
	g.log.Logger.Sugar().Debugw("request rejected",
		"method", r.Method,
		"path", r.URL.Path,
		"rule", rule.Permission.String(),
		"status", status,
		"reason", err.Error(),
	)
	WriteMessage(w, status, err.Error())
}

// MessageResponse — тело ошибки: {"message": "..."}.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteMessage пишет JSON-ошибку с указанным статусом.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(MessageResponse{Message: msg})
}
