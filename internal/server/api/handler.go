// Package api реализует HTTP-слой сервера json-server-auth.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения;
//   - маршруты документации, аутентификации и CRUD над ресурсами базы.
//
// Порядок маршрутов и middleware задаёт internal/server/net/http.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/docs"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/logger"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// DefaultMaxBodyBytes — лимит тела запроса, если в конфиге не задан.
const DefaultMaxBodyBytes int64 = 1 << 20

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Docs: собранный OpenAPI-документ;
//   - Metrics: prometheus-метрики (может быть nil).
type Handler struct {
	Svc     *service.Services
	Log     *logger.HTTPLogger
	Docs    *docs.Document
	Metrics *metrics.Metrics

	MaxBodyBytes int64
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, doc *docs.Document, m *metrics.Metrics, maxBodyBytes int64) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{
		Svc:          svc,
		Log:          log,
		Docs:         doc,
		Metrics:      m,
		MaxBodyBytes: maxBodyBytes,
	}
}

// ErrorResponse — тело ответа с ошибкой (схема Error в документации).
type ErrorResponse = middleware.MessageResponse

// WriteError пишет ошибку в виде {"message": "..."}.
func WriteError(w http.ResponseWriter, status int, err error) {
	middleware.WriteMessage(w, status, err.Error())
}

// WriteJSON пишет v с указанным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// authMessages — ошибки, текст которых отдаётся клиенту как есть со статусом 400.
var authMessages = []error{
	serr.ErrEmailPasswordRequired,
	serr.ErrEmailFormat,
	serr.ErrPasswordTooShort,
	serr.ErrEmailExists,
	serr.ErrUserNotFound,
	serr.ErrIncorrectPassword,
}

// writeDomainError переводит доменную ошибку в HTTP-ответ.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range authMessages {
		if errors.Is(err, m) {
			WriteError(w, http.StatusBadRequest, m)
			return
		}
	}
	switch {
	case errors.Is(err, serr.ErrBadJSON):
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
	case errors.Is(err, serr.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
	case errors.Is(err, serr.ErrPayloadTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, serr.ErrPayloadTooLarge)
	case errors.Is(err, serr.ErrNotFound),
		errors.Is(err, serr.ErrUnknownResource):
		// json-server отвечает на отсутствующую запись пустым объектом
		WriteJSON(w, http.StatusNotFound, map[string]any{})
	case errors.Is(err, serr.ErrNotCollection),
		errors.Is(err, serr.ErrNotSingular):
		WriteError(w, http.StatusMethodNotAllowed, err)
	case errors.Is(err, serr.ErrConflict),
		errors.Is(err, serr.ErrAlreadyExists):
		WriteError(w, http.StatusConflict, err)
	case errors.Is(err, serr.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
	case errors.Is(err, serr.ErrForbidden):
		WriteError(w, http.StatusForbidden, serr.ErrForbidden)
	default:
		h.Log.Logger.Sugar().Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
	}
}

// decodeObject читает тело запроса как JSON-объект.
// Числа остаются json.Number, чтобы не терять точность при записи в базу.
func (h *Handler) decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, serr.ErrPayloadTooLarge
		}
		return nil, serr.ErrBadJSON
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, serr.ErrBadJSON
	}
	return obj, nil
}
