package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/repository"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/rules"
	serr "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/errors"
)

// URL-параметры CRUD-маршрутов.
const (
	ResourceParam = "resource"
	IDParam       = "id"
)

// kind определяет вид ресурса; ошибку уже записывает в ответ.
func (h *Handler) kind(w http.ResponseWriter, r *http.Request) (string, repository.Kind, bool) {
	resource := chi.URLParam(r, ResourceParam)
	k, err := h.Svc.Resources.Kind(resource)
	if err != nil {
		h.writeDomainError(w, r, err)
		return "", 0, false
	}
	return resource, k, true
}

// ListResource обрабатывает GET /{resource}.
//
// Для коллекции отдаёт массив записей (с владельческой выборкой, если её
// наложил guard), для одиночного ресурса отдаёт объект.
func (h *Handler) ListResource(w http.ResponseWriter, r *http.Request) {
	resource, k, ok := h.kind(w, r)
	if !ok {
		return
	}
	if k == repository.Singular {
		rec, err := h.Svc.Resources.Object(r.Context(), resource)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, rec)
		return
	}

	var scope *rules.OwnerScope
	if s, ok := rules.OwnerScopeFromContext(r.Context()); ok {
		scope = &s
	}
	items, err := h.Svc.Resources.List(r.Context(), resource, scope)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

// CreateResource обрабатывает POST /{resource}.
//
// Ответы:
//   - 201 Created: созданная запись;
//   - 400 Bad Request: тело не JSON-объект;
//   - 404 Not Found: ресурса нет в базе;
//   - 405 Method Not Allowed: ресурс одиночный;
//   - 409 Conflict: запись с таким id уже есть.
func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	resource, k, ok := h.kind(w, r)
	if !ok {
		return
	}
	if k != repository.Collection {
		h.writeDomainError(w, r, serr.ErrNotCollection)
		return
	}
	body, err := h.decodeObject(w, r)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	rec, err := h.Svc.Resources.Create(r.Context(), resource, body)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.Metrics.StoreWrite(resource, r.Method)
	WriteJSON(w, http.StatusCreated, rec)
}

// UpdateResource обрабатывает PUT и PATCH /{resource} одиночного ресурса.
func (h *Handler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	resource, k, ok := h.kind(w, r)
	if !ok {
		return
	}
	if k != repository.Singular {
		h.writeDomainError(w, r, serr.ErrNotSingular)
		return
	}
	body, err := h.decodeObject(w, r)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	var rec repository.Record
	if r.Method == http.MethodPatch {
		rec, err = h.Svc.Resources.PatchObject(r.Context(), resource, body)
	} else {
		rec, err = h.Svc.Resources.ReplaceObject(r.Context(), resource, body)
	}
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.Metrics.StoreWrite(resource, r.Method)
	WriteJSON(w, http.StatusOK, rec)
}

// GetItem обрабатывает GET /{resource}/{id}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	resource, k, ok := h.kind(w, r)
	if !ok {
		return
	}
	if k != repository.Collection {
		h.writeDomainError(w, r, serr.ErrNotFound)
		return
	}

	rec, err := h.Svc.Resources.Get(r.Context(), resource, chi.URLParam(r, IDParam))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, rec)
}

// UpdateItem обрабатывает PUT (замена) и PATCH (слияние) /{resource}/{id}.
// id записи не меняется, даже если в теле передан другой.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	resource, k, ok := h.kind(w, r)
	if !ok {
		return
	}
	if k != repository.Collection {
		h.writeDomainError(w, r, serr.ErrNotFound)
		return
	}
	body, err := h.decodeObject(w, r)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	id := chi.URLParam(r, IDParam)
	var rec repository.Record
	if r.Method == http.MethodPatch {
		rec, err = h.Svc.Resources.Patch(r.Context(), resource, id, body)
	} else {
		rec, err = h.Svc.Resources.Replace(r.Context(), resource, id, body)
	}
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.Metrics.StoreWrite(resource, r.Method)
	WriteJSON(w, http.StatusOK, rec)
}

// DeleteItem обрабатывает DELETE /{resource}/{id}. Успех: пустой объект.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	resource, k, ok := h.kind(w, r)
	if !ok {
		return
	}
	if k != repository.Collection {
		h.writeDomainError(w, r, serr.ErrNotFound)
		return
	}

	if err := h.Svc.Resources.Delete(r.Context(), resource, chi.URLParam(r, IDParam)); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.Metrics.StoreWrite(resource, r.Method)
	WriteJSON(w, http.StatusOK, map[string]any{})
}
