package api

import (
	"net/http"
)

// DocsJSON отдаёт собранный OpenAPI-документ как есть.
func (h *Handler) DocsJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.Docs.JSON())
}

// DocsRedirect отправляет /api-docs на страницу swagger UI.
func DocsRedirect(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	}
}
