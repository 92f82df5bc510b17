package api

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Пути документации.
const (
	DefaultDocsPath     = "/api-docs"
	DefaultDocsJSONPath = "/api-docs.json"
)

// MountDocs регистрирует документацию:
//   - docsPath: редирект на swagger UI;
//   - docsPath/*: swagger UI (http-swagger), документ берётся из jsonPath;
//   - jsonPath: сам документ.
func (h *Handler) MountDocs(r chi.Router, docsPath, jsonPath string) {
	if docsPath == "" {
		docsPath = DefaultDocsPath
	}
	if jsonPath == "" {
		jsonPath = DefaultDocsJSONPath
	}

	r.Get(jsonPath, h.DocsJSON)
	r.Get(docsPath, DocsRedirect(docsPath+"/index.html"))
	r.Get(docsPath+"/*", httpSwagger.Handler(
		httpSwagger.URL(jsonPath),
		httpSwagger.InstanceName(h.Docs.Register()),
	))
}

// MountAuth регистрирует регистрацию и логин. /signup и /signin: синонимы.
func (h *Handler) MountAuth(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/signup", h.Register)
	r.Post("/login", h.Login)
	r.Post("/signin", h.Login)
}

// MountResources регистрирует CRUD над ресурсами базы.
// Должен вызываться последним: /{resource} перехватывает всё остальное.
func (h *Handler) MountResources(r chi.Router) {
	r.Route("/{"+ResourceParam+"}", func(r chi.Router) {
		r.Get("/", h.ListResource)
		r.Post("/", h.CreateResource)
		r.Put("/", h.UpdateResource)
		r.Patch("/", h.UpdateResource)

		r.Get("/{"+IDParam+"}", h.GetItem)
		r.Put("/{"+IDParam+"}", h.UpdateItem)
		r.Patch("/{"+IDParam+"}", h.UpdateItem)
		r.Delete("/{"+IDParam+"}", h.DeleteItem)
	})
}
