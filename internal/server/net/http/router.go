// Package http собирает HTTP-слой сервера json-server-auth.
//
// Пакет отвечает за:
//   - порядок middleware и маршрутов (NewRouter);
//   - сборку всех зависимостей сервера из конфига (Assemble).
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/api"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/rules"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/logger"
)

// RouterOptions — всё, из чего собирается роутер.
type RouterOptions struct {
	Handler *api.Handler
	Rules   *rules.Table
	Guard   *middleware.Guard
	Metrics *metrics.Metrics
	Log     *logger.HTTPLogger

	// StaticDir: каталог статики, пусто: статика выключена.
	StaticDir string
	// DocsPath, DocsJSONPath — страница swagger-ui и сырой документ.
	DocsPath     string
	DocsJSONPath string
	// MetricsPath: путь prometheus, пусто: не публикуется.
	MetricsPath string
}

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Порядок важен и не меняется:
//  1. стандартные middleware (request id, real ip, recoverer, HEAD как GET,
//     лог, метрики, CORS, no-cache, статика);
//  2. rewriter правил доступа: кладёт правило ресурса в контекст;
//  3. guard: принимает решение по правилу до любого обработчика;
//  4. документация, /metrics и эндпоинты аутентификации;
//  5. CRUD над ресурсами базы, последним, так как ловит всё остальное.
//
// Если guard окажется после CRUD, запись без прав дойдёт до хранилища.
func NewRouter(o RouterOptions) http.Handler {
	r := chi.NewRouter()

	// 1. стандартные middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.LoggerMiddleware(o.Log))
	r.Use(o.Metrics.Middleware())
	r.Use(middleware.CORS())
	r.Use(middleware.NoCache)
	r.Use(middleware.Static(o.StaticDir))

	// 2. правило ресурса в контекст
	r.Use(o.Rules.Rewriter())
	// 3. проверка прав
	r.Use(o.Guard.Middleware())

	// 4. документация, метрики, аутентификация
	o.Handler.MountDocs(r, o.DocsPath, o.DocsJSONPath)
	if o.MetricsPath != "" {
		r.Method(http.MethodGet, o.MetricsPath, o.Metrics.Handler())
	}
	o.Handler.MountAuth(r)

	// 5. CRUD
	o.Handler.MountResources(r)

	return r
}
