package http

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/api"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/config"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/docs"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/repository"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/rules"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/service"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/logger"
)

// Server — собранный сервер: роутер и то, что нужно жизненному циклу.
type Server struct {
	Handler http.Handler
	Store   *repository.JSONStore
	Rules   *rules.Table
	Doc     *docs.Document
	Metrics *metrics.Metrics
	BaseURL string
	DocsURL string
}

// Assemble собирает сервер из конфига.
//
// Шаги: база -> таблица правил (покрытие ресурсов базы) -> документация ->
// сервисы -> guard -> роутер. Битые фрагменты документации не мешают
// старту, непокрытые правилами ресурсы в strict-режиме мешают.
func Assemble(cfg *config.Config, log *logger.HTTPLogger, m *metrics.Metrics) (*Server, error) {
	if log == nil {
		log = logger.NewNop()
	}
	sugar := log.Logger.Sugar()

	store, err := repository.Open(cfg.DB.Path, log, repository.WithReloadHook(func(err error) {
		m.StoreReloaded(err)
	}))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	m.SetResources(len(store.Resources()))

	table, err := BuildRules(cfg, store.Resources(), log)
	if err != nil {
		return nil, err
	}

	doc, _ := BuildDocs(cfg, log, m)

	svc, err := service.NewServices(service.Repositories{
		Users: repository.NewUsersRepository(store),
		Store: store,
	}, cfg)
	if err != nil {
		return nil, err
	}

	verifier := middleware.NewJWTVerifier(cfg.Auth.JWT.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	guard := middleware.NewGuard(verifier, svc.Resources, m, log, cfg.Server.MaxBodyBytes)
	h := api.NewHandler(svc, log, doc, m, cfg.Server.MaxBodyBytes)

	opts := RouterOptions{
		Handler:      h,
		Rules:        table,
		Guard:        guard,
		Metrics:      m,
		Log:          log,
		DocsPath:     cfg.Docs.Path,
		DocsJSONPath: cfg.Docs.JSONPath,
	}
	if cfg.Static.Enabled {
		opts.StaticDir = cfg.Static.Dir
	}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
	}

	sugar.Infow("server assembled",
		"db", store.Path(),
		"resources", strings.Join(store.Resources(), ","),
		"rules", len(table.Resources()),
	)

	return &Server{
		Handler: NewRouter(opts),
		Store:   store,
		Rules:   table,
		Doc:     doc,
		Metrics: m,
		BaseURL: cfg.BaseURL,
		DocsURL: cfg.BaseURL + cfg.Docs.Path,
	}, nil
}

// BuildRules строит таблицу из конфига и покрывает ею ресурсы базы.
func BuildRules(cfg *config.Config, resources []string, log *logger.HTTPLogger) (*rules.Table, error) {
	table, err := rules.NewTable(cfg.Rules.Table)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	covered, uncovered, err := table.Cover(resources, cfg.Rules.Default, cfg.Rules.Strict)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	for _, name := range uncovered {
		log.Logger.Sugar().Warnw("resource has no permission rule, access is unrestricted", "resource", name)
	}
	return covered, nil
}

// BuildDocs собирает OpenAPI-документ из встроенных фрагментов и,
// если задан, каталога docs.annotations_dir. Пропущенные фрагменты
// логируются, учитываются в метриках и возвращаются вторым значением.
func BuildDocs(cfg *config.Config, log *logger.HTTPLogger, m *metrics.Metrics) (*docs.Document, []error) {
	sources := []fs.FS{docs.Annotations()}
	if cfg.Docs.AnnotationsDir != "" {
		sources = append(sources, os.DirFS(cfg.Docs.AnnotationsDir))
	}

	doc, errs := docs.Build(docs.NewDescriptor(cfg.BaseURL, cfg.Env.Label()), sources...)
	for _, err := range errs {
		m.DocFragment(metrics.FragmentSkipped)
		log.Logger.Sugar().Warnw("documentation fragment skipped", "error", err)
	}
	for i := 0; i < doc.Fragments(); i++ {
		m.DocFragment(metrics.FragmentApplied)
	}
	return doc, errs
}
