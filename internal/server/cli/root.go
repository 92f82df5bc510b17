// Package cli реализует командный интерфейс сервера json-server-auth.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - загрузку .env и конфигурации сервера;
//   - запуск сервера и служебные команды (docs, rules, user add, version).
//
// Точка входа пакета: функция Execute. Без подкоманды запускается serve.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/config"
)

// DefaultConfigPath — путь к конфигу по умолчанию.
const DefaultConfigPath = "./configs/server.yaml"

// App содержит состояние CLI, разделяемое между командами.
type App struct {
	// ConfigPath — путь к server.yaml.
	ConfigPath string
	// DBPath — переопределение db.path из конфига.
	DBPath string
	// Port — переопределение PORT.
	Port string

	// Cfg — загруженный конфиг. Заполняется в PersistentPreRunE.
	Cfg *config.Config
}

// Load загружает .env и конфиг с учётом флагов.
func (a *App) Load() error {
	// .env необязателен
	_ = godotenv.Load()

	env := config.ProcessEnvironment()
	if a.Port != "" {
		env.Port = a.Port
	}
	cfg, err := config.Load(a.ConfigPath, env)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if a.DBPath != "" {
		cfg.DB.Path = a.DBPath
	}
	a.Cfg = cfg
	return nil
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются командой version.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "jsonserver",
		Short: "json-server-auth: mock REST API над JSON-файлом с JWT и правами доступа",
		Long: `json-server-auth.

Команды:
  serve     Запустить сервер (по умолчанию)
  docs      Напечатать OpenAPI-документ
  rules     Показать таблицу прав и покрытие ресурсов базы
  user add  Добавить пользователя в базу
  token     Получить access токен у запущенного сервера
  version   Версия и дата сборки

Примеры:
  jsonserver --db data/db.json --port 4000
  jsonserver rules
  jsonserver user add --email admin@mail.com --role admin
  jsonserver token --email admin@mail.com
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return app.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, app)
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", DefaultConfigPath, "path to server.yaml")
	cmd.PersistentFlags().StringVar(&app.DBPath, "db", "", "path to the JSON database (overrides db.path)")
	cmd.PersistentFlags().StringVar(&app.Port, "port", "", "port to listen on (overrides PORT)")

	cmd.AddCommand(NewServeCmd(app))
	cmd.AddCommand(NewDocsCmd(app))
	cmd.AddCommand(NewRulesCmd(app))
	cmd.AddCommand(NewUserCmd(app))
	cmd.AddCommand(NewTokenCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке сообщение выводится в stderr, процесс завершается с кодом 1.
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
