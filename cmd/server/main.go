// Package main содержит точку входа сервера json-server-auth.
//
// Пакет отвечает только за передачу информации о версии и дате сборки
// в CLI-слой. Инициализация и жизненный цикл сервера реализованы в
// internal/server/cli (команда serve).
package main

import "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/cli"

var (
	// buildVersion содержит версию приложения, передаваемую при сборке.
	// По умолчанию используется значение "dev".
	buildVersion = "dev"
	// buildDate содержит дату сборки приложения.
	// По умолчанию используется значение "unknown".
	buildDate = "unknown"
)

func main() {
	cli.Execute(buildVersion, buildDate)
}
