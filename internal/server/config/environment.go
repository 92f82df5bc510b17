package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultPort — порт, если PORT не задан.
const DefaultPort = 3000

// ErrProductionBaseURL — в production не задан PRODUCTION_BASE_URL.
var ErrProductionBaseURL = errors.New("PRODUCTION_BASE_URL обязателен при NODE_ENV=production")

// Environment — снимок переменных окружения, от которых зависит сервер.
//
// Снимок делается один раз при старте, дальше все вычисления идут от него,
// а не от os.Getenv. Так их можно тестировать без изменения окружения процесса.
type Environment struct {
	Port               string // PORT
	NodeEnv            string // NODE_ENV
	ProductionBaseURL  string // PRODUCTION_BASE_URL
	DevelopmentBaseURL string // DEVELOPMENT_BASE_URL
	JWTSecretKey       string // JWT_SECRET_KEY
}

// LookupFunc совпадает по сигнатуре с os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvironmentFrom собирает снимок окружения через переданную функцию поиска.
func EnvironmentFrom(lookup LookupFunc) Environment {
	get := func(k string) string {
		v, _ := lookup(k)
		return strings.TrimSpace(v)
	}
	return Environment{
		Port:               get("PORT"),
		NodeEnv:            get("NODE_ENV"),
		ProductionBaseURL:  get("PRODUCTION_BASE_URL"),
		DevelopmentBaseURL: get("DEVELOPMENT_BASE_URL"),
		JWTSecretKey:       get("JWT_SECRET_KEY"),
	}
}

// ProcessEnvironment — снимок окружения текущего процесса.
func ProcessEnvironment() Environment {
	return EnvironmentFrom(os.LookupEnv)
}

// IsProduction сообщает, включён ли production-режим.
func (e Environment) IsProduction() bool {
	return e.NodeEnv == "production"
}

// Label — название окружения для описания сервера в документации.
func (e Environment) Label() string {
	if e.NodeEnv == "" {
		return "development"
	}
	return e.NodeEnv
}

// PortNumber возвращает порт числом (DefaultPort, если PORT пуст).
func (e Environment) PortNumber() (int, error) {
	if e.Port == "" {
		return DefaultPort, nil
	}
	p, err := strconv.Atoi(e.Port)
	if err != nil || p <= 0 || p > 65535 {
		return 0, fmt.Errorf("PORT некорректен: %q", e.Port)
	}
	return p, nil
}

// ResolveBaseURL вычисляет базовый URL API.
//
// Правило:
//   - production: PRODUCTION_BASE_URL, без него ошибка;
//   - иначе DEVELOPMENT_BASE_URL;
//   - иначе http://localhost:<PORT>, PORT по умолчанию 3000.
//
// Функция чистая: одинаковый снимок всегда даёт одинаковый результат.
func ResolveBaseURL(env Environment) (string, error) {
	if env.IsProduction() {
		if env.ProductionBaseURL == "" {
			return "", ErrProductionBaseURL
		}
		return strings.TrimRight(env.ProductionBaseURL, "/"), nil
	}
	if env.DevelopmentBaseURL != "" {
		return strings.TrimRight(env.DevelopmentBaseURL, "/"), nil
	}
	port, err := env.PortNumber()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("http://localhost:%d", port), nil
}
