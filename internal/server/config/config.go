// Package config отвечает за:
// - чтение server.yaml
// - подстановку переменных окружения вида ${JWT_SECRET_KEY}
// - проставление дефолтов
// - применение снимка окружения (PORT, NODE_ENV, *_BASE_URL)
// - валидацию (чтобы сервер не стартовал с дырявыми настройками)
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/rules"
)

// DevSigningKey — ключ подписи по умолчанию для локальной разработки.
// В production сервер с этим ключом не стартует.
const DevSigningKey = "json-server-auth-development-signing-key"

// Config — корневая структура всего конфига сервера.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Auth    AuthConfig    `yaml:"auth"`
	Rules   RulesConfig   `yaml:"rules"`
	Docs    DocsConfig    `yaml:"docs"`
	Static  StaticConfig  `yaml:"static"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`

	// Env — снимок окружения, из которого конфиг был собран.
	Env Environment `yaml:"-"`
	// BaseURL — вычисленный базовый URL для документации.
	BaseURL string `yaml:"-"`
}

// ServerConfig — настройки HTTP-сервера.
type ServerConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"` // время на graceful shutdown
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`   // лимит размера тела запроса
}

// DBConfig — JSON-файл, который служит базой данных.
type DBConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"` // перечитывать файл при внешних изменениях
}

// AuthConfig — настройки аутентификации.
type AuthConfig struct {
	Issuer         string         `yaml:"issuer"`
	Audience       string         `yaml:"audience"`
	AccessTTL      time.Duration  `yaml:"access_ttl"`
	JWT            JWTConfig      `yaml:"jwt"`
	Password       PasswordConfig `yaml:"password"`
	MinPasswordLen int            `yaml:"min_password_len"`
}

// JWTConfig — как подписываем JWT.
type JWTConfig struct {
	Algorithm  string `yaml:"algorithm"`   // поддерживаем только HS256
	SigningKey string `yaml:"signing_key"` // может содержать ${JWT_SECRET_KEY}
}

// PasswordConfig — настройки хэширования паролей пользователей.
type PasswordConfig struct {
	Hasher string       `yaml:"hasher"` // bcrypt|argon2id
	Bcrypt BcryptConfig `yaml:"bcrypt"`
	Argon2 Argon2Config `yaml:"argon2"`
}

// BcryptConfig — параметры bcrypt.
type BcryptConfig struct {
	Cost int `yaml:"cost"`
}

// Argon2Config — параметры argon2id.
type Argon2Config struct {
	Time      uint32 `yaml:"time"`
	MemoryKiB uint32 `yaml:"memory_kib"`
	Threads   uint8  `yaml:"threads"`
	KeyLen    uint32 `yaml:"key_len"`
	SaltLen   uint32 `yaml:"salt_len"`
}

// RulesConfig — таблица прав доступа к ресурсам.
type RulesConfig struct {
	// Table — ресурс -> трёхзначный код (owner/logged/public), например books: 664.
	Table map[string]int `yaml:"table"`
	// Default: код для ресурсов базы, которых нет в таблице. nil: без ограничений.
	Default *int `yaml:"default"`
	// Strict — не стартовать, если в базе есть ресурс без правила.
	Strict bool `yaml:"strict"`
}

// DocsConfig — настройки документации API.
type DocsConfig struct {
	Path           string `yaml:"path"`            // страница swagger-ui
	JSONPath       string `yaml:"json_path"`       // сырой документ
	AnnotationsDir string `yaml:"annotations_dir"` // дополнительные yaml-фрагменты маршрутов
}

// StaticConfig — раздача статических файлов (как public/ у json-server).
type StaticConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// LogConfig — настройки логирования (zap).
type LogConfig struct {
	Level   string `yaml:"level"` // debug|info|warn|error
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// MetricsConfig — prometheus.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load читает YAML, подставляет переменные окружения вида ${VAR},
// затем парсит в структуру, проставляет дефолты, применяет снимок окружения
// и валидирует.
//
// Если файла нет, используется конфиг по умолчанию.
func Load(path string, env Environment) (*Config, error) {
	var cfg Config

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		// signing_key: "${JWT_SECRET_KEY}" -> signing_key: "реальное_значение"
		expanded := ExpandEnvStrict(string(raw))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("не удалось распарсить yaml: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// работаем на дефолтах
	default:
		return nil, fmt.Errorf("не удалось прочитать конфиг: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := cfg.ApplyEnvironment(env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ExpandEnvStrict заменяет ${VAR} на значение из окружения.
// Если переменная не задана, оставляем ${VAR} как есть,
// а потом Validate() упадёт с понятной ошибкой.
func ExpandEnvStrict(s string) string {
	re := regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)
	return re.ReplaceAllStringFunc(s, func(m string) string {
		sub := re.FindStringSubmatch(m)
		if len(sub) != 2 {
			return m
		}
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		return m
	})
}

// ApplyDefaults — дефолтные значения, если в yaml поле не задано.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.DB.Path == "" {
		cfg.DB.Path = "data/db.json"
	}
	if cfg.Auth.AccessTTL == 0 {
		cfg.Auth.AccessTTL = time.Hour
	}
	if cfg.Auth.JWT.Algorithm == "" {
		cfg.Auth.JWT.Algorithm = "HS256"
	}
	if cfg.Auth.Password.Hasher == "" {
		cfg.Auth.Password.Hasher = "bcrypt"
	}
	if cfg.Auth.Password.Bcrypt.Cost == 0 {
		cfg.Auth.Password.Bcrypt.Cost = 10
	}
	if cfg.Auth.MinPasswordLen == 0 {
		cfg.Auth.MinPasswordLen = 4
	}
	if cfg.Rules.Table == nil {
		cfg.Rules.Table = rules.DefaultRules()
	}
	if cfg.Docs.Path == "" {
		cfg.Docs.Path = "/api-docs"
	}
	if cfg.Docs.JSONPath == "" {
		cfg.Docs.JSONPath = cfg.Docs.Path + ".json"
	}
	if cfg.Static.Dir == "" {
		cfg.Static.Dir = "public"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// ApplyEnvironment переносит снимок окружения в конфиг и вычисляет BaseURL.
//
// PORT переопределяет server.port, JWT_SECRET_KEY: ключ подписи.
// Если ключ так и не задан, берётся DevSigningKey (Validate не пропустит его в production).
func (c *Config) ApplyEnvironment(env Environment) error {
	c.Env = env

	if env.Port != "" {
		p, err := env.PortNumber()
		if err != nil {
			return err
		}
		c.Server.Port = p
	} else {
		// адрес документации должен совпадать с реальным портом
		c.Env.Port = fmt.Sprint(c.Server.Port)
	}

	if env.JWTSecretKey != "" {
		c.Auth.JWT.SigningKey = env.JWTSecretKey
	}
	if strings.TrimSpace(c.Auth.JWT.SigningKey) == "" {
		c.Auth.JWT.SigningKey = DevSigningKey
	}

	base, err := ResolveBaseURL(c.Env)
	if err != nil {
		return err
	}
	c.BaseURL = base
	return nil
}

// Validate проверяет, что конфиг заполнен корректно и безопасно.
// Если что-то не так, возвращаем ошибку и сервер НЕ стартует.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port некорректен: %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New("server.max_body_bytes не может быть отрицательным")
	}
	if strings.TrimSpace(c.DB.Path) == "" {
		return errors.New("db.path обязателен")
	}

	// JWT
	alg := strings.ToUpper(strings.TrimSpace(c.Auth.JWT.Algorithm))
	if alg != "HS256" {
		return fmt.Errorf("auth.jwt.algorithm должен быть HS256 (сейчас %q)", c.Auth.JWT.Algorithm)
	}
	key := strings.TrimSpace(c.Auth.JWT.SigningKey)
	// Если ${JWT_SECRET_KEY} не подставился, значит переменная окружения не задана
	if strings.Contains(key, "${") && strings.Contains(key, "}") {
		return fmt.Errorf("auth.jwt.signing_key содержит неподставленную переменную: %q (нужно задать JWT_SECRET_KEY)", key)
	}
	if len(key) < 32 {
		return fmt.Errorf("auth.jwt.signing_key слишком короткий (%d символов); нужно >= 32", len(key))
	}
	if c.Env.IsProduction() && key == DevSigningKey {
		return errors.New("в production нужно задать собственный JWT_SECRET_KEY")
	}
	if c.Auth.AccessTTL <= 0 {
		return errors.New("auth.access_ttl должен быть > 0")
	}
	if c.Auth.MinPasswordLen < 1 {
		return errors.New("auth.min_password_len должен быть >= 1")
	}

	// Хэширование паролей
	switch strings.ToLower(c.Auth.Password.Hasher) {
	case "bcrypt":
		if c.Auth.Password.Bcrypt.Cost < 4 || c.Auth.Password.Bcrypt.Cost > 31 {
			return fmt.Errorf("auth.password.bcrypt.cost вне диапазона 4..31: %d", c.Auth.Password.Bcrypt.Cost)
		}
	case "argon2id":
		a := c.Auth.Password.Argon2
		if a.Time == 0 || a.MemoryKiB == 0 || a.Threads == 0 || a.KeyLen == 0 || a.SaltLen == 0 {
			return errors.New("auth.password.argon2 должен быть настроен для argon2id")
		}
	default:
		return fmt.Errorf("auth.password.hasher должен быть bcrypt|argon2id (сейчас %q)", c.Auth.Password.Hasher)
	}

	// Правила доступа
	if _, err := rules.NewTable(c.Rules.Table); err != nil {
		return fmt.Errorf("rules.table: %w", err)
	}
	if c.Rules.Default != nil {
		if _, err := rules.ParsePermission(*c.Rules.Default); err != nil {
			return fmt.Errorf("rules.default: %w", err)
		}
	}

	// Документация
	if !strings.HasPrefix(c.Docs.Path, "/") || !strings.HasPrefix(c.Docs.JSONPath, "/") {
		return errors.New("docs.path и docs.json_path должны начинаться с /")
	}
	if c.Docs.Path == c.Docs.JSONPath {
		return errors.New("docs.path и docs.json_path должны различаться")
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("metrics.path должен начинаться с /")
	}

	return nil
}

// Addr возвращает адрес, который слушает сервер.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
