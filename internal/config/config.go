package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DevAPIURL — адрес бэкенда по умолчанию для локальной разработки.
const DevAPIURL = "http://localhost:4000/api"

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"prod"` // dev|prod

	Log      string `env:"LOG"`
	LogLevel string `env:"LOGLEVEL" envDefault:"info"`
	LogDir   string `env:"LOG_DIR" envDefault:"logs"`

	// Бэкенд контента
	APIURL     string        `env:"API_URL"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	APIRPS     float64       `env:"API_RPS" envDefault:"20"`
	APIBurst   int           `env:"API_BURST" envDefault:"40"`

	// Формы и медиа
	MaxUploadMB       int64 `env:"MAX_UPLOAD_MB" envDefault:"50"`
	MaxImageDimension int   `env:"MAX_IMAGE_DIMENSION" envDefault:"2560"`

	// Черновики (необязательно): без DB_HOST хранятся в памяти
	DbHost    string `env:"DB_HOST"`
	DbPort    string `env:"DB_PORT" envDefault:"5432"`
	DbUser    string `env:"DB_USER"`
	DbPass    string `env:"DB_PASSWORD"`
	DbName    string `env:"DB_NAME"`
	DbSSLMode string `env:"DB_SSLMODE" envDefault:"disable"`
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("разбор переменных окружения: %w", err)
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	// адрес бэкенда: API_URL, затем переменная фронтенда, затем dev-дефолт
	if strings.TrimSpace(cfg.APIURL) == "" {
		cfg.APIURL = strings.TrimSpace(os.Getenv("NEXT_PUBLIC_API_URL"))
	}
	if cfg.APIURL == "" && cfg.IsDev() {
		cfg.APIURL = DevAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	return cfg, nil
}

func (c *Config) IsDev() bool { return c.Env == "dev" }

// DraftsInDB — черновики хранятся в Postgres.
func (c *Config) DraftsInDB() bool { return c.DbHost != "" }

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// Критично: без адреса бэкенда консоль бесполезна
	if c.APIURL == "" {
		return nil, fmt.Errorf("API_URL is not set")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return nil, fmt.Errorf("API_URL must be an http(s) URL, got %q", c.APIURL)
	}

	if c.DraftsInDB() && (c.DbUser == "" || c.DbName == "") {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}
	if !c.DraftsInDB() {
		warnings = append(warnings, "DB_HOST is empty, drafts are kept in memory")
	}

	if c.APIRPS <= 0 {
		warnings = append(warnings, "API_RPS <= 0, outbound rate limit disabled")
	}
	if !c.IsDev() && strings.HasPrefix(c.APIURL, "http://") {
		warnings = append(warnings, "API_URL uses plain http in production")
	}

	return warnings, nil
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
