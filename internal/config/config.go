package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры сервиса. Обязательные значения проверяются
// при старте: без них сервис не поднимется.
type Config struct {
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:"0.0.0.0:8000"`
	SecureCookies bool   `env:"SECURE_COOKIES" envDefault:"false"`

	DatabaseDSN   string `env:"DB_CONNECT_DSN,notEmpty"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"./cockroachdb/migrations"`

	JWT   JWT   `envPrefix:"JWT_"`
	VK    VK    `envPrefix:"VK_"`
	State State `envPrefix:"STATE_"`
	Minio Minio `envPrefix:"MINIO_"`
}

// JWT содержит параметры подписи токенов сессии.
type JWT struct {
	Secret   string        `env:"SECRET,notEmpty"`
	Lifetime time.Duration `env:"LIFETIME" envDefault:"720h"`
}

// VK содержит параметры OAuth-приложения ВКонтакте.
type VK struct {
	ClientID     string        `env:"CLIENT_ID,notEmpty"`
	ClientSecret string        `env:"CLIENT_SECRET,notEmpty"`
	RedirectURL  string        `env:"REDIRECT_URL,notEmpty"`
	APIVersion   string        `env:"API_VERSION" envDefault:"5.131"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// State содержит параметры хранилища одноразовых OAuth state.
// Если RedisAddr пуст, используется хранилище в памяти процесса —
// этого достаточно только при развёртывании в один инстанс.
type State struct {
	TTL       time.Duration `env:"TTL" envDefault:"10m"`
	RedisAddr string        `env:"REDIS_ADDR"`
}

// Minio содержит параметры объектного хранилища для фотографий профиля.
type Minio struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY,notEmpty"`
	SecretKey string `env:"SECRET_KEY,notEmpty"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// NewConfig загружает конфигурацию из переменных окружения.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
