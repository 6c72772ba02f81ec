package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Storage StorageConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Cart    CartConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL        string        `envconfig:"STOREFRONT_API_BASE_URL" default:"http://localhost:8080/api/v1"`
	RequestTimeout time.Duration `envconfig:"STOREFRONT_API_REQUEST_TIMEOUT" default:"15s"`
	SignInPath     string        `envconfig:"STOREFRONT_SIGNIN_PATH" default:"/auth/sign-in"`
	ErrorPath      string        `envconfig:"STOREFRONT_ERROR_PATH" default:"/error"`
}

// StorageConfig selects the persistence surface for tokens and the cart.
type StorageConfig struct {
	Backend string `envconfig:"STOREFRONT_STORAGE_BACKEND" default:"file"`
	Dir     string `envconfig:"STOREFRONT_STORAGE_DIR" default:".storefront"`
}

func (s StorageConfig) validate() error {
	switch s.Backend {
	case StorageBackendFile, StorageBackendRedis, StorageBackendMemory:
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q", s.Backend)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig is consumed by the development stub backend when minting tokens.
type JWTConfig struct {
	Secret                 string `envconfig:"STOREFRONT_JWT_SECRET" default:"dev-secret"`
	Issuer                 string `envconfig:"STOREFRONT_JWT_ISSUER" default:"packfinderz-storefront"`
	ExpirationMinutes      int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"15"`
	RefreshTokenTTLMinutes int    `envconfig:"STOREFRONT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type CartConfig struct {
	AddDebounce time.Duration `envconfig:"STOREFRONT_CART_ADD_DEBOUNCE" default:"300ms"`
}
