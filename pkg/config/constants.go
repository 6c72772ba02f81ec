package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	StorageBackendFile   = "file"
	StorageBackendRedis  = "redis"
	StorageBackendMemory = "memory"

	EnvAppEnv         = "STOREFRONT_APP_ENV"
	EnvAPIBaseURL     = "STOREFRONT_API_BASE_URL"
	EnvStorageBackend = "STOREFRONT_STORAGE_BACKEND"
	EnvStorageDir     = "STOREFRONT_STORAGE_DIR"
	EnvRedisURL       = "STOREFRONT_REDIS_URL"
)
