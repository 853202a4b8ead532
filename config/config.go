package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	BlobBackendLocal = "local"
	BlobBackendS3    = "s3"
)

type Config struct {
	Port         string
	Env          string
	FrontendURLs []string
	// Persistence
	DBUrl         string
	StorageDriver string
	AutoMigrate   bool
	// Document blobs
	BlobBackend string
	UploadDir   string
	S3Provider  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
	// Upload hardening
	RedisURL            string
	RedisPassword       string
	UploadRatePerMinute int
	ClamAVAddress       string
	// Integrations
	NATSUrl      string
	OTLPEndpoint string
	// HTTP
	RequestTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "3010"),
		Env:                 getEnv("APP_ENV", "development"),
		FrontendURLs:        splitList(getEnv("FRONTEND_URL", "http://localhost:3000")),
		DBUrl:               getEnv("DATABASE_URL", ""),
		StorageDriver:       strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		AutoMigrate:         getEnvBool("DB_AUTO_MIGRATE", true),
		BlobBackend:         strings.ToLower(getEnv("STORAGE_BACKEND", BlobBackendLocal)),
		UploadDir:           getEnv("UPLOAD_DIR", "uploads/candidates"),
		S3Provider:          getEnv("S3_PROVIDER", "aws"),
		S3Region:            getEnv("S3_REGION", "us-east-1"),
		S3Bucket:            getEnv("S3_BUCKET", ""),
		S3AccessKey:         getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:         getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Endpoint:          getEnv("WASABI_ENDPOINT", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		UploadRatePerMinute: getEnvInt("UPLOAD_RATE_PER_MINUTE", 10),
		ClamAVAddress:       getEnv("CLAMAV_ADDRESS", ""),
		NATSUrl:             getEnv("NATS_URL", ""),
		OTLPEndpoint:        getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		RequestTimeout:      getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
	}

	if cfg.StorageDriver == StorageDriverPostgres && cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Set STORAGE_DRIVER=memory to run without PostgreSQL.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Upload rate limiting is disabled.")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// splitList parses a comma separated list, dropping blanks and trailing slashes.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimRight(strings.TrimSpace(part), "/")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
