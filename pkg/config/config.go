package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Session store backends.
const (
	SessionStoreFile    = "file"
	SessionStoreRedis   = "redis"
	SessionStoreKeyring = "keyring"
	SessionStoreMemory  = "memory"
)

// Dev API storage backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	API      APIConfig
	Session  SessionConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	DevAPI   DevAPIConfig
	Enquiry  EnquiryConfig
	Exports  ExportsConfig
	Metrics  MetricsConfig
}

// APIConfig points the console at the council API.
type APIConfig struct {
	BaseURL  string
	Timeout  time.Duration
	PageSize int
}

// SessionConfig selects where the authenticated session is persisted between invocations.
type SessionConfig struct {
	Store       string
	FilePath    string
	RedisPrefix string
	TTL         time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DevAPIConfig configures the development stand-in for the council API.
type DevAPIConfig struct {
	Store         string
	Seed          bool
	AdminEmail    string
	AdminPassword string
}

// EnquiryConfig throttles and processes public enquiry submissions.
type EnquiryConfig struct {
	RatePerMinute int
	Burst         int
	Workers       int
}

// ExportsConfig controls where catalogue exports are written.
type ExportsConfig struct {
	Dir string
}

// MetricsConfig toggles Prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	pageSize := v.GetInt("PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 10
	}
	cfg.API = APIConfig{
		BaseURL:  strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout:  parseDuration(v.GetString("API_TIMEOUT"), 15*time.Second),
		PageSize: pageSize,
	}

	cfg.Session = SessionConfig{
		Store:       strings.ToLower(v.GetString("SESSION_STORE")),
		FilePath:    v.GetString("SESSION_FILE"),
		RedisPrefix: v.GetString("SESSION_REDIS_PREFIX"),
		TTL:         parseDuration(v.GetString("SESSION_TTL"), 7*24*time.Hour),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.DevAPI = DevAPIConfig{
		Store:         strings.ToLower(v.GetString("DEVAPI_STORE")),
		Seed:          v.GetBool("DEVAPI_SEED"),
		AdminEmail:    v.GetString("DEVAPI_ADMIN_EMAIL"),
		AdminPassword: v.GetString("DEVAPI_ADMIN_PASSWORD"),
	}

	cfg.Enquiry = EnquiryConfig{
		RatePerMinute: v.GetInt("ENQUIRY_RATE_PER_MINUTE"),
		Burst:         v.GetInt("ENQUIRY_BURST"),
		Workers:       v.GetInt("ENQUIRY_WORKERS"),
	}

	cfg.Exports = ExportsConfig{Dir: v.GetString("EXPORTS_DIR")}
	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("METRICS_ENABLED")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("API_BASE_URL", "http://localhost:8080/api/v1")
	v.SetDefault("API_TIMEOUT", "15s")
	v.SetDefault("PAGE_SIZE", 10)

	v.SetDefault("SESSION_STORE", SessionStoreFile)
	v.SetDefault("SESSION_FILE", "./.council/session.json")
	v.SetDefault("SESSION_REDIS_PREFIX", "council:session:")
	v.SetDefault("SESSION_TTL", "168h")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "council")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")

	v.SetDefault("DEVAPI_STORE", StoreMemory)
	v.SetDefault("DEVAPI_SEED", true)
	v.SetDefault("DEVAPI_ADMIN_EMAIL", "admin@council.local")
	v.SetDefault("DEVAPI_ADMIN_PASSWORD", "admin123")

	v.SetDefault("ENQUIRY_RATE_PER_MINUTE", 30)
	v.SetDefault("ENQUIRY_BURST", 5)
	v.SetDefault("ENQUIRY_WORKERS", 1)

	v.SetDefault("EXPORTS_DIR", "./exports")
	v.SetDefault("METRICS_ENABLED", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
