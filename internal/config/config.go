package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"wedding-app-go/pkg/logger"
)

const (
	RealtimeDriverMemory   = "memory"
	RealtimeDriverRedis    = "redis"
	RealtimeDriverPostgres = "postgres"
)

type Config struct {
	HTTPPort           string
	Env                string
	OfflineSyncEnabled bool
	CORSOrigins        []string
	WeddingCacheTTL    time.Duration
	DB                 DBConfig
	Supabase           SupabaseConfig
	Storage            StorageConfig
	Realtime           RealtimeConfig
	Notify             NotifyConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SupabaseConfig struct {
	URL            string
	PublishableKey string
	ServiceKey     string
	JWTSecret      string
	AuthTimeout    time.Duration
	SkipAuth       bool
	MockUserID     string
	MockUserEmail  string
	MockUserName   string
	MockUserAvatar string
}

type StorageConfig struct {
	Bucket         string
	RequestTimeout time.Duration
	MaxUploadBytes int64
}

type RealtimeConfig struct {
	Driver            string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	SubscriberBuffer  int
	PingInterval      time.Duration
	MinReconnect      time.Duration
	MaxReconnect      time.Duration
	AllowedWSOrigins  []string
	WriteWaitDuration time.Duration
}

type NotifyConfig struct {
	EmailFunction   string
	RequestTimeout  time.Duration
	WhatsAppEnabled bool
	WhatsAppDataDir string
	PublicRSVPURL   string
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		OfflineSyncEnabled: getEnvBool("OFFLINE_SYNC_ENABLED", true),
		CORSOrigins:        getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		WeddingCacheTTL:    getEnvDuration("WEDDING_CACHE_TTL", 30*time.Second),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "wedding_app"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Supabase: SupabaseConfig{
			URL:            strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
			PublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", getEnv("VITE_SUPABASE_PUBLISHABLE_KEY", "")),
			ServiceKey:     getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			JWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
			AuthTimeout:    getEnvDuration("SUPABASE_AUTH_TIMEOUT", 5*time.Second),
			SkipAuth:       getEnvBool("AUTH_SKIP", false),
			MockUserID:     getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUserEmail:  getEnv("AUTH_MOCK_USER_EMAIL", ""),
			MockUserName:   getEnv("AUTH_MOCK_USER_NAME", ""),
			MockUserAvatar: getEnv("AUTH_MOCK_USER_AVATAR_URL", ""),
		},
		Storage: StorageConfig{
			Bucket:         getEnv("STORAGE_BUCKET", "wedding-media"),
			RequestTimeout: getEnvDuration("STORAGE_REQUEST_TIMEOUT", 30*time.Second),
			MaxUploadBytes: int64(getEnvInt("STORAGE_MAX_UPLOAD_BYTES", 10<<20)),
		},
		Realtime: RealtimeConfig{
			Driver:            strings.ToLower(getEnv("REALTIME_DRIVER", RealtimeDriverMemory)),
			RedisAddr:         getEnv("REDIS_URL", "localhost:6379"),
			RedisPassword:     getEnv("REDIS_PASSWORD", ""),
			RedisDB:           getEnvInt("REDIS_DB", 0),
			SubscriberBuffer:  getEnvInt("REALTIME_SUBSCRIBER_BUFFER", 64),
			PingInterval:      getEnvDuration("REALTIME_PING_INTERVAL", 30*time.Second),
			MinReconnect:      getEnvDuration("REALTIME_PG_MIN_RECONNECT", 10*time.Second),
			MaxReconnect:      getEnvDuration("REALTIME_PG_MAX_RECONNECT", time.Minute),
			AllowedWSOrigins:  getEnvList("REALTIME_ALLOWED_ORIGINS", nil),
			WriteWaitDuration: getEnvDuration("REALTIME_WRITE_WAIT", 10*time.Second),
		},
		Notify: NotifyConfig{
			EmailFunction:   getEnv("NOTIFY_EMAIL_FUNCTION", "send-email"),
			RequestTimeout:  getEnvDuration("NOTIFY_REQUEST_TIMEOUT", 10*time.Second),
			WhatsAppEnabled: getEnvBool("WHATSAPP_ENABLED", false),
			WhatsAppDataDir: getEnv("WHATSAPP_DATA_DIR", "data"),
			PublicRSVPURL:   strings.TrimRight(getEnv("PUBLIC_RSVP_URL", "http://localhost:5173/rsvp"), "/"),
		},
	}

	switch cfg.Realtime.Driver {
	case RealtimeDriverMemory, RealtimeDriverRedis, RealtimeDriverPostgres:
	default:
		return Config{}, fmt.Errorf("unknown REALTIME_DRIVER %q", cfg.Realtime.Driver)
	}

	// websocket upgrades follow the REST origin policy unless set apart
	if len(cfg.Realtime.AllowedWSOrigins) == 0 {
		cfg.Realtime.AllowedWSOrigins = append([]string(nil), cfg.CORSOrigins...)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
