package configsapp

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application settings read from the environment.
type Config struct {
	Env     string
	Port    string
	BaseURL string // Public site URL, used in the sitemap and email links

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimeZone string

	JWTSecret         string
	JWTTTL            time.Duration
	OTPTTL            time.Duration
	OTPResendCooldown time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NATSURL string // Empty disables event publishing

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	SitemapPingURLs []string
	UploadDir       string
	CORSOrigins     string
	ProxyHeader     string // e.g. X-Forwarded-For behind a load balancer
	MetricsEnabled  bool

	AdminEmail    string
	AdminPassword string
}

var (
	cfg     *Config
	cfgOnce sync.Once
)

// Load reads .env (if present) once and returns the process-wide config.
func Load() *Config {
	cfgOnce.Do(func() {
		_ = godotenv.Load() // .env is optional; real env wins
		cfg = FromEnv()
	})
	return cfg
}

// FromEnv builds a Config from the current environment without caching.
func FromEnv() *Config {
	return &Config{
		Env:     getEnvString("APP_ENV", "development"),
		Port:    getEnvString("APP_PORT", "3000"),
		BaseURL: strings.TrimRight(getEnvString("APP_BASE_URL", "http://localhost:3000"), "/"),

		DBHost:     getEnvString("DB_HOST", "localhost"),
		DBPort:     getEnvString("DB_PORT", "5432"),
		DBUser:     getEnvString("DB_USER", "postgres"),
		DBPassword: getEnvString("DB_PASSWORD", ""),
		DBName:     getEnvString("DB_NAME", "marinehub"),
		DBSSLMode:  getEnvString("DB_SSLMODE", "disable"),
		DBTimeZone: getEnvString("DB_TIMEZONE", "UTC"),

		JWTSecret:         getEnvString("JWT_SECRET", ""),
		JWTTTL:            getEnvDuration("JWT_TTL", 24*time.Hour),
		OTPTTL:            getEnvDuration("OTP_TTL", 10*time.Minute),
		OTPResendCooldown: getEnvDuration("OTP_RESEND_COOLDOWN", time.Minute),

		RedisAddr:     getEnvString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		NATSURL: getEnvString("NATS_URL", ""),

		SMTPHost:     getEnvString("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnvString("SMTP_USER", ""),
		SMTPPassword: getEnvString("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnvString("SMTP_FROM", "no-reply@marinehub.app"),

		SitemapPingURLs: splitList(getEnvString("SITEMAP_PING_URLS", "https://www.google.com/ping,https://www.bing.com/ping")),
		UploadDir:       getEnvString("UPLOAD_DIR", "./uploads"),
		CORSOrigins:     getEnvString("CORS_ORIGINS", "*"),
		ProxyHeader:     getEnvString("PROXY_HEADER", ""),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),

		AdminEmail:    getEnvString("ADMIN_EMAIL", "admin@marinehub.app"),
		AdminPassword: getEnvString("ADMIN_PASSWORD", ""),
	}
}

// IsProduction reports whether APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
