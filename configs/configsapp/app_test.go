package configsapp

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("OTP_TTL", "")
	t.Setenv("APP_BASE_URL", "https://marinehub.app/")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("SITEMAP_PING_URLS", " https://a.example/ping , ,https://b.example/ping")

	cfg := FromEnv()
	if cfg.BaseURL != "https://marinehub.app" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.JWTTTL != 2*time.Hour {
		t.Errorf("JWTTTL = %v", cfg.JWTTTL)
	}
	if cfg.RedisDB != 0 {
		t.Errorf("invalid int should fall back, got %d", cfg.RedisDB)
	}
	if cfg.MetricsEnabled {
		t.Error("METRICS_ENABLED=false ignored")
	}
	if len(cfg.SitemapPingURLs) != 2 || cfg.SitemapPingURLs[1] != "https://b.example/ping" {
		t.Errorf("SitemapPingURLs = %v", cfg.SitemapPingURLs)
	}
	if cfg.OTPTTL != 10*time.Minute || cfg.IsProduction() {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}
