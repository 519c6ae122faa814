package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "DB_DSN", "DB_AUTO_SCHEMA", "REDIS_ADDR", "CATEGORY_CACHE_TTL", "WRITE_RATE_LIMIT_PER_MINUTE", "HTTP_ADDR"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	if cfg.DBDriver != "postgres" || cfg.DBAutoSchema {
		t.Fatalf("unexpected db defaults: driver=%s auto=%v", cfg.DBDriver, cfg.DBAutoSchema)
	}
	if cfg.HTTPAddr != ":8080" || cfg.WriteRateLimitPerMin != 60 {
		t.Fatalf("unexpected http defaults: %+v", cfg)
	}
	if cfg.CategoryCacheTTL != 5*time.Minute || cfg.RedisAddr != "" {
		t.Fatalf("unexpected cache defaults: %+v", cfg)
	}
}

func TestLoadConfigSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_AUTO_SCHEMA", "")
	t.Setenv("CATEGORY_CACHE_TTL", "30s")

	cfg := LoadConfig()
	if cfg.DBDriver != "sqlite" || cfg.DBDSN != "trivia.db" {
		t.Fatalf("unexpected sqlite config: %+v", cfg)
	}
	if !cfg.DBAutoSchema {
		t.Fatalf("sqlite should bootstrap its schema by default")
	}
	if cfg.CategoryCacheTTL != 30*time.Second {
		t.Fatalf("expected 30s ttl, got %s", cfg.CategoryCacheTTL)
	}

	t.Setenv("DB_AUTO_SCHEMA", "off")
	if LoadConfig().DBAutoSchema {
		t.Fatalf("explicit off must win")
	}
}
