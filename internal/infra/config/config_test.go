package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "HTTP_ADDR", "MONGO_URI", "MONGO_DB", "KAFKA_BROKERS",
		"KAFKA_TOPIC_PREFIX", "OUTBOX_POLL_INTERVAL", "MAPTILER_URL", "MAPTILER_KEY",
		"GEOCODE_TIMEOUT", "S3_ENDPOINT", "S3_PUBLIC_ENDPOINT", "S3_USE_SSL",
		"SESSION_TTL", "BCRYPT_COST",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Env != "dev" || cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected base defaults: %+v", cfg)
	}
	if cfg.MongoURI != "" || cfg.KafkaBrokers != nil {
		t.Fatalf("mongo and kafka must be optional: %+v", cfg)
	}
	if cfg.MongoDB != "trailblaze" || cfg.S3Bucket != "trailblaze-photos" {
		t.Fatalf("unexpected storage defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 24*time.Hour || cfg.GeocodeTimeout != 5*time.Second {
		t.Fatalf("unexpected duration defaults: %+v", cfg)
	}
	if cfg.OutboxPollInterval != 500*time.Millisecond {
		t.Fatalf("unexpected poll interval: %v", cfg.OutboxPollInterval)
	}
	if cfg.S3PublicEndpoint != cfg.S3Endpoint {
		t.Fatalf("public endpoint should fall back to the internal one: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("S3_USE_SSL", "true")
	t.Setenv("BCRYPT_COST", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Env != "prod" {
		t.Fatalf("env override ignored: %q", cfg.Env)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "k1:9092" {
		t.Fatalf("broker list not split: %v", cfg.KafkaBrokers)
	}
	if cfg.SessionTTL != 30*time.Minute || !cfg.S3UseSSL || cfg.BcryptCost != 12 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("bad duration accepted")
	}
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("S3_USE_SSL", "maybe")
	if _, err := Load(); err == nil {
		t.Fatal("bad boolean accepted")
	}
	t.Setenv("S3_USE_SSL", "false")
	t.Setenv("BCRYPT_COST", "lots")
	if _, err := Load(); err == nil {
		t.Fatal("bad integer accepted")
	}
}
