// Package config loads process configuration from environment variables so
// main stays lean. Every value has a development default.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// NotifyMode selects whether assignment fan-out blocks the request.
type NotifyMode string

const (
	NotifySync  NotifyMode = "sync"
	NotifyAsync NotifyMode = "async"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr             string
	JWTSigningKey    string
	JWTIssuer        string
	JWTAudience      string
	AdminToken       string
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration
	TraceSampleRatio float64

	Database     DatabaseConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	SMTP         SMTPConfig
	Notify       NotifyConfig
	Acknowledger AcknowledgerConfig
}

// DatabaseConfig holds PostgreSQL settings. An empty URL selects in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	TxTimeout       time.Duration
}

// RedisConfig holds settings for the credential-change gate. An empty URL
// disables the gate.
type RedisConfig struct {
	URL           string
	PoolSize      int
	MinIdleConns  int
	DialTimeout   time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	GateKeyPrefix string
}

// KafkaConfig holds the audit outbox relay settings. Empty Brokers disables the relay.
type KafkaConfig struct {
	Brokers       []string
	AuditTopic    string
	RelayInterval time.Duration
	RelayBatch    int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

type NotifyConfig struct {
	Mode             NotifyMode
	Concurrency      int
	Timeout          time.Duration
	FailureThreshold int
	Cooldown         time.Duration
}

// AcknowledgerConfig tunes the acknowledgment service.
type AcknowledgerConfig struct {
	ReconcileMaxAttempts int
	QueueRetryAttempts   int
	ScrollThreshold      float64
	MinDwell             time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:             getString("SITEOPS_ADDR", ":8080"),
		JWTSigningKey:    getString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:        getString("JWT_ISSUER", "siteops"),
		JWTAudience:      getString("JWT_AUDIENCE", "siteops-api"),
		AdminToken:       getString("ADMIN_API_TOKEN", "dev-admin-token"),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:  getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		TraceSampleRatio: getFloat("TRACE_SAMPLE_RATIO", 0.1),
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			TxTimeout:       getDuration("DB_TX_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			URL:           os.Getenv("REDIS_URL"),
			PoolSize:      getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:  getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:   getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:   getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:  getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			GateKeyPrefix: getString("CREDENTIAL_GATE_PREFIX", "siteops:credential-change:"),
		},
		Kafka: KafkaConfig{
			Brokers:       getList("KAFKA_BROKERS"),
			AuditTopic:    getString("KAFKA_AUDIT_TOPIC", "siteops.audit"),
			RelayInterval: getDuration("OUTBOX_RELAY_INTERVAL", 2*time.Second),
			RelayBatch:    getInt("OUTBOX_RELAY_BATCH", 100),
		},
		SMTP: SMTPConfig{
			Host:     getString("SMTP_HOST", "localhost"),
			Port:     getInt("SMTP_PORT", 1025),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getString("SMTP_FROM", "no-reply@siteops.local"),
			BaseURL:  getString("PUBLIC_BASE_URL", "http://localhost:3000"),
		},
		Notify: NotifyConfig{
			Mode:             NotifyMode(getString("NOTIFY_MODE", string(NotifyAsync))),
			Concurrency:      getInt("NOTIFY_CONCURRENCY", 8),
			Timeout:          getDuration("NOTIFY_TIMEOUT", time.Minute),
			FailureThreshold: getInt("NOTIFY_BREAKER_FAILURES", 5),
			Cooldown:         getDuration("NOTIFY_BREAKER_COOLDOWN", 30*time.Second),
		},
		Acknowledger: AcknowledgerConfig{
			ReconcileMaxAttempts: getInt("RECONCILE_MAX_ATTEMPTS", 3),
			QueueRetryAttempts:   getInt("QUEUE_RETRY_ATTEMPTS", 3),
			ScrollThreshold:      getFloat("READ_SCROLL_THRESHOLD", 0.95),
			MinDwell:             getDuration("READ_MIN_DWELL", 10*time.Second),
		},
	}
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
