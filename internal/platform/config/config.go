// Package config reads the service configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr     string
	LogLevel string
}

// Database selects the SQL store. An empty URL runs on in-memory stores.
type Database struct {
	URL string
}

// RedisConfig configures the shared Redis client. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the notification consumer. No brokers disables it.
type Kafka struct {
	Brokers            []string
	NotificationsTopic string
	Group              string
}

// ZGW configures the resource clients.
type ZGW struct {
	ZakenRoot    string
	CatalogiRoot string
	Timeout      time.Duration
	RateLimit    float64
	ZakenTTL     time.Duration
	CatalogiTTL  time.Duration
}

// Cases configures the enrichment pipeline.
type Cases struct {
	Workers            int
	MaxConfidentiality string
}

// Notifications configures the gate chain and its ledger.
type Notifications struct {
	Channel                  string
	SkipStatusTypeInformeren bool
	LedgerBackend            string
	SiteBaseURL              string
}

// SMTP configures outbound mail. An empty Addr logs mails instead.
type SMTP struct {
	Addr     string
	From     string
	Username string
	Password string
}

// Audit configures the system log.
type Audit struct {
	// OpsSampleRate is the share of operations events kept, 0 to 1.
	OpsSampleRate float64
}

// Ledger backends.
const (
	LedgerPostgres = "postgres"
	LedgerRedis    = "redis"
	LedgerMemory   = "memory"
)

type Config struct {
	Server         Server
	Database       Database
	Redis          RedisConfig
	Kafka          Kafka
	ZGW            ZGW
	Cases          Cases
	Notifications  Notifications
	SMTP           SMTP
	Audit          Audit
	CaseTypeConfig string
}

// FromEnv builds the config from environment variables so main stays lean.
// Every malformed value is reported, not just the first.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	e := env{lookup: lookup}
	cfg := Config{
		Server: Server{
			Addr:     e.str("CASEFLOW_ADDR", ":8080"),
			LogLevel: e.str("LOG_LEVEL", "info"),
		},
		Database: Database{
			URL: e.str("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL:          e.str("REDIS_URL", ""),
			PoolSize:     e.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: e.int("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  e.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  e.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: e.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:            e.list("KAFKA_BROKERS"),
			NotificationsTopic: e.str("KAFKA_NOTIFICATIONS_TOPIC", "zgw.notifications"),
			Group:              e.str("KAFKA_GROUP", "caseflow"),
		},
		ZGW: ZGW{
			ZakenRoot:    e.str("ZGW_ZAKEN_ROOT", ""),
			CatalogiRoot: e.str("ZGW_CATALOGI_ROOT", ""),
			Timeout:      e.duration("ZGW_TIMEOUT", 10*time.Second),
			RateLimit:    e.float("ZGW_RATE_LIMIT", 0),
			ZakenTTL:     e.duration("CACHE_ZGW_ZAKEN_TTL", 5*time.Minute),
			CatalogiTTL:  e.duration("CACHE_ZGW_CATALOGI_TTL", 24*time.Hour),
		},
		Cases: Cases{
			Workers:            e.int("CASE_LIST_NUM_THREADS", 6),
			MaxConfidentiality: e.str("ZAAK_MAX_CONFIDENTIALITY", "openbaar"),
		},
		Notifications: Notifications{
			Channel:                  e.str("NOTIFICATIONS_CHANNEL", "zaken"),
			SkipStatusTypeInformeren: e.bool("SKIP_NOTIFICATION_STATUSTYPE_INFORMEREN", false),
			LedgerBackend:            e.str("LEDGER_BACKEND", ""),
			SiteBaseURL:              e.str("SITE_BASE_URL", ""),
		},
		SMTP: SMTP{
			Addr:     e.str("SMTP_ADDR", ""),
			From:     e.str("SMTP_FROM", ""),
			Username: e.str("SMTP_USERNAME", ""),
			Password: e.str("SMTP_PASSWORD", ""),
		},
		Audit: Audit{
			OpsSampleRate: e.float("AUDIT_OPS_SAMPLE_RATE", 1),
		},
		CaseTypeConfig: e.str("CASE_TYPE_CONFIG_FILE", ""),
	}
	cfg.applyDefaults()
	if err := errors.Join(append(e.errs, cfg.validate()...)...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// applyDefaults picks the ledger backend matching the configured storage.
func (c *Config) applyDefaults() {
	if c.Notifications.LedgerBackend != "" {
		return
	}
	switch {
	case c.Database.URL != "":
		c.Notifications.LedgerBackend = LedgerPostgres
	case c.Redis.URL != "":
		c.Notifications.LedgerBackend = LedgerRedis
	default:
		c.Notifications.LedgerBackend = LedgerMemory
	}
}

func (c *Config) validate() []error {
	var errs []error
	if c.ZGW.ZakenRoot == "" {
		errs = append(errs, errors.New("ZGW_ZAKEN_ROOT is required"))
	}
	if c.ZGW.CatalogiRoot == "" {
		errs = append(errs, errors.New("ZGW_CATALOGI_ROOT is required"))
	}
	if c.Cases.Workers < 1 {
		errs = append(errs, errors.New("CASE_LIST_NUM_THREADS must be at least 1"))
	}
	switch c.Notifications.LedgerBackend {
	case LedgerPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("LEDGER_BACKEND=postgres requires DATABASE_URL"))
		}
	case LedgerRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("LEDGER_BACKEND=redis requires REDIS_URL"))
		}
	case LedgerMemory:
	default:
		errs = append(errs, fmt.Errorf("LEDGER_BACKEND %q is not one of postgres, redis, memory", c.Notifications.LedgerBackend))
	}
	if c.Audit.OpsSampleRate < 0 || c.Audit.OpsSampleRate > 1 {
		errs = append(errs, errors.New("AUDIT_OPS_SAMPLE_RATE must be between 0 and 1"))
	}
	if c.SMTP.Addr != "" && c.SMTP.From == "" {
		errs = append(errs, errors.New("SMTP_FROM is required with SMTP_ADDR"))
	}
	return errs
}

// env reads typed values and collects parse errors.
type env struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *env) raw(key string) (string, bool) {
	v, ok := e.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *env) str(key, def string) string {
	if v, ok := e.raw(key); ok {
		return v
	}
	return def
}

func (e *env) int(key string, def int) int {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (e *env) float(key string, def float64) float64 {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func (e *env) bool(key string, def bool) bool {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

// duration accepts Go durations ("90s") and plain seconds ("90").
func (e *env) duration(key string, def time.Duration) time.Duration {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (e *env) list(key string) []string {
	v, ok := e.raw(key)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
