package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"caseflow/internal/accounts"
	"caseflow/internal/cases"
	caseshandler "caseflow/internal/cases/handler"
	casesmetrics "caseflow/internal/cases/metrics"
	"caseflow/internal/casetypeconfig"
	"caseflow/internal/notification"
	notificationhandler "caseflow/internal/notification/handler"
	"caseflow/internal/notification/ledger"
	notificationmetrics "caseflow/internal/notification/metrics"
	"caseflow/internal/platform/config"
	"caseflow/internal/platform/kafka/consumer"
	"caseflow/internal/platform/metrics"
	"caseflow/internal/platform/postgres"
	"caseflow/internal/platform/redis"
	"caseflow/internal/zgw/client"
	zgwmetrics "caseflow/internal/zgw/metrics"
	"caseflow/internal/zgw/models"
	"caseflow/pkg/email"
	"caseflow/pkg/platform/audit"
	"caseflow/pkg/platform/audit/publisher"
	auditmemory "caseflow/pkg/platform/audit/store/memory"
	auditpg "caseflow/pkg/platform/audit/store/postgres"
	"caseflow/pkg/platform/httputil"
	"caseflow/pkg/platform/middleware/metadata"
	"caseflow/pkg/platform/middleware/requesttime"
	txcontext "caseflow/pkg/platform/tx"
)

const auditBufferSize = 1024

type app struct {
	router   http.Handler
	consumer *consumer.Consumer
	closers  []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	reg := metrics.New(version)

	var db *sql.DB
	if cfg.Database.URL != "" {
		var err error
		if db, err = postgres.Open(ctx, cfg.Database.URL); err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		if err := postgres.Migrate(ctx, db, log); err != nil {
			return nil, err
		}
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = rdb.Close() })

	var (
		users    notification.UserDirectory
		configs  casetypeconfig.Store
		auditLog audit.Store
	)
	if db != nil {
		users = accounts.NewPostgres(db)
		configs = casetypeconfig.NewPostgres(db)
		auditLog = auditpg.New(db)
	} else {
		log.Warn("no DATABASE_URL set, running on in-memory stores")
		users = accounts.NewInMemory()
		configs = casetypeconfig.NewInMemory()
		auditLog = auditmemory.NewInMemoryStore()
	}
	if err := seedConfigs(ctx, cfg.CaseTypeConfig, db, configs, log); err != nil {
		return nil, err
	}

	auditor := publisher.NewPublisher(auditLog,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithSampler(publisher.NewSampler(cfg.Audit.OpsSampleRate)),
		publisher.WithMetrics(publisher.NewMetrics(reg)),
		publisher.WithLogger(log),
	)
	a.closers = append(a.closers, auditor.Close)

	cache := client.Cache(client.NewMemoryCache())
	if rdb != nil {
		cache = client.NewRedisCache(rdb.Client, log)
	}
	group, err := client.NewHTTPGroup(client.Config{
		ZakenRoot:    cfg.ZGW.ZakenRoot,
		CatalogiRoot: cfg.ZGW.CatalogiRoot,
		Timeout:      cfg.ZGW.Timeout,
		RateLimit:    cfg.ZGW.RateLimit,
		ZakenTTL:     cfg.ZGW.ZakenTTL,
		CatalogiTTL:  cfg.ZGW.CatalogiTTL,
	},
		client.WithCache(cache),
		client.WithLogger(log),
		client.WithMetrics(zgwmetrics.New(reg)),
	)
	if err != nil {
		return nil, err
	}

	maxLevel, known := models.ParseConfidentiality(cfg.Cases.MaxConfidentiality)
	if !known {
		return nil, fmt.Errorf("ZAAK_MAX_CONFIDENTIALITY %q is not a known level", cfg.Cases.MaxConfidentiality)
	}
	pipeline := cases.NewPipeline(configs,
		cases.WithWorkers(cfg.Cases.Workers),
		cases.WithMaxConfidentiality(maxLevel),
		cases.WithLogger(log),
		cases.WithMetrics(casesmetrics.New(reg)),
	)

	store, err := buildLedger(cfg.Notifications.LedgerBackend, db, rdb)
	if err != nil {
		return nil, err
	}
	sender, err := buildSender(cfg.SMTP, log)
	if err != nil {
		return nil, err
	}
	notifier, err := notification.New(notification.Config{
		Channel:                  cfg.Notifications.Channel,
		SkipStatusTypeInformeren: cfg.Notifications.SkipStatusTypeInformeren,
		MaxConfidentiality:       maxLevel,
		SiteBaseURL:              cfg.Notifications.SiteBaseURL,
	}, group, users, configs, store, sender,
		notification.WithLogger(log),
		notification.WithMetrics(notificationmetrics.New(reg)),
		notification.WithAuditPublisher(auditor),
	)
	if err != nil {
		return nil, err
	}
	webhook := notificationhandler.New(notifier, log)

	if len(cfg.Kafka.Brokers) > 0 {
		c, err := consumer.New(consumer.Config{
			Brokers: cfg.Kafka.Brokers,
			Group:   cfg.Kafka.Group,
			Topics:  []string{cfg.Kafka.NotificationsTopic},
		}, consumer.HandlerFunc(webhook.HandleMessage), consumer.WithLogger(log))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, c.Close)
		if err := c.EnsureTopics(ctx, 1, 1); err != nil {
			log.Warn("kafka topic check failed", "error", err)
		}
		a.consumer = c
	}

	r := chi.NewRouter()
	r.Use(metadata.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(chimw.Recoverer)
	r.Method(http.MethodGet, "/metrics", reg.Handler())
	r.Get("/healthz", healthz(db, rdb))
	caseshandler.New(group, pipeline, log).Register(r)
	webhook.Register(r)
	a.router = r

	ok = true
	return a, nil
}

func buildLedger(backend string, db *sql.DB, rdb *redis.Client) (ledger.Ledger, error) {
	switch backend {
	case config.LedgerPostgres:
		return ledger.NewSQLStore(db, ledger.DialectPostgres), nil
	case config.LedgerRedis:
		return ledger.NewRedisStore(rdb.Client), nil
	case config.LedgerMemory:
		return ledger.NewInMemory(), nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", backend)
	}
}

func buildSender(cfg config.SMTP, log *slog.Logger) (email.Sender, error) {
	if cfg.Addr == "" {
		log.Warn("no SMTP_ADDR set, notification mails are logged only")
		return email.NewLogSender(log), nil
	}
	return email.NewSMTPSender(email.SMTPConfig{
		Addr:     cfg.Addr,
		From:     cfg.From,
		Username: cfg.Username,
		Password: cfg.Password,
	})
}

// seedConfigs loads the case type configuration file, if any, in one
// transaction when a database is configured.
func seedConfigs(ctx context.Context, path string, db *sql.DB, store casetypeconfig.Store, log *slog.Logger) error {
	if path == "" {
		return nil
	}
	seed, err := casetypeconfig.LoadSeedFile(path)
	if err != nil {
		return err
	}
	apply := func(ctx context.Context) error { return seed.Apply(ctx, store) }
	if db != nil {
		err = txcontext.Run(ctx, db, apply)
	} else {
		err = apply(ctx)
	}
	if err != nil {
		return fmt.Errorf("apply case type config: %w", err)
	}
	log.Info("case type config loaded", "path", path, "zaak_types", len(seed.ZaakTypes))
	return nil
}

func healthz(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
				return
			}
		}
		if err := rdb.Health(ctx); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "redis unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
