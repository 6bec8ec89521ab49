// Package app assembles the siteops object graph from configuration. The
// HTTP server and ackctl both build on it so they see the same stores.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"

	"siteops/internal/acknowledgment/adapters"
	ackhandler "siteops/internal/acknowledgment/handler"
	ackmetrics "siteops/internal/acknowledgment/metrics"
	"siteops/internal/acknowledgment/notify"
	"siteops/internal/acknowledgment/readprogress"
	"siteops/internal/acknowledgment/recipients"
	"siteops/internal/acknowledgment/sequencer"
	"siteops/internal/acknowledgment/service"
	ackstore "siteops/internal/acknowledgment/store"
	"siteops/internal/directory"
	dirhandler "siteops/internal/directory/handler"
	jwttoken "siteops/internal/jwt_token"
	"siteops/internal/platform/config"
	"siteops/internal/platform/metrics"
	"siteops/internal/platform/postgres"
	redisclient "siteops/internal/platform/redis"
	"siteops/internal/platform/tracing"
	"siteops/pkg/email"
	audit "siteops/pkg/platform/audit"
	"siteops/pkg/platform/audit/outbox"
	"siteops/pkg/platform/audit/publishers/compliance"
	"siteops/pkg/platform/audit/publishers/ops"
	auditmemory "siteops/pkg/platform/audit/store/memory"
	auditpostgres "siteops/pkg/platform/audit/store/postgres"
	"siteops/pkg/platform/circuit"
	"siteops/pkg/platform/httputil"
	"siteops/pkg/platform/middleware/auth"
	"siteops/pkg/platform/middleware/metadata"
	"siteops/pkg/platform/middleware/request"
	"siteops/pkg/platform/middleware/requesttime"
)

const queueRetryBackoff = 100 * time.Millisecond

// App holds the wired components and the connections they share.
type App struct {
	Config    config.Server
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	DB        *sql.DB
	Redis     *redisclient.Client
	Kafka     *kgo.Client
	Service   *service.Service
	Directory *directory.Service
	Sequencer *sequencer.Sequencer
	Gate      *adapters.RedisCredentialGate
	Tokens    *jwttoken.JWTService

	httpMetrics *metrics.Metrics
}

// New connects to every configured backing service and wires the domain
// services over them. Without DATABASE_URL all state is in memory.
func New(ctx context.Context, cfg config.Server, logger *slog.Logger) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
		Tokens:   jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience),
	}
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.httpMetrics = metrics.New(a.Registry)

	if err := a.connect(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	var (
		ackStore interface {
			service.Store
			sequencer.ObligationSource
		}
		dirStore   directoryStore
		auditStore audit.Store
		txOpts     []service.Option
		dirOpts    []directory.Option
	)
	if a.DB != nil {
		tx := ackstore.NewPostgresTx(a.DB, cfg.Database.TxTimeout)
		ackStore = ackstore.NewPostgres(a.DB)
		dirStore = directory.NewPostgres(a.DB)
		auditStore = auditpostgres.New(a.DB)
		txOpts = append(txOpts, service.WithTx(tx))
		dirOpts = append(dirOpts, directory.WithTx(tx))
	} else {
		ackStore = ackstore.NewInMemoryStore()
		dirStore = directory.NewInMemoryStore()
		auditStore = auditmemory.NewInMemoryStore()
		txOpts = append(txOpts, service.WithTxTimeout(cfg.Database.TxTimeout))
		logger.WarnContext(ctx, "DATABASE_URL not set, using in-memory stores")
	}

	publisher := compliance.New(auditStore,
		compliance.WithLogger(logger),
		compliance.WithMetrics(compliance.NewMetrics(a.Registry)),
	)
	a.Directory = directory.NewService(dirStore,
		append(dirOpts, directory.WithAuditPublisher(publisher), directory.WithLogger(logger))...,
	)

	ackMetrics := ackmetrics.New(a.Registry)
	tracker := ops.New(auditStore,
		ops.WithLogger(logger),
		ops.WithMetrics(ops.NewMetrics(a.Registry)),
		ops.WithBreaker(circuit.New("ops-audit")),
	)
	notifier := notify.New(dirStore,
		email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}),
		notify.WithBreaker(circuit.New("smtp",
			circuit.WithFailureThreshold(cfg.Notify.FailureThreshold),
			circuit.WithCooldown(cfg.Notify.Cooldown),
		)),
		notify.WithTracker(tracker),
		notify.WithMetrics(ackMetrics),
		notify.WithLogger(logger),
		notify.WithConcurrency(cfg.Notify.Concurrency),
		notify.WithBaseURL(cfg.SMTP.BaseURL),
	)

	seqOpts := []sequencer.Option{
		sequencer.WithLogger(logger),
		sequencer.WithRetry(cfg.Acknowledger.QueueRetryAttempts, queueRetryBackoff),
	}
	if a.Redis != nil {
		a.Gate = adapters.NewRedisCredentialGate(a.Redis.Client, cfg.Redis.GateKeyPrefix)
		seqOpts = append(seqOpts, sequencer.WithGate(a.Gate))
	}
	a.Sequencer = sequencer.New(ackStore, seqOpts...)

	svcOpts := append(txOpts,
		service.WithAuditPublisher(publisher),
		service.WithMetrics(ackMetrics),
		service.WithLogger(logger),
		service.WithTracer(tracing.Tracer()),
		service.WithDetector(readprogress.New(cfg.Acknowledger.ScrollThreshold, cfg.Acknowledger.MinDwell)),
		service.WithReconcileMaxAttempts(cfg.Acknowledger.ReconcileMaxAttempts),
	)
	if cfg.Notify.Mode == config.NotifyAsync {
		svcOpts = append(svcOpts, service.WithAsyncNotification(cfg.Notify.Timeout))
	}
	a.Service = service.New(ackStore, recipients.NewResolver(dirStore), notifier, a.Sequencer, svcOpts...)

	return a, nil
}

type directoryStore interface {
	directory.Store
	recipients.Directory
	notify.Directory
}

func (a *App) connect(ctx context.Context) error {
	if a.Config.Database.URL != "" {
		db, err := postgres.Open(ctx, a.Config.Database)
		if err != nil {
			return err
		}
		a.DB = db
	}

	rdb, err := redisclient.New(ctx, a.Config.Redis)
	if err != nil {
		return err
	}
	a.Redis = rdb

	if len(a.Config.Kafka.Brokers) > 0 {
		if a.DB == nil {
			a.Logger.WarnContext(ctx, "KAFKA_BROKERS set without DATABASE_URL, outbox relay disabled")
			return nil
		}
		cl, err := kgo.NewClient(
			kgo.SeedBrokers(a.Config.Kafka.Brokers...),
			kgo.RequiredAcks(kgo.AllISRAcks()),
		)
		if err != nil {
			return fmt.Errorf("kafka client: %w", err)
		}
		a.Kafka = cl
	}
	return nil
}

// Relay returns the audit outbox relay, or nil when Kafka is not configured.
func (a *App) Relay() *outbox.Relay {
	if a.Kafka == nil {
		return nil
	}
	return outbox.New(a.DB, a.Kafka, a.Config.Kafka.AuditTopic,
		outbox.WithBatchSize(a.Config.Kafka.RelayBatch),
		outbox.WithInterval(a.Config.Kafka.RelayInterval),
		outbox.WithLogger(a.Logger),
	)
}

// Router builds the HTTP surface: health and metrics are public, the
// directory sync is admin-token protected, everything else needs a bearer token.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(a.Logger))
	r.Use(request.Logger(a.Logger))
	r.Use(request.Latency(a.httpMetrics))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", a.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))

	dirhandler.New(a.Directory, a.Config.AdminToken, a.Logger).Register(r)

	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(a.Config.RequestTimeout))
		r.Use(auth.RequireAuth(jwttoken.NewJWTServiceAdapter(a.Tokens), a.Logger))
		ackhandler.New(a.Service, a.Logger).Register(r)
	})
	return r
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true
	if a.DB != nil {
		checks["postgres"] = "ok"
		if err := a.DB.PingContext(ctx); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		}
	}
	if a.Redis != nil {
		checks["redis"] = "ok"
		if err := a.Redis.Health(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, map[string]any{"healthy": healthy, "checks": checks})
}

// Close waits for detached notification work and releases connections.
func (a *App) Close() error {
	if a.Service != nil {
		a.Service.Wait()
	}
	var errs []error
	if a.Kafka != nil {
		a.Kafka.Close()
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
