// Server entrypoint. Wires configuration, storage, the optional Redis and
// Kafka backends, and the HTTP router, then runs until signalled.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	attendeehandler "passport/internal/attendee/handler"
	attendeemetrics "passport/internal/attendee/metrics"
	attendeeservice "passport/internal/attendee/service"
	"passport/internal/attendee/store/user"
	"passport/internal/lockout"
	"passport/internal/platform/config"
	"passport/internal/platform/httpserver"
	"passport/internal/platform/logger"
	platformmetrics "passport/internal/platform/metrics"
	platformredis "passport/internal/platform/redis"
	"passport/internal/scanqueue"
	sponsorhandler "passport/internal/sponsor/handler"
	sponsormetrics "passport/internal/sponsor/metrics"
	sponsorservice "passport/internal/sponsor/service"
	sponsorstore "passport/internal/sponsor/store/sponsor"
	"passport/internal/sponsor/token"
	"passport/internal/stamp/cooldown"
	stamphandler "passport/internal/stamp/handler"
	stampmetrics "passport/internal/stamp/metrics"
	stampservice "passport/internal/stamp/service"
	stampstore "passport/internal/stamp/store/stamp"
	httptransport "passport/internal/transport/http"
	dErrors "passport/pkg/domain-errors"
)

func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage. Postgres when configured, in-memory otherwise.
	var (
		users    user.Store
		sponsors sponsorstore.Store
		stamps   stampstore.Store
	)
	if cfg.PostgresURL != "" {
		db, err := openPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer db.Close()
		users = user.NewPostgres(db)
		sponsors = sponsorstore.NewPostgres(db)
		stamps = stampstore.NewPostgres(db)
		log.Info("using postgres storage")
	} else {
		users = user.NewInMemoryStore()
		sponsors = sponsorstore.NewInMemoryStore()
		stamps = stampstore.NewInMemoryStore()
		log.Warn("no PASSPORT_POSTGRES_URL set, using in-memory storage")
	}

	checks := make(map[string]httptransport.HealthChecker)

	// Optional Redis backends: stamp cooldown fast path and the shared
	// credential lockout budget. Single-node fallbacks otherwise.
	var (
		limiter cooldown.Limiter = cooldown.Nop{}
		guard   lockout.Guard    = lockout.NewInMemoryGuard()
	)
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		limiter = cooldown.NewRedisLimiter(redisClient.Client, cfg.StampCooldown)
		guard = lockout.NewRedisGuard(redisClient.Client, lockout.DefaultThreshold, lockout.DefaultWindow)
		checks["redis"] = redisClient
		log.Info("redis fast paths enabled")
	}

	// Optional Kafka queue for scan events.
	var queue scanqueue.Emitter = scanqueue.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaEmitter, err := scanqueue.NewKafka(cfg.Kafka, log)
		if err != nil {
			return fmt.Errorf("connecting to kafka: %w", err)
		}
		defer kafkaEmitter.Close()
		queue = kafkaEmitter
		log.Info("scan event emission enabled", "topic", cfg.Kafka.Topic)
	}

	attendees := attendeeservice.New(users,
		attendeeservice.WithLogger(log),
		attendeeservice.WithMetrics(attendeemetrics.New()),
		attendeeservice.WithEmitter(queue),
		attendeeservice.WithLockout(guard),
	)

	issuer := token.NewIssuer([]byte(cfg.JWTSigningKey), "passport", cfg.SponsorTokenTTL)
	sponsorSvc := sponsorservice.New(sponsors, issuer,
		sponsorservice.WithLogger(log),
		sponsorservice.WithMetrics(sponsormetrics.New()),
	)
	if cfg.SponsorSeedFile != "" {
		if err := seedSponsors(ctx, sponsorSvc, cfg.SponsorSeedFile, log); err != nil {
			return err
		}
	}

	stampSvc := stampservice.New(stamps, attendees, cfg.StampCooldown,
		stampservice.WithLogger(log),
		stampservice.WithMetrics(stampmetrics.New()),
		stampservice.WithLimiter(limiter),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:      log,
		HTTPMetrics: platformmetrics.NewHTTP(),
		Handlers: []httptransport.Registrar{
			attendeehandler.New(attendees, log),
			sponsorhandler.New(sponsorSvc, log),
			stamphandler.New(stampSvc, issuer, log),
		},
		Checks: checks,
	})

	srv := httpserver.New(cfg.HTTP, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	for _, schema := range []string{user.Schema, sponsorstore.Schema, stampstore.Schema} {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}
	return db, nil
}

type seedEntry struct {
	SponsorID string `json:"sponsor_id"`
	Name      string `json:"name"`
	Secret    string `json:"secret"`
}

// seedSponsors provisions sponsor accounts from a JSON file. Accounts that
// already exist are left untouched.
func seedSponsors(ctx context.Context, svc *sponsorservice.Service, path string, log *slog.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading sponsor seed file: %w", err)
	}
	var entries []seedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("decoding sponsor seed file: %w", err)
	}

	for _, e := range entries {
		err := svc.Provision(ctx, e.SponsorID, e.Name, e.Secret)
		switch {
		case err == nil:
			log.Info("sponsor provisioned", "sponsor_id", e.SponsorID)
		case dErrors.HasCode(err, dErrors.CodeConflict):
			log.Debug("sponsor already provisioned", "sponsor_id", e.SponsorID)
		default:
			return fmt.Errorf("provisioning sponsor %s: %w", e.SponsorID, err)
		}
	}
	return nil
}
