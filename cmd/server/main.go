// Command server runs the museum entry backend: visitor identity, gate
// scanning, the photo competition, and the staff endpoints behind one
// HTTP listener.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	adminauth "gatekeeper/internal/admin"
	"gatekeeper/internal/gate/events"
	gatehandler "gatekeeper/internal/gate/handler"
	gatemetrics "gatekeeper/internal/gate/metrics"
	gateservice "gatekeeper/internal/gate/service"
	photocache "gatekeeper/internal/photo/cache"
	photohandler "gatekeeper/internal/photo/handler"
	photometrics "gatekeeper/internal/photo/metrics"
	photoservice "gatekeeper/internal/photo/service"
	photostore "gatekeeper/internal/photo/store"
	"gatekeeper/internal/platform/config"
	"gatekeeper/internal/platform/database"
	"gatekeeper/internal/platform/httpserver"
	"gatekeeper/internal/platform/logger"
	platformmetrics "gatekeeper/internal/platform/metrics"
	"gatekeeper/internal/platform/ratelimit"
	platformredis "gatekeeper/internal/platform/redis"
	roomhandler "gatekeeper/internal/room/handler"
	roomstore "gatekeeper/internal/room/store"
	visitorhandler "gatekeeper/internal/visitor/handler"
	visitormetrics "gatekeeper/internal/visitor/metrics"
	visitorservice "gatekeeper/internal/visitor/service"
	visitorstore "gatekeeper/internal/visitor/store"
	adminmw "gatekeeper/pkg/platform/middleware/admin"
	"gatekeeper/pkg/platform/middleware/metadata"
	"gatekeeper/pkg/platform/middleware/requestid"
	"gatekeeper/pkg/platform/middleware/requesttime"
	"gatekeeper/pkg/platform/tx"
)

const publicSubmissionsPath = "/static/submissions"

// Per-source request ceilings. A reader scans at most once a second or so
// in normal operation; staff logins are rare.
const (
	scanLimitPerMinute  = 120
	loginLimitPerMinute = 10
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Error("failed to apply schema", "error", err)
			os.Exit(1)
		}
	}

	var (
		visitors visitorstore.Store
		rooms    roomstore.Store
		photos   photostore.Store
	)
	if db != nil {
		visitors = visitorstore.NewPostgres(db)
		rooms = roomstore.NewPostgres(db)
		photos = photostore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		visitors = visitorstore.NewInMemory()
		rooms = roomstore.NewInMemory()
		photos = photostore.NewInMemory()
		log.Warn("no DATABASE_URL set, using in-memory stores")
	}

	if err := roomstore.Seed(ctx, rooms); err != nil {
		log.Error("failed to seed rooms", "error", err)
		os.Exit(1)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		log.Warn("no REDIS_URL set, dashboard caching disabled")
	}

	var sink events.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := events.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("publishing gate entries to kafka", "topic", cfg.Kafka.Topic)
	} else {
		sink = events.NewMemorySink()
		log.Warn("no KAFKA_BROKERS set, gate entry events stay in-process")
	}
	publisher := events.NewPublisher(log)
	worker := events.NewWorker(sink, publisher.Inbox(), log)

	files, err := photoservice.NewDiskFiles(cfg.Photos.Dir, publicSubmissionsPath)
	if err != nil {
		log.Error("failed to prepare photo storage", "error", err, "dir", cfg.Photos.Dir)
		os.Exit(1)
	}

	visitorSvc := visitorservice.New(visitors,
		visitorservice.WithLogger(log),
		visitorservice.WithMetrics(visitormetrics.New()),
	)
	gateSvc := gateservice.New(visitors,
		gateservice.WithLogger(log),
		gateservice.WithMetrics(gatemetrics.New()),
		gateservice.WithPublisher(publisher),
	)
	photoOpts := []photoservice.Option{
		photoservice.WithLogger(log),
		photoservice.WithMetrics(photometrics.New()),
		photoservice.WithCache(photocache.NewDashboard(redisClient, config.DashboardCacheTTL)),
	}
	if db != nil {
		photoOpts = append(photoOpts, photoservice.WithTxRunner(tx.NewRunner(db)))
	}
	photoSvc := photoservice.New(photos, visitors, rooms, files, photoOpts...)

	visitorH := visitorhandler.New(visitorSvc, log)
	gateH := gatehandler.New(gateSvc, log)
	photoH := photohandler.New(photoSvc, log)
	roomH := roomhandler.New(rooms, log)
	adminH := adminauth.NewHandler(
		adminauth.NewService(cfg.Server.AdminPasswordHash, cfg.Server.JWTSigningKey), log)

	httpMetrics := platformmetrics.NewHTTP()
	scanLimits := ratelimit.New(time.Minute, log)
	authLimits := ratelimit.New(time.Minute, log)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.Middleware)
	r.Use(httpMetrics.Middleware)

	visitorH.Register(r)
	r.Group(func(r chi.Router) {
		r.Use(scanLimits.Limit(scanLimitPerMinute))
		gateH.Register(r)
	})
	photoH.Register(r)
	roomH.Register(r)
	r.Group(func(r chi.Router) {
		r.Use(authLimits.Limit(loginLimitPerMinute))
		adminH.Register(r)
	})
	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireStaff(cfg.Server.JWTSigningKey))
		visitorH.RegisterAdmin(r)
		roomH.RegisterAdmin(r)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthz(db, redisClient))
	r.Handle(publicSubmissionsPath+"/*",
		http.StripPrefix(publicSubmissionsPath+"/", http.FileServer(http.Dir(cfg.Photos.Dir))))

	srv := httpserver.New(cfg.Server.Addr, r)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return worker.Run(groupCtx)
	})
	group.Go(func() error {
		log.Info("starting gatekeeper", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// healthz reports liveness plus best-effort dependency health.
func healthz(db *sql.DB, redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "database unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				http.Error(w, "redis unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
