package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aventra/config"
	"aventra/db"
	"aventra/itinerary"
	"aventra/logger"
	"aventra/metrics"
	"aventra/middleware"
	"aventra/models"
	"aventra/mq"
	"aventra/ratelim"
	"aventra/rdx"
	"aventra/routes"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// openStore picks the document store named by cfg.StoreDriver. The returned
// func releases it.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (db.Store, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn("using in-memory document store; data is lost on restart")
		return db.NewMemoryStore(), func() {}, nil
	}

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Warn("mongo disconnect failed", zap.Error(err))
		}
	}

	if cfg.Collections.Validate(cfg.DatabaseID) == nil {
		c := cfg.Collections
		if err := db.EnsureIndexes(ctx, client, cfg.DatabaseID, c.Itineraries,
			c.BudgetBreakdowns, c.ItineraryDays, c.TimeBlocks, c.Recommendations, c.JourneyPaths); err != nil {
			log.Warn("failed to ensure indexes", zap.Error(err))
		}
	}
	return db.NewMongoStore(client, cfg.DatabaseID), closeFn, nil
}

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		ServiceName: "aventra",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := cfg.Collections.Validate(cfg.DatabaseID); err != nil {
		// Every itinerary call reports this too; keep serving health and metrics.
		log.Error("itinerary storage is not configured", zap.Error(err))
	}
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty; every authenticated route will reject tokens")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open document store", zap.Error(err))
	}
	defer closeStore()

	params := itinerary.ServiceParams{
		Store:           metrics.InstrumentStore(store, m),
		DatabaseID:      cfg.DatabaseID,
		Collections:     cfg.Collections,
		Log:             log.Named("itinerary"),
		Metrics:         m,
		SaveConcurrency: cfg.SaveConcurrency,
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = rdx.NewClient(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Fatal("invalid redis configuration", zap.Error(err))
		}
		defer redisClient.Close()
		if err := rdx.Ping(ctx, redisClient); err != nil {
			log.Warn("redis unreachable; cache and events will retry per call", zap.Error(err))
		}
		cache := rdx.NewItineraryCache(redisClient, cfg.CacheTTL, log.Named("cache"))
		params.Cache = cache
		params.Events = mq.NewEmitter(redisClient)

		// Other instances' writes evict our cached copies.
		go func() {
			err := mq.Listen(ctx, redisClient, log.Named("events"), func(ctx context.Context, e models.ItineraryEvent) {
				cache.Invalidate(ctx, e.TripID, e.UserID)
			})
			if err != nil {
				log.Warn("itinerary event listener stopped", zap.Error(err))
			}
		}()
	}

	svc := itinerary.NewService(params)
	handler := itinerary.NewHandler(svc, log.Named("http"), cfg.PublicBaseURL)

	router := httprouter.New()
	routes.AddUtilityRoutes(router, reg)
	routes.AddItineraryRoutes(router, handler, middleware.NewAuth(cfg.JWTSecret),
		ratelim.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst))

	// apply middleware: logging → security headers → CORS → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           middleware.RequestLogger(log.Named("access"), middleware.SecurityHeaders(corsHandler)),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received; shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	log.Info("server stopped cleanly")
}
