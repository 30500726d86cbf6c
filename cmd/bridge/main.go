package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"erp-shopify-bridge/internal/application"
	"erp-shopify-bridge/internal/domain"
	"erp-shopify-bridge/internal/infrastructure/cache"
	"erp-shopify-bridge/internal/infrastructure/commerce"
	"erp-shopify-bridge/internal/infrastructure/erp"
	"erp-shopify-bridge/internal/infrastructure/metrics"
	"erp-shopify-bridge/internal/infrastructure/repository"
	"erp-shopify-bridge/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Get configuration from environment
	mongoURI := envOr("MONGODB_URI", "mongodb://localhost:27017")
	erpBaseURL := os.Getenv("ERP_BASE_URL")
	if erpBaseURL == "" {
		logger.Fatal().Msg("ERP_BASE_URL environment variable is required")
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(envOr("MONGODB_DATABASE", "erp_bridge"))

	// Connect to Redis (quote cache)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer redisClient.Close()

	// Initialize metrics
	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	// Initialize repositories
	sessionStore := repository.NewMongoSessionStore(db)
	warehouseRepo := repository.NewMongoWarehouseMappingRepository(db)
	linkRepo := repository.NewMongoLinkRepository(db)
	reportRepo := repository.NewMongoRunReportRepository(db)
	quoteCache := cache.NewRedisQuoteCache(redisClient, logger)

	// Initialize ERP client
	erpClient := erp.NewClient(erp.Config{
		BaseURL:         erpBaseURL,
		Username:        os.Getenv("ERP_USERNAME"),
		Password:        os.Getenv("ERP_PASSWORD"),
		RequestObserver: collector.ObserveERPRequest,
	}, sessionStore, logger)

	// Initialize commerce client
	commerceClient, err := commerce.NewClient(
		os.Getenv("SHOPIFY_API_KEY"),
		os.Getenv("SHOPIFY_API_SECRET"),
		os.Getenv("SHOPIFY_SHOP_DOMAIN"),
		os.Getenv("SHOPIFY_ACCESS_TOKEN"),
		logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize commerce client")
	}

	// Initialize application services
	resolver := application.NewPriceResolver(erpClient, application.PriceResolverConfig{
		OutletGroupName:     os.Getenv("OUTLET_GROUP_NAME"),
		OutletPriceListID:   os.Getenv("OUTLET_PRICE_LIST_ID"),
		OutletFallbackPrice: decimalEnv("OUTLET_FALLBACK_PRICE", logger),
	}, logger)

	detector := erp.NewChangeDetector(erpClient, logger)
	catalogReconciler := application.NewCatalogReconciler(commerceClient, linkRepo, logger)
	customerReconciler := application.NewCustomerReconciler(commerceClient, logger)
	inventorySync := application.NewInventorySynchronizer(erpClient, commerceClient, warehouseRepo, linkRepo, logger)

	runner := application.NewSyncRunner(
		erpClient,
		detector,
		catalogReconciler,
		customerReconciler,
		inventorySync,
		reportRepo,
		collector,
		application.SyncRunnerConfig{
			Lookback:    durationEnv("SYNC_LOOKBACK", 48*time.Hour),
			RecordDelay: durationEnv("SYNC_RECORD_DELAY", 500*time.Millisecond),
		},
		logger,
	)

	// Start background sync loops
	syncInterval := durationEnv("SYNC_INTERVAL", 6*time.Hour)
	go syncLoop(context.Background(), "catalog", syncInterval, runner.RunCatalogSync, logger)
	go syncLoop(context.Background(), "customer", syncInterval, runner.RunCustomerSync, logger)
	go syncLoop(context.Background(), "inventory", syncInterval, runner.RunInventorySync, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // The URL pointing to API definition
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Pricing API
	quoteTTL := durationEnv("QUOTE_CACHE_TTL", 10*time.Minute)
	r.Get("/api/v1/pricing/{partNumber}", pricingHandler(resolver, quoteCache, collector, quoteTTL, logger))

	// Manual sync triggers; ?full=true runs a full pass instead of the
	// change-driven one.
	r.Post("/api/v1/sync/catalog", syncTriggerHandler("catalog", runner.RunCatalogSync, runner.RunFullCatalogSync, logger))
	r.Post("/api/v1/sync/customers", syncTriggerHandler("customer", runner.RunCustomerSync, runner.RunFullCustomerSync, logger))
	r.Post("/api/v1/sync/inventory", syncTriggerHandler("inventory", runner.RunInventorySync, nil, logger))

	port := envOr("PORT", "8080")

	logger.Info().Str("port", port).Msg("Starting bridge server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// pricingHandler resolves a customer-specific price quote, consulting the
// quote cache first. A resolvable request always answers 200 with a
// well-formed quote, even when the price is unavailable; only a missing
// customer identity is a client error.
func pricingHandler(
	resolver *application.PriceResolver,
	quotes ports.QuoteCache,
	collector *metrics.Collector,
	ttl time.Duration,
	logger zerolog.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		partNumber := chi.URLParam(r, "partNumber")
		customerID := r.Header.Get("X-Customer-ID")
		if customerID == "" {
			http.Error(w, "X-Customer-ID header is required", http.StatusBadRequest)
			return
		}

		cached, err := quotes.Get(ctx, customerID, partNumber)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to read cached price quote")
		}
		if cached != nil {
			writeJSON(w, cached)
			return
		}

		quote, err := resolver.ResolvePrice(ctx, partNumber, customerID)
		if err != nil {
			logger.Error().Err(err).Str("part", partNumber).Msg("Price resolution failed")
			http.Error(w, "Failed to resolve price", http.StatusBadRequest)
			return
		}
		collector.ObserveQuote(quote.Tier)

		if err := quotes.Put(ctx, customerID, partNumber, quote, ttl); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache price quote")
		}

		writeJSON(w, quote)
	}
}

// syncTriggerHandler starts one batch run in the background and answers
// immediately. Runs triggered while another is in flight are allowed; the
// reconcilers are idempotent. fullRun may be nil when the entity has no
// full-pass variant.
func syncTriggerHandler(
	entity string,
	run func(ctx context.Context) (*domain.RunReport, error),
	fullRun func(ctx context.Context) (*domain.RunReport, error),
	logger zerolog.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		selected := run
		if r.URL.Query().Get("full") == "true" && fullRun != nil {
			selected = fullRun
		}
		go func() {
			if _, err := selected(context.Background()); err != nil {
				logger.Error().Err(err).Str("entity", entity).Msg("Triggered sync run failed")
			}
		}()

		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"started": entity})
	}
}

// syncLoop runs one sync on a fixed interval until the context ends. The
// first run fires immediately.
func syncLoop(
	ctx context.Context,
	entity string,
	interval time.Duration,
	run func(ctx context.Context) (*domain.RunReport, error),
	logger zerolog.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := run(ctx); err != nil {
			logger.Error().Err(err).Str("entity", entity).Msg("Scheduled sync run failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func decimalEnv(key string, logger zerolog.Logger) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", v).Msg("Invalid decimal in environment, using zero")
		return decimal.Zero
	}
	return d
}
