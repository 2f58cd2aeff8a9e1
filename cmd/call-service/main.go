package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	callHandler "voicebridge-backend/internal/handler/http/call"
	speechHandler "voicebridge-backend/internal/handler/http/speech"
	translationHandler "voicebridge-backend/internal/handler/http/translation"
	"voicebridge-backend/internal/middleware"
	"voicebridge-backend/internal/repository/cockroach"
	redisRepo "voicebridge-backend/internal/repository/redis"
	callService "voicebridge-backend/internal/service/call"
	speechService "voicebridge-backend/internal/service/speech"
	translationService "voicebridge-backend/internal/service/translation"
	"voicebridge-backend/pkg/cache"
	"voicebridge-backend/pkg/database"
	"voicebridge-backend/pkg/env"
	"voicebridge-backend/pkg/jwt"
	"voicebridge-backend/pkg/logger"
	"voicebridge-backend/pkg/metrics"
	"voicebridge-backend/pkg/resilience"
)

func main() {
	// Create context for database operations
	ctx := context.Background()

	// Load .env for local development; real deployments use the environment
	_ = godotenv.Load()

	// 1. Initialize structured logger
	if err := logger.Init(&logger.Config{
		Level:  env.GetString("LOG_LEVEL", "info"),
		Format: env.GetString("LOG_FORMAT", "json"),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 2. Setup JWT Manager
	jwtSecret := env.GetStringFromFile("JWT_SECRET", "")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("JWT_SECRET must be at least 32 characters")
	}

	jwtManager := jwt.NewJWTManager(jwtSecret, env.GetDuration("JWT_ACCESS_TOKEN_DURATION", 15*time.Minute))

	// 3. Connect to CockroachDB with exponential backoff retry
	dbConfig := &database.CockroachConfig{
		Host:     env.GetString("DB_HOST", "localhost"),
		Port:     env.GetInt("DB_PORT", 26257),
		User:     env.GetString("DB_USER", "root"),
		Password: env.GetStringFromFile("DB_PASSWORD", ""),
		Database: env.GetString("DB_NAME", "voicebridge"),
		SSLMode:  env.GetString("DB_SSLMODE", "disable"),
	}

	var db *database.CockroachDB
	var err error

	maxRetries := 5
	baseDelay := 1 * time.Second
	maxDelay := 30 * time.Second

	db, err = database.NewCockroachDB(ctx, dbConfig)
	if err != nil {
		for attempt := 2; attempt <= maxRetries; attempt++ {
			delay := time.Duration(float64(baseDelay) * math.Pow(2, float64(attempt-1)))
			if delay > maxDelay {
				delay = maxDelay
			}
			log.Printf("⚠️  CockroachDB connection attempt %d failed: %v. Retrying in %v...", attempt-1, err, delay)
			time.Sleep(delay)

			db, err = database.NewCockroachDB(ctx, dbConfig)
			if err == nil {
				break
			}
		}
	}

	// The call registry cannot run without its database: the single-active-call
	// guarantee lives in the schema, not in memory.
	if err != nil {
		log.Fatalf("Failed to connect to CockroachDB after %d attempts: %v", maxRetries, err)
	}
	defer db.Close()
	log.Println("✅ Connected to CockroachDB")

	callRepo := cockroach.NewCallRepository(db.Pool)
	callLogRepo := cockroach.NewCallLogRepository(db.Pool)
	userRepo := cockroach.NewUserRepository(db.Pool)

	// 4. Connect to Redis for the translation cache; fall back to an
	// in-process store so translation keeps working without it
	redisConfig := &database.RedisConfig{
		Host:     env.GetString("REDIS_HOST", "localhost"),
		Port:     env.GetInt("REDIS_PORT", 6379),
		Password: env.GetStringFromFile("REDIS_PASSWORD", ""),
		DB:       0,
		PoolSize: 10,
	}

	var translationCache translationService.Store
	redisDB, err := database.NewRedisDB(redisConfig)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		log.Println("ℹ️  Using in-memory translation cache (entries do not survive restarts)")
		translationCache = cache.NewMemoryStore(10000)
	} else {
		defer redisDB.Close()
		log.Println("✅ Connected to Redis")
		translationCache = redisRepo.NewTranslationCacheRepository(redisDB.Client)
	}

	// 5. Initialize Metrics
	appMetrics := metrics.NewMetrics("call-service")
	prometheusMiddleware := middleware.NewPrometheusMiddleware(appMetrics)

	// 6. Initialize Services
	libreTranslate := translationService.NewLibreTranslateClient(
		env.GetString("LIBRETRANSLATE_URL", ""),
		env.GetStringFromFile("LIBRETRANSLATE_API_KEY", ""),
	)
	providerBreaker := resilience.NewBreaker("libretranslate", appMetrics)
	provider := translationService.NewResilientProvider(libreTranslate, providerBreaker)
	translationSvc := translationService.NewService(translationCache, provider, appMetrics)
	callSvc := callService.NewService(callRepo, callLogRepo, userRepo, appMetrics)
	speechSvc := speechService.NewService()

	// 7. Initialize Handlers
	callHdlr := callHandler.NewHandler(callSvc, translationSvc)
	translationHdlr := translationHandler.NewHandler(translationSvc)
	speechHdlr := speechHandler.NewHandler(speechSvc)

	// 8. Setup Gin Router
	router := gin.New() // Don't use Default() to have full control

	// Trust only the load balancer in front of us; gin wants IPs/CIDRs here
	trustedProxies := strings.Split(env.GetString("TRUSTED_PROXIES", "127.0.0.1,::1"), ",")
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		log.Fatalf("Failed to configure trusted proxies: %v", err)
	}

	// Apply global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware())
	router.Use(prometheusMiddleware.Handler())

	// Health check with pool visibility
	router.GET("/health", func(c *gin.Context) {
		stat := db.Stats()
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "call-service",
			"time":    time.Now().UTC(),
			"db_pool": gin.H{
				"total_conns": stat.TotalConns(),
				"idle_conns":  stat.IdleConns(),
			},
		})
	})

	// Metrics endpoint (for Prometheus scraping)
	router.GET("/metrics", middleware.MetricsHandler(appMetrics))

	// Call routes (all require authentication)
	calls := router.Group("/v1/calls")
	calls.Use(middleware.AuthMiddleware(jwtManager))
	{
		calls.POST("/initiate", callHdlr.InitiateCall)
		calls.GET("/active", callHdlr.GetActiveCall)
		calls.GET("/history", callHdlr.GetCallHistory)
		calls.GET("/:id", callHdlr.GetCallByID)
		calls.PATCH("/:id/end", callHdlr.EndCall)
		calls.GET("/:id/logs", callHdlr.GetCallLogs)
		calls.POST("/:id/utterances", callHdlr.PostUtterance)
	}

	// Translation routes
	trans := router.Group("/v1/translation")
	trans.Use(middleware.AuthMiddleware(jwtManager))
	{
		trans.POST("/translate", translationHdlr.Translate)
		trans.GET("/languages", translationHdlr.GetSupportedLanguages)
	}

	// Speech routes (static capability lookups)
	speech := router.Group("/v1/speech")
	speech.Use(middleware.AuthMiddleware(jwtManager))
	{
		speech.GET("/languages", speechHdlr.GetSupportedLanguages)
		speech.GET("/config", speechHdlr.GetConfig)
		speech.GET("/voices", speechHdlr.GetVoices)
	}

	// 9. Start server
	port := env.GetString("PORT", "8084")
	addr := fmt.Sprintf(":%s", port)

	log.Printf("🚀 Call Service starting on port %s\n", port)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
