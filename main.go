package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rbinhq/rbin/config"
	"github.com/rbinhq/rbin/handlers"
	"github.com/rbinhq/rbin/metrics"
	"github.com/rbinhq/rbin/services"
	"github.com/rbinhq/rbin/storage"

	// Lambda imports (only used when in Lambda mode)
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
)

// Version/build info (set via -ldflags at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Lambda-specific variables
var (
	ginLambdaV1   *ginadapter.GinLambda
	ginLambdaV2   *ginadapter.GinLambdaV2
	ginLambdaOnce sync.Once
)

// isLambdaEnvironment detects if running in AWS Lambda
func isLambdaEnvironment() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded .env file")
	}

	cfg := config.LoadConfig()
	cfg.Version = Version

	initLogging(cfg.LogLevel)
	log.Info().Str("version", Version).Str("build_time", BuildTime).Msg("starting rbin")

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Lambda has no durable local disk; force the S3 backend there.
	if isLambdaEnvironment() && cfg.Storage == config.BackendFilesystem {
		cfg.Storage = config.BackendS3
	}

	store, err := storage.NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage).Msg("failed to initialize storage")
	}
	log.Info().Str("backend", cfg.Storage).Msg("storage ready")

	router := setupRouter(store, cfg)

	if isLambdaEnvironment() {
		log.Info().Msg("starting in AWS Lambda mode")
		ginLambdaOnce.Do(func() {
			ginLambdaV1 = ginadapter.New(router)
			ginLambdaV2 = ginadapter.NewV2(router)
		})
		lambda.Start(lambdaHandler)
		return
	}

	log.Info().Msg("starting in HTTP server mode")
	runHTTPServer(router, cfg, store)
}

// initLogging configures the global zerolog logger.
func initLogging(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// setupRouter creates and configures the Gin router
func setupRouter(store storage.PasteStore, cfg *config.Config) *gin.Engine {
	pasteService := services.NewPasteService(store, cfg)

	pasteHandler := handlers.NewPasteHandler(pasteService, cfg)
	usageHandler := handlers.NewUsageHandler(cfg)
	systemHandler := handlers.NewSystemHandler()

	router := gin.New()
	router.Use(requestLogger(cfg.RequestLogLevel))
	router.Use(gin.Recovery())
	router.Use(bodyLimit(cfg.MaxBodySize))
	router.Use(metrics.Middleware())

	router.GET("/", usageHandler.Usage)
	router.POST("/", pasteHandler.Submit)
	router.GET("/:id", pasteHandler.Retrieve)

	// System routes
	router.GET("/health", systemHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Resource not found")
	})

	return router
}

// requestLogger logs every request at the configured level.
func requestLogger(level string) gin.HandlerFunc {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.DebugLevel
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithLevel(lvl).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// bodyLimit caps the request body size before any form parsing happens.
func bodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// lambdaHandler handles Lambda requests for both v1 and v2 formats
func lambdaHandler(ctx context.Context, event interface{}) (interface{}, error) {
	ginLambdaOnce.Do(func() {
		if ginLambdaV1 == nil || ginLambdaV2 == nil {
			log.Fatal().Msg("Lambda adapters are not initialized")
		}
	})

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: 500,
			Body:       "Failed to process event",
			Headers:    map[string]string{"Content-Type": "text/plain"},
		}, err
	}

	// Lambda Function URLs and HTTP APIs deliver v2 events
	var reqV2 events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(eventBytes, &reqV2); err == nil && reqV2.RequestContext.HTTP.Method != "" {
		return ginLambdaV2.ProxyWithContext(ctx, reqV2)
	}

	// REST APIs and ALBs deliver v1 events
	var reqV1 events.APIGatewayProxyRequest
	if err := json.Unmarshal(eventBytes, &reqV1); err == nil && reqV1.HTTPMethod != "" {
		return ginLambdaV1.ProxyWithContext(ctx, reqV1)
	}

	log.Error().RawJSON("event", eventBytes).Msg("unable to parse event as API Gateway v1 or v2")
	return events.APIGatewayV2HTTPResponse{
		StatusCode: 500,
		Body:       "Unsupported event type - this function expects API Gateway or Lambda Function URL events",
		Headers:    map[string]string{"Content-Type": "text/plain"},
	}, fmt.Errorf("unsupported event type: %T", event)
}

// runHTTPServer starts the HTTP server for container mode
func runHTTPServer(router *gin.Engine, cfg *config.Config, store storage.PasteStore) {
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("error closing storage")
		}
	}()

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("rbin is listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	} else {
		log.Info().Msg("server shutdown complete")
	}
}
