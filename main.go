package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/addissongs/song-service/handlers"
	"github.com/addissongs/song-service/internal/config"
	"github.com/addissongs/song-service/internal/database"
	"github.com/addissongs/song-service/internal/oidc"
	"github.com/addissongs/song-service/internal/revocation"
	"github.com/addissongs/song-service/internal/song/handler"
	"github.com/addissongs/song-service/internal/song/repository"
	"github.com/addissongs/song-service/internal/song/service"
	"github.com/addissongs/song-service/internal/storage"
	"github.com/addissongs/song-service/pkg/logger"
	"github.com/addissongs/song-service/pkg/metrics"
	"github.com/addissongs/song-service/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging level controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: identity=%v mongo=%v redis=%v storage=%v",
		cfg.Identity.IssuerURL != "" || cfg.Identity.JWTKey != "",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Storage.Endpoint != "")

	r := gin.New()
	r.Use(middleware.CORS())
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Errorf("panic recovered: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong!"})
	}))
	r.Use(middleware.RequestMetrics())

	// Connect to Redis early so the rate limiter and the token denylist can
	// use it when configured
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			rdb = nil
		} else {
			revocation.SetClient(rdb)
			logger.Infof("Connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Token verifier: OIDC discovery when an issuer is configured, otherwise
	// local verification against the shared signing key
	ctx := context.Background()
	var verifier middleware.Verifier
	if cfg.Identity.IssuerURL != "" && cfg.Identity.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.Identity.IssuerURL, cfg.Identity.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
			logger.Infof("token verification via OIDC issuer %s", cfg.Identity.IssuerURL)
		}
	}
	if verifier == nil && cfg.Identity.JWTKey != "" {
		verifier = oidc.NewLocalVerifier(cfg.Identity.JWTKey)
		logger.Infof("token verification via local signing key")
	}
	if verifier == nil {
		logger.Warnf("no identity provider configured; all authenticated routes will reject")
	}

	// Connect to MongoDB with retry/backoff to tolerate startup races
	const maxAttempts = 5
	backoff := time.Second
	var client *mongo.Client
	var errConn error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if errConn == nil {
			break
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if errConn != nil {
		logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	col := client.Database(cfg.MongoDB.Database).Collection("songs")
	repo := repository.NewMongoRepo(col, cfg.MongoDB.QueryTimeout)
	svc := service.NewService(repo)

	// Optional MinIO-backed cover art store; cover routes stay unregistered
	// when storage is not configured
	var covers storage.CoverStore
	if cfg.Storage.Endpoint != "" {
		cs, err := storage.NewMinIOCoverStore(cfg.Storage)
		if err != nil {
			logger.Warnf("failed to initialize cover art store: %v", err)
		} else {
			covers = cs
			logger.Infof("cover art stored in bucket %q at %s", cfg.Storage.Bucket, cfg.Storage.Endpoint)
		}
	}

	handler.NewHandler(svc, covers).Register(r, verifier)
	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	// readiness: 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["mongodb"] = client.Ping(c.Request.Context(), nil) == nil
		if !deps["mongodb"] {
			ready = false
		}

		// identity readiness: a provider was configured so a verifier must exist
		if cfg.Identity.IssuerURL != "" || cfg.Identity.JWTKey != "" {
			deps["identity"] = verifier != nil
			if !deps["identity"] {
				ready = false
			}
		} else {
			deps["identity"] = true
		}

		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = rdb != nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting song service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
