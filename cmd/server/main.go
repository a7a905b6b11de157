package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/parlametro/parlametro/internal/cache"
	"github.com/parlametro/parlametro/internal/config"
	"github.com/parlametro/parlametro/internal/database"
	"github.com/parlametro/parlametro/internal/errors"
	"github.com/parlametro/parlametro/internal/middleware"
	"github.com/parlametro/parlametro/internal/monitoring"
	"github.com/parlametro/parlametro/internal/ranking"
	"github.com/parlametro/parlametro/internal/ratelimit"
	"github.com/parlametro/parlametro/internal/repository"
	"github.com/parlametro/parlametro/internal/scoring"
	"github.com/parlametro/parlametro/internal/suppliers"
	"github.com/parlametro/parlametro/internal/topics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	db, err := database.NewDB(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer errors.SafeClose(db, "database")

	// Redis backs both the cache and the rate limiter when configured;
	// either concern degrades to its in-process variant without it.
	var store cache.Store
	var redisCache *cache.Redis
	if cfg.RedisAddr != "" {
		redisCache, err = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			slog.Warn("Redis unavailable, falling back to in-memory cache", "error", err)
		} else {
			defer errors.SafeClose(redisCache, "redis")
			store = redisCache
		}
	}
	if store == nil {
		store = cache.NewMemory()
	}

	var limiter *ratelimit.Limiter
	if redisCache != nil {
		limiter = ratelimit.New(redisCache.Client(), cfg.IPLimitPerMin)
	} else {
		limiter = ratelimit.New(nil, cfg.IPLimitPerMin)
	}

	metrics := monitoring.NewManager()

	repo := repository.New(db, cfg.Policy.ProductionWeights)
	calc := scoring.NewCalculator(cfg.Policy)
	resolver := suppliers.NewResolver(cfg.Policy.VendorAliases)
	extractor := topics.NewExtractor(cfg.Policy.TopicBlacklist, cfg.Policy.TopicLimit)

	svc := ranking.NewService(repo, calc, resolver, extractor, store, cfg.GlobalAverageTTL(), metrics)

	r := setupRouter(cfg, db, svc, limiter, metrics)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

func setupRouter(cfg *config.Config, db *database.DB, svc *ranking.Service, limiter *ratelimit.Limiter, metrics *monitoring.Manager) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())
	r.Use(metrics.Middleware())
	r.Use(errors.RecoveryHandler())
	r.Use(errors.ErrorHandler())
	r.Use(middleware.Gzip())
	r.Use(cors.Default())
	r.Use(limiter.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"database":  db.PoolStats(),
		})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1")

	rankings := api.Group("/rankings")

	rankings.GET("/performance", func(c *gin.Context) {
		limit, offset, err := pageParams(c)
		if err != nil {
			respondError(c, err)
			return
		}

		results, err := svc.PerformanceRanking(c.Request.Context(), limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}

		avg, err := svc.GlobalAverage(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"ranking":        results,
			"global_average": avg,
		})
	})

	rankings.GET("/expenses", func(c *gin.Context) {
		limit, offset, err := pageParams(c)
		if err != nil {
			respondError(c, err)
			return
		}

		entries, err := svc.ExpenseRanking(c.Request.Context(), c.Query("q"), c.Query("region"), limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"ranking": entries})
	})

	rankings.GET("/suppliers", func(c *gin.Context) {
		limit, offset, err := pageParams(c)
		if err != nil {
			respondError(c, err)
			return
		}

		entries, err := svc.SupplierRanking(c.Request.Context(), limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"ranking": entries})
	})

	rankings.GET("/speeches", func(c *gin.Context) {
		limit, offset, err := pageParams(c)
		if err != nil {
			respondError(c, err)
			return
		}

		entries, err := svc.SpeechRanking(c.Request.Context(), limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"ranking": entries})
	})

	politicians := api.Group("/politicians")

	politicians.GET("/:id/performance", func(c *gin.Context) {
		id, err := politicianID(c)
		if err != nil {
			respondError(c, err)
			return
		}

		year := 0
		if raw := c.Query("year"); raw != "" {
			year, err = strconv.Atoi(raw)
			if err != nil || year < 0 {
				respondError(c, errors.NewValidationError("year must be a non-negative integer"))
				return
			}
		}

		perf, err := svc.PerformanceForOne(c.Request.Context(), id, year)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, perf)
	})

	politicians.GET("/:id/timeline", func(c *gin.Context) {
		id, err := politicianID(c)
		if err != nil {
			respondError(c, err)
			return
		}

		timeline, err := svc.TimelineForOne(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, timeline)
	})

	return r
}

// pageParams parses limit/offset. Absent values default to 0 and let the
// service apply its own page sizing.
func pageParams(c *gin.Context) (limit, offset int, err error) {
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, 0, errors.NewValidationError("limit must be a non-negative integer")
		}
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, errors.NewValidationError("offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}

func politicianID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("politician id must be a positive integer")
	}
	return id, nil
}

func respondError(c *gin.Context, err error) {
	appErr := errors.ToAppError(err)
	errors.LogError(c, appErr)
	c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.ErrBuilder.Msg})
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
