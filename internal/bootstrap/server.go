package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/paraglide/api"
	"github.com/Domenick1991/paraglide/config"
	"github.com/Domenick1991/paraglide/internal/middleware"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const swaggerDoc = "/swagger/paraglide.swagger.json"

// Handlers are the API groups mounted under /api. Nil handlers are skipped.
type Handlers struct {
	Locations *api.LocationHandler
	Sessions  *api.SessionHandler
	Bookings  *api.BookingHandler
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

func NewRouter(cfg config.HTTPConfig, logger *zap.Logger, h Handlers, checks map[string]HealthCheck) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(logger),
		middleware.RequestLogger(logger),
		middleware.CORS(cfg),
		middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger),
	)

	r.GET("/healthz", healthz(checks))

	group := r.Group("/api")
	if h.Locations != nil {
		h.Locations.Register(group)
	}
	if h.Sessions != nil {
		h.Sessions.Register(group.Group("/sessions"))
	}
	if h.Bookings != nil {
		h.Bookings.Register(group.Group("/bookings"))
	}

	if cfg.SwaggerDir != "" {
		r.Static("/swagger", cfg.SwaggerDir)
		r.GET("/docs", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
		})
		r.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerDoc))))
	}
	return r
}

func healthz(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		failed := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "failed": failed})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Run serves handler on cfg.HTTP.Address and blocks until ctx is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("address", cfg.HTTP.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Info("http server stopped")
		return nil
	}
}
