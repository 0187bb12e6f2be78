package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"orion.app/api/internal/http/handler"
	"orion.app/api/internal/http/middleware"
	"orion.app/api/internal/service"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type RouterConfig struct {
	Verifier          *middleware.TokenVerifier
	Progress          handler.ProgressSubscriber
	ProgressKeepAlive time.Duration
	// Checked by /ready; /health only reports that the process is up.
	Dependencies map[string]Pinger
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{}
		status := http.StatusOK
		for name, dep := range cfg.Dependencies {
			if err := dep.Ping(ctx); err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
	})

	analyses := router.Group("/analyses")

	progressHandler := handler.NewProgressHandler(services.Analyses(), cfg.Progress, cfg.Verifier, cfg.ProgressKeepAlive)
	ProgressRouter(analyses, progressHandler)

	analysisHandler := handler.NewAnalysisHandler(services.Analyses())
	AnalysisRouter(analyses.Group("", middleware.RequireAuth(cfg.Verifier)), analysisHandler)
}
