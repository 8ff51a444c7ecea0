// Package server exposes the analysis pipeline over HTTP and serves the
// single-page symptom form.
package server

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Skufu/SymptomRx/internal/assistant"
	"github.com/Skufu/SymptomRx/internal/feedback"
	"github.com/Skufu/SymptomRx/internal/models"
)

//go:embed web/index.html
var indexHTML []byte

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Analyzer runs one symptom analysis.
type Analyzer interface {
	Analyze(ctx context.Context, q models.SymptomQuery) (*assistant.Analysis, error)
}

// ConditionLister lists the knowledge-base conditions.
type ConditionLister interface {
	Conditions() []string
}

// Deps are the collaborators the router needs. DB may be nil when the
// database is disabled.
type Deps struct {
	Analyzer   Analyzer
	Conditions ConditionLister
	Feedback   feedback.Store
	StoreName  string
	DB         HealthChecker
	Logger     *zap.Logger
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.StoreName == "" {
		d.StoreName = "csv"
	}
	h := &handlers{deps: d}

	router := gin.New()
	router.Use(
		requestID(),
		requestLogger(d.Logger),
		gin.Recovery(),
		limitBodySize(MaxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if d.DB == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled", "model": "loaded"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := d.DB.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
				"model":  "loaded",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok", "model": "loaded"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/analyze", h.analyze)
		api.GET("/conditions", h.conditions)
		api.POST("/feedback", h.feedback)
	}

	return router
}
