// Package api exposes the planner over HTTP with gin.
package api

import (
	"net/http"
	"time"

	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/planner"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with middlewares and routes attached.
func NewRouter(p *planner.Planner, logger logging.Logger) *gin.Engine {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	r := gin.New()

	// Client IPs are not used.
	r.ForwardedByClientIP = false
	_ = r.SetTrustedProxies(nil)

	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(AccessLog(logger))

	r.NoRoute(func(c *gin.Context) {
		newError(c, http.StatusNotFound, "no such endpoint")
	})
	r.NoMethod(func(c *gin.Context) {
		newError(c, http.StatusMethodNotAllowed, "this HTTP method is not allowed for the endpoint you called")
	})

	h := &handler{planner: p, logger: logger}
	r.GET("/healthz", h.health)

	v1 := r.Group("/v1")
	{
		v1.POST("/plans", h.createPlan)
		v1.POST("/classifications", h.createClassification)
	}
	return r
}

// AccessLog logs one line per request through logger.
func AccessLog(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []logging.Field{
			logging.F(logging.FieldRequestID, requestid.Get(c)),
			logging.F("method", c.Request.Method),
			logging.F("path", c.Request.URL.Path),
			logging.F(logging.FieldStatus, status),
			logging.F(logging.FieldDuration, time.Since(start).Milliseconds()),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}
