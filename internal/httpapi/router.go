// Package httpapi wires the condition-evaluation engine up as a Gin HTTP
// service.
package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nucypher/condition-lingo-go/internal/interfaces/http/middleware"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/providers"
)

// NewRouter builds the Gin engine exposing the evaluate, health, and
// metrics endpoints.
func NewRouter(mgr *providers.Manager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	r.GET("/healthz", Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := NewHandler(mgr)
	v1 := r.Group("/v1")
	{
		v1.POST("/conditions/evaluate", h.Evaluate)
	}

	return r
}
