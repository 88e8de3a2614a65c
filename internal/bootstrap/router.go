package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/GoSim-25-26J-441/feast-registry/internal/api/http"
	"github.com/GoSim-25-26J-441/feast-registry/internal/api/http/middleware"
	registryhttp "github.com/GoSim-25-26J-441/feast-registry/internal/registry/http"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Health         httpapi.Pinger
	Registry       registryhttp.Registry
	Log            *zap.Logger
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	log := dep.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(log.Named("http")))
	if len(dep.AllowedOrigins) > 0 {
		r.Use(cors.New(corsConfig(dep.AllowedOrigins)))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Health)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/")
	api.Use(middleware.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))
	api.Use(middleware.Timeout(dep.RequestTimeout))

	registryHandler := registryhttp.New(dep.Registry, log.Named("registry"))
	registryHandler.Register(api)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
