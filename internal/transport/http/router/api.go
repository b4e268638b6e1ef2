package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"studio-site-api/internal/core/config"
	"studio-site-api/internal/core/server"
	"studio-site-api/internal/service"
	"studio-site-api/internal/transport/http/handler"
	mdw "studio-site-api/internal/transport/http/middleware"
	resp "studio-site-api/internal/transport/http/response"
)

type Deps struct {
	Log      *zap.Logger
	Auth     *service.AuthService
	Team     *service.TeamService
	Projects *service.ProjectService
	Contact  *service.ContactService

	Cookie      handler.CookieConfig
	Limits      config.Limits
	AllowOrigin []string
	Env         string
	Mode        string
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, server.Options{Mode: d.Mode, AllowOrigins: d.AllowOrigin})
	started := time.Now()

	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(d.Log),
		mdw.Metrics(),
	)
	if d.Limits.GlobalRPS > 0 {
		r.Use(mdw.RateLimit(rate.Limit(d.Limits.GlobalRPS), d.Limits.GlobalBurst))
	}
	if d.Limits.MaxConcurrent > 0 {
		r.Use(mdw.ConcurrencyLimit(d.Limits.MaxConcurrent))
	}
	if d.Limits.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(d.Limits.MaxBodyBytes))
	}
	if d.Limits.RequestTimeout > 0 {
		r.Use(mdw.Timeout(time.Duration(d.Limits.RequestTimeout) * time.Second))
	}
	r.Use(mdw.SimpleRecovery(d.Log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     "Server is running successfully",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": d.Env,
			"uptime":      time.Since(started).Seconds(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(http.StatusNotFound, "Not found - "+c.Request.URL.Path))
	})

	api := r.Group("/api", mdw.Authenticate(d.Auth, d.Cookie.Name))
	api.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Studio site API is running",
			"version": "1.0.0",
			"endpoints": gin.H{
				"auth":     "/api/auth",
				"team":     "/api/team",
				"projects": "/api/projects",
				"contact":  "/api/contact",
			},
		})
	})

	var reg Registry
	reg.Register(
		handler.NewAuthHandler(d.Auth, d.Cookie, perIP(d.Limits.AuthRPS, d.Limits.AuthBurst)),
		handler.NewTeamHandler(d.Team),
		handler.NewProjectHandler(d.Projects),
		handler.NewContactHandler(d.Contact, perIP(d.Limits.ContactRPS, d.Limits.ContactBurst)),
	)
	reg.MountAll(api)
	return r
}

func perIP(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	return mdw.RateLimitPerIP(rate.Limit(rps), burst)
}
