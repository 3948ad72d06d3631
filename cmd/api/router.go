package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"leadintake/internal/config"
	"leadintake/internal/domain/admin"
	"leadintake/internal/domain/lead"
	"leadintake/internal/domain/leadview"
	"leadintake/internal/domain/upload"
	"leadintake/internal/metrics"
	"leadintake/internal/middleware"
	jwtsvc "leadintake/internal/pkg/jwt"
)

// multipart overhead allowed on top of the resume itself
const formOverhead = 1 << 20

type app struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	jwt     *jwtsvc.Service
	admin   *admin.Service
	leads   *lead.Service
	hub     *lead.Hub
	resumes *upload.Service
}

func newRouter(a *app) *gin.Engine {
	if a.cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(a.log),
		middleware.Recovery(a.log),
		middleware.CORS(a.cfg.CORSAllowedOrigins, a.cfg.IsProd()),
		metrics.GinMiddleware(a.metrics),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))

	api := r.Group("/api")
	protected := api.Group("", admin.AdminJWTAuth(a.jwt))

	admin.RegisterRoutes(api, protected, admin.NewAuthHandler(a.admin))

	leadHandler := lead.NewHandler(a.leads, a.hub, a.cfg.CORSAllowedOrigins, a.log)
	lead.RegisterPublicRoutes(api, leadHandler, middleware.BodyLimit(a.cfg.MaxResumeBytes+formOverhead))
	lead.RegisterAdminRoutes(protected, leadHandler)

	leadview.RegisterRoutes(protected, leadview.NewHandler(a.leads, a.hub, a.cfg.PageSize))
	upload.RegisterAdminRoutes(protected, upload.NewHandler(a.resumes))

	return r
}
