package web

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"misinfoguard/internal/config"
	"misinfoguard/internal/models"
	"misinfoguard/internal/render"
	"misinfoguard/internal/scan"
	"misinfoguard/pkg/logger"
)

// Backend is the subset of the analysis API proxied for status pages.
type Backend interface {
	Health(ctx context.Context) (models.Health, error)
	Metrics(ctx context.Context) (map[string]any, error)
	MemoryStats(ctx context.Context) (map[string]any, error)
}

// Server hosts a single scan controller behind a web page, the same way
// one browser tab owns one search box.
type Server struct {
	ctrl    *scan.Controller
	backend Backend
	rnd     *render.Renderer
	log     *logger.Logger
	page    render.PageOptions

	// scans outlive the request that started them
	scanCtx context.Context
}

func New(scanCtx context.Context, ctrl *scan.Controller, backend Backend, rnd *render.Renderer, log *logger.Logger, page render.PageOptions) *Server {
	return &Server{ctrl: ctrl, backend: backend, rnd: rnd, log: log, page: page, scanCtx: scanCtx}
}

type scanReq struct {
	Topic string `json:"topic" form:"topic"`
}

type scanResp struct {
	Accepted bool          `json:"accepted"`
	View     scan.Snapshot `json:"view"`
}

func (s *Server) Router(cfg config.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logRequest(s.log))
	r.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	r.GET("/", s.index)
	r.POST("/scan", s.submit)
	r.GET("/state", s.state)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	be := r.Group("/backend")
	{
		be.GET("/health", s.proxy(func(ctx context.Context) (any, error) { return s.backend.Health(ctx) }))
		be.GET("/metrics", s.proxy(func(ctx context.Context) (any, error) { return s.backend.Metrics(ctx) }))
		be.GET("/memory", s.proxy(func(ctx context.Context) (any, error) { return s.backend.MemoryStats(ctx) }))
	}
	return r
}

func (s *Server) index(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.rnd.Page(&buf, s.ctrl.View(), s.page); err != nil {
		s.log.Errorf("render page: %v", err)
		c.String(http.StatusInternalServerError, "render error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) submit(c *gin.Context) {
	var req scanReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	accepted := s.ctrl.Submit(s.scanCtx, req.Topic)

	if !wantsJSON(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	view := s.ctrl.View()
	status := http.StatusAccepted
	if !accepted {
		// a blank topic only fails validation when nothing is in flight;
		// otherwise the controller ignored it and the loading view stands
		status = http.StatusConflict
		if f, ok := view.(scan.Failed); ok && f.Kind == scan.ValidationError {
			status = http.StatusUnprocessableEntity
		}
	}
	c.JSON(status, scanResp{Accepted: accepted, View: scan.SnapshotOf(view)})
}

func (s *Server) state(c *gin.Context) {
	c.JSON(http.StatusOK, scan.SnapshotOf(s.ctrl.View()))
}

func (s *Server) proxy(call func(ctx context.Context) (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := call(c.Request.Context())
		if err != nil {
			s.log.Warnf("backend %s: %v", c.Request.URL.Path, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cc.AllowAllOrigins = true
			return cc
		}
	}
	cc.AllowOrigins = origins
	return cc
}

func wantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "application/json") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}

func logRequest(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Infof("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
