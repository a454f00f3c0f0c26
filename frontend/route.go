package frontend

import (
	"net/http"
	"path/filepath"

	"github.com/bdfreeman1421/WoWAnalyzer/analysispool"
	"github.com/bdfreeman1421/WoWAnalyzer/config"

	"github.com/dpapathanasiou/go-recaptcha"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

type server struct {
	pool    *analysispool.Pool
	uploads *semaphore.Weighted

	publicDir string

	// nil when no recaptcha secret is configured
	confirm func(remoteAddr, token string) bool
}

func newServer(cfg *config.Config, pool *analysispool.Pool) *server {
	maxUploads := cfg.Server.MaxUploads
	if maxUploads < 1 {
		maxUploads = 1
	}

	s := &server{
		pool:      pool,
		uploads:   semaphore.NewWeighted(int64(maxUploads)),
		publicDir: cfg.Server.PublicDir,
	}
	if cfg.RecaptchaSecret != "" {
		recaptcha.Init(cfg.RecaptchaSecret)
		s.confirm = func(addr, token string) bool {
			ok, err := recaptcha.Confirm(addr, token)
			return err == nil && ok
		}
	}
	return s
}

func Route(g *gin.Engine, cfg *config.Config, pool *analysispool.Pool) {
	newServer(cfg, pool).route(g)
}

func (s *server) route(g *gin.Engine) {
	dir := s.publicDir
	g.Static("/static", filepath.Join(dir, "static"))

	g.Use(gin.ErrorLogger())
	g.Use(gin.Recovery())

	g.NoMethod(func(c *gin.Context) { c.Redirect(http.StatusTemporaryRedirect, "/") })
	g.NoRoute(func(c *gin.Context) { c.Redirect(http.StatusTemporaryRedirect, "/") })

	g.StaticFile("/", filepath.Join(dir, "index.htm"))
	g.GET("/analysis", s.routeRequest)

	api := g.Group("/api")
	api.GET("/specs", routeSpecs)
	api.GET("/status", s.routeStatus)
	api.POST("/analyze", s.routeAnalyze)
}
