// Package server exposes a session over HTTP.
package server

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xtding233/petgacha/internal/savestore"
	"github.com/xtding233/petgacha/internal/session"
)

type Options struct {
	RateLimit float64 // requests/s; 0 disables
	Burst     int
}

type Server struct {
	engine *gin.Engine
	srv    *nethttp.Server
	sess   *session.Session
	saves  savestore.Store
	log    *zap.Logger
}

func New(addr string, sess *session.Session, saves savestore.Store, log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(AccessLog(log))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	s := &Server{
		engine: engine,
		sess:   sess,
		saves:  saves,
		log:    log,
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
	api := engine.Group("", RateLimit(opts.RateLimit, opts.Burst))
	s.routes(api)
	return s
}

func (s *Server) routes(r *gin.RouterGroup) {
	r.GET("/state", s.state)
	r.POST("/player", s.setPlayer)
	r.POST("/starter/:id", s.selectStarter)
	r.POST("/creatures/:id/train", s.train)
	r.POST("/creatures/:id/feed", s.feed)
	r.GET("/party", s.party)
	r.POST("/party/:id", s.summon)
	r.DELETE("/party/:id", s.dismiss)

	r.GET("/pools", s.pools)
	r.GET("/pools/:pool/simulate", s.simulate)
	r.POST("/pull/:pool", s.pull)
	r.POST("/pull/:pool/ten", s.tenPull)

	r.POST("/structures", s.place)
	r.POST("/structures/:id/harvest", s.harvestStructure)
	r.POST("/structures/:id/assign", s.assign)
	r.POST("/base/upgrade", s.upgrade)
	r.POST("/recruit", s.recruit)
	r.POST("/research/:id", s.research)

	r.POST("/farm/plots", s.till)
	r.POST("/farm/plant", s.plant)
	r.POST("/farm/harvest", s.harvestCrop)
	r.POST("/monsters/:id/hit", s.hit)
	r.POST("/tick", s.tick)
	r.POST("/day", s.day)

	r.GET("/saves", s.listSaves)
	r.POST("/save/:slot", s.save)
	r.POST("/load/:slot", s.load)
}

// Start serves HTTP (blocking). It returns net/http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}
