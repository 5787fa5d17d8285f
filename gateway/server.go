package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tbxark/planagent/plan"
)

type ServerConfig struct {
	Addr  string
	Debug bool
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{Addr: ":8000"}
}

// Server exposes the generation gateway over HTTP: whole-plan
// generation on "/", single-activity regeneration on
// "/regenerate-activity". A nil Service means no credential was
// configured; every request then fails with a 500 and nothing else.
type Server struct {
	engine *gin.Engine
	svc    Service
	srv    *http.Server
}

func NewServer(svc Service, conf ServerConfig) *Server {
	if !conf.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	// Every response carries the wildcard origin, Origin header or not;
	// the cors middleware only answers actual CORS requests.
	engine.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
	})
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	s := &Server{
		engine: engine,
		svc:    svc,
		srv: &http.Server{
			Addr:         conf.Addr,
			Handler:      engine,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
	}
	engine.POST("/", s.handleGenerate)
	engine.POST("/regenerate-activity", s.handleRegenerate)
	return s
}

// Handler exposes the route tree for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run() error {
	slog.Info("gateway listening", "addr", s.srv.Addr, "credentialed", s.svc != nil)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleGenerate(c *gin.Context) {
	if s.svc == nil {
		c.String(http.StatusInternalServerError, "OpenAI API key is not configured.")
		return
	}
	var req plan.EventPlan
	if err := c.ShouldBindJSON(&req); err != nil || req.EventType == "" || req.Responses == nil {
		c.String(http.StatusBadRequest, "Missing eventType or responses")
		return
	}
	content, err := s.svc.GeneratePlan(c.Request.Context(), req)
	if err != nil {
		slog.Error("plan generation failed", "event_type", req.EventType, "error", err)
		c.String(http.StatusInternalServerError, "Error processing request")
		return
	}
	c.JSON(http.StatusOK, GenerateResponse{Schedule: content})
}

func (s *Server) handleRegenerate(c *gin.Context) {
	if s.svc == nil {
		c.String(http.StatusInternalServerError, "OpenAI API key is not configured.")
		return
	}
	var req RegenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Day == "" || req.Activity.Title == "" {
		c.String(http.StatusBadRequest, "Missing day or activity")
		return
	}
	act, err := s.svc.RegenerateActivity(c.Request.Context(), req.Day, req.Activity, req.Prompt)
	if err != nil {
		slog.Error("activity regeneration failed", "day", req.Day, "error", err)
		c.String(http.StatusInternalServerError, "Error processing request")
		return
	}
	c.JSON(http.StatusOK, RegenerateResponse{Activity: act})
}
