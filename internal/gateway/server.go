// Package gateway is the thin HTTP bridge between the view-state
// controller and the local presentation layer. It forwards user
// intents into the controller's contracts unchanged and renders the
// derived state back out; it holds no logic of its own.
package gateway

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinica/prontuario-client/internal/config"
	"github.com/clinica/prontuario-client/internal/controller"
	"github.com/clinica/prontuario-client/pkg/logger"
)

type Server struct {
	engine *gin.Engine
	ctrl   *controller.Controller
	port   int
}

func NewServer(cfg config.GatewayConfig, ctrl *controller.Controller, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewLogger(nil)
	}
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{engine: engine, ctrl: ctrl, port: cfg.Port}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	api := s.engine.Group("/api")
	{
		api.POST("/login", s.handleLogin)
		api.POST("/register", s.handleRegister)
		api.POST("/register-assistente", s.handleRegisterAssistente)
		api.POST("/logout", s.handleLogout)
		api.GET("/session", s.handleSession)

		api.GET("/pacientes", s.handleVisiblePacientes)
		api.POST("/pacientes", s.handleCreatePaciente)
		api.POST("/pacientes/refresh", s.handleRefresh)
		api.POST("/medico", s.handleSetMedico)
		api.GET("/estado", s.handleEstado)
	}
}

// Run blocks serving the bridge.
func (s *Server) Run() error {
	return s.engine.Run(fmt.Sprintf(":%d", s.port))
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}
