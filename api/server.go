package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/lunavein/tripo-relay-go/api/controllers"
	"github.com/lunavein/tripo-relay-go/api/middlewares"
	"github.com/lunavein/tripo-relay-go/api/notifyhub"
	"github.com/lunavein/tripo-relay-go/tool"
	"github.com/lunavein/tripo-relay-go/types"
)

// Server is the HTTP surface of the relay.
type Server struct {
	cfg       *types.AppConfig
	generator controllers.ModelGenerator
	publisher controllers.ModelPublisher
	hub       *notifyhub.Hub // nil disables the progress monitor websocket
	engine    *gin.Engine
	server    *http.Server
	mu        sync.RWMutex
}

// NewServer creates the API server. The collaborators come in as interfaces
// so tests can run the routes against fakes.
func NewServer(cfg *types.AppConfig, generator controllers.ModelGenerator, publisher controllers.ModelPublisher, hub *notifyhub.Hub) *Server {
	return &Server{
		cfg:       cfg,
		generator: generator,
		publisher: publisher,
		hub:       hub,
	}
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	engine.Use(middlewares.AllowAllCORS())
	engine.Use(gin.Recovery())

	genTimeout := time.Duration(s.cfg.Generation.TimeoutMinutes) * time.Minute

	uploadCtrl := controllers.NewUploadController(s.cfg.UploadFolder)
	streamCtrl := controllers.NewStreamController(s.generator, s.publisher, genTimeout, s.hub)
	generateCtrl := controllers.NewGenerateController(s.cfg.UploadFolder, s.generator, s.publisher, genTimeout)
	outputCtrl := controllers.NewOutputController(s.cfg.OutputFolder)

	uploadLimit := middlewares.UploadRateLimit(s.cfg.UploadRatePerSec, s.cfg.UploadRateBurst)

	engine.POST("/upload-images", uploadLimit, uploadCtrl.HandleUploadImages)
	engine.GET("/generate-3d-model-stream", streamCtrl.HandleGenerateModelStream)
	engine.POST("/generate-3d-model", uploadLimit, generateCtrl.HandleGenerateModel)
	engine.GET("/output/:filename", outputCtrl.HandleServeOutput)
	engine.GET("/model-qr", controllers.HandleModelQR)
	engine.GET("/status", controllers.HandleStatus(s.hub != nil))
	engine.GET("/config", controllers.HandleConfigGet)
	if s.hub != nil {
		engine.GET("/progress-ws", notifyhub.HandleProgressWS(s.hub))
	}

	return engine
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	engine := s.setupRoutes()

	s.mu.Lock()
	s.engine = engine
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: engine,
	}
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting API server on http://0.0.0.0:%d", s.cfg.Port)
	return s.server.ListenAndServe()
}
