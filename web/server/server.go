package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
)

// Request limits shared by the render, inspect and scene-config endpoints
const (
	minImageSize  = 16
	maxImageSize  = 2000
	maxSamples    = 10000
	maxDepthLimit = 100
	maxSpheres    = 100000
)

// Server handles web requests for the path tracer
type Server struct {
	port int
	echo *echo.Echo

	mu          sync.Mutex
	latestImage []byte // Most recent PNG produced by any render
	activeRuns  int
}

// NewServer creates a new web server with every route registered
func NewServer(port int) *Server {
	s := &Server{port: port}

	e := echo.New()
	e.HideBanner = true
	e.Use(corsMiddleware)

	e.GET("/api/health", s.handleHealth)
	e.GET("/api/status", s.handleStatus)
	e.GET("/api/scenes", s.handleScenes)
	e.GET("/api/scene-config", s.handleSceneConfig)
	e.GET("/api/render", s.handleRender)
	e.GET("/api/image", s.handleImage)
	e.GET("/api/inspect", s.handleInspect)

	s.echo = e
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// corsMiddleware lets a page served from anywhere call the API
func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}

		return next(c)
	}
}

// errorResponse is the JSON body of every failed request
func errorResponse(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// StatusResponse describes the host and current load
type StatusResponse struct {
	Host          string `json:"host"`
	Workers       int    `json:"workers"`
	ActiveRenders int    `json:"activeRenders"`
	HasImage      bool   `json:"hasImage"`
}

// handleStatus reports host details and whether renders are running
func (s *Server) handleStatus(c echo.Context) error {
	host := "unknown"
	if info, err := renderer.GetSystemInfo(); err == nil {
		host = info.String()
	}

	s.mu.Lock()
	response := StatusResponse{
		Host:          host,
		Workers:       renderer.DefaultWorkerCount(),
		ActiveRenders: s.activeRuns,
		HasImage:      s.latestImage != nil,
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, response)
}

// handleScenes lists built-in scenes and discovered PLY models
func (s *Server) handleScenes(c echo.Context) error {
	response, err := scene.ListAllScenes()
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, response)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(c echo.Context) error {
	sceneName := c.QueryParam("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.Lookup(sceneName, scene.DefaultOptions())
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	limits := func(lo, hi int) map[string]int {
		return map[string]int{"min": lo, "max": hi}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"samplesPerPixel": sceneObj.SamplingConfig.SamplesPerPixel,
			"maxDepth":        sceneObj.SamplingConfig.MaxDepth,
			"primitives":      sceneObj.GetPrimitiveCount(),
		},
		"limits": map[string]interface{}{
			"width":           limits(minImageSize, maxImageSize),
			"height":          limits(minImageSize, maxImageSize),
			"samplesPerPixel": limits(1, maxSamples),
			"maxDepth":        limits(1, maxDepthLimit),
			"count":           limits(1, maxSpheres),
		},
	})
}

// handleImage returns the most recent render or snapshot as PNG
func (s *Server) handleImage(c echo.Context) error {
	s.mu.Lock()
	data := s.latestImage
	s.mu.Unlock()

	if data == nil {
		return errorResponse(c, http.StatusNotFound, "no image rendered yet")
	}
	return c.Blob(http.StatusOK, "image/png", data)
}

// storeImage records the latest PNG for /api/image
func (s *Server) storeImage(data []byte) {
	s.mu.Lock()
	s.latestImage = data
	s.mu.Unlock()
}

func (s *Server) beginRender() {
	s.mu.Lock()
	s.activeRuns++
	s.mu.Unlock()
}

func (s *Server) endRender() {
	s.mu.Lock()
	s.activeRuns--
	s.mu.Unlock()
}
