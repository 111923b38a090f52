package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/loaders"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string `json:"scene"`           // Scene ID accepted by scene.Lookup
	Width           int    `json:"width"`           // Image width
	Height          int    `json:"height"`          // Image height
	SamplesPerPixel int    `json:"samplesPerPixel"` // 0 keeps the scene default
	MaxDepth        int    `json:"maxDepth"`        // 0 keeps the scene default
	Seed            uint64 `json:"seed"`            // Sampling seed
	SceneSeed       uint64 `json:"sceneSeed"`       // Seed for random scenes
	Count           int    `json:"count"`           // Sphere count for random scenes
	SnapshotEvery   int    `json:"snapshotEvery"`   // Rows between progress images (0 = none)
}

// SSEEvent represents one Server-Sent Event
type SSEEvent struct {
	Type string `json:"type"` // "console", "snapshot", "error", "complete"
	Data string `json:"data"` // JSON-encoded payload or plain message
}

// SnapshotUpdate carries a partial image while a pass is running
type SnapshotUpdate struct {
	CompletedRows int    `json:"completedRows"`
	TotalRows     int    `json:"totalRows"`
	ImageData     string `json:"imageData"` // Base64 encoded PNG
	ElapsedMs     int64  `json:"elapsedMs"`
}

// CompleteUpdate carries the finished image
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	Workers          int     `json:"workers"`
	Snapshots        int     `json:"snapshots"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	Primitives       int     `json:"primitives"`
	BVHNodes         int     `json:"bvhNodes"`
	BVHDepth         int     `json:"bvhDepth"`
	AverageLuminance float64 `json:"averageLuminance"`
}

// parseRenderRequest binds and validates the query parameters
func parseRenderRequest(c echo.Context) (*RenderRequest, error) {
	req := &RenderRequest{
		Scene:         "default",
		Width:         400,
		Height:        225,
		Seed:          42,
		SceneSeed:     42,
		Count:         1000,
		SnapshotEvery: 16,
	}

	err := echo.QueryParamsBinder(c).
		String("scene", &req.Scene).
		Int("width", &req.Width).
		Int("height", &req.Height).
		Int("samplesPerPixel", &req.SamplesPerPixel).
		Int("maxDepth", &req.MaxDepth).
		Uint64("seed", &req.Seed).
		Uint64("sceneSeed", &req.SceneSeed).
		Int("count", &req.Count).
		Int("snapshotEvery", &req.SnapshotEvery).
		BindError()
	if err != nil {
		return nil, fmt.Errorf("invalid parameter: %w", err)
	}

	checks := []struct {
		name   string
		value  int
		lo, hi int
	}{
		{"width", req.Width, minImageSize, maxImageSize},
		{"height", req.Height, minImageSize, maxImageSize},
		{"samplesPerPixel", req.SamplesPerPixel, 0, maxSamples},
		{"maxDepth", req.MaxDepth, 0, maxDepthLimit},
		{"count", req.Count, 1, maxSpheres},
		{"snapshotEvery", req.SnapshotEvery, 0, maxImageSize},
	}
	for _, check := range checks {
		if err := checkRange(check.name, check.value, check.lo, check.hi); err != nil {
			return nil, err
		}
	}

	return req, nil
}

// checkRange reports values outside [lo, hi]
func checkRange(name string, value, lo, hi int) error {
	if value < lo || value > hi {
		return fmt.Errorf("%s must be between %d and %d, got: %d", name, lo, hi, value)
	}
	return nil
}

// createScene builds the requested scene with the request's overrides
func createScene(req *RenderRequest) (*scene.Scene, error) {
	opts := scene.DefaultOptions()
	opts.Count = req.Count
	opts.Seed = req.SceneSeed

	sceneObj, err := scene.Lookup(req.Scene, opts)
	if err != nil {
		return nil, err
	}
	sceneObj.SamplingConfig = renderer.MergeSamplingConfig(sceneObj.SamplingConfig, renderer.SamplingConfig{
		SamplesPerPixel: req.SamplesPerPixel,
		MaxDepth:        req.MaxDepth,
	})
	return sceneObj, nil
}

// handleRender renders one frame and streams console lines, partial
// snapshots and the final image as Server-Sent Events
func (s *Server) handleRender(c echo.Context) error {
	req, err := parseRenderRequest(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}
	sceneObj, err := createScene(req)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	setSSEHeaders(c)
	c.Response().WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	events := make(chan SSEEvent, 32)
	consoleChan := make(chan ConsoleMessage, 64)
	logger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), consoleChan)

	go s.runRender(ctx, req, sceneObj, logger, events)

	// Single writer: every event goes through this loop
	for {
		select {
		case event, ok := <-events:
			if !ok {
				flushConsole(c, consoleChan)
				return nil
			}
			if err := writeSSEEvent(c, event); err != nil {
				return nil
			}
		case msg := <-consoleChan:
			if err := writeConsoleEvent(c, msg); err != nil {
				return nil
			}
		case <-ctx.Done():
			// Client disconnected
			return nil
		}
	}
}

// runRender performs the render and closes events when done. Snapshot
// events are dropped when the client falls behind; the final result and
// errors wait for the client unless it disconnects.
func (s *Server) runRender(ctx context.Context, req *RenderRequest, sceneObj *scene.Scene, logger core.Logger, events chan<- SSEEvent) {
	defer close(events)
	s.beginRender()
	defer s.endRender()

	send := func(event SSEEvent) {
		select {
		case events <- event:
		case <-ctx.Done():
		}
	}

	startTime := time.Now()
	bvhStats := sceneObj.BuildWorld().Stats()
	logger.Printf("Scene %s: %d primitives, BVH with %d nodes (depth %d)\n",
		req.Scene, sceneObj.GetPrimitiveCount(), bvhStats.TotalNodes, bvhStats.MaxDepth)

	rt := renderer.NewRaytracer(renderer.RenderConfig{
		Width:         req.Width,
		Height:        req.Height,
		Seed:          req.Seed,
		SnapshotEvery: req.SnapshotEvery,
	}, logger)
	rt.SetSamplingConfig(sceneObj.SamplingConfig)

	rt.SetSnapshotFunc(func(img *image.RGBA, completedRows int) {
		data, err := encodeImage(img)
		if err != nil {
			logger.Printf("Snapshot failed: %v\n", err)
			return
		}
		s.storeImage(data)

		payload, _ := json.Marshal(SnapshotUpdate{
			CompletedRows: completedRows,
			TotalRows:     req.Height,
			ImageData:     base64.StdEncoding.EncodeToString(data),
			ElapsedMs:     time.Since(startTime).Milliseconds(),
		})
		select {
		case events <- SSEEvent{Type: "snapshot", Data: string(payload)}:
		default:
		}
	})

	frames, errs := rt.RenderFrames(ctx, sceneObj, []renderer.CameraConfig{sceneObj.CameraConfig})
	for frame := range frames {
		data, err := encodeImage(frame.Image)
		if err != nil {
			send(SSEEvent{Type: "error", Data: err.Error()})
			continue
		}
		s.storeImage(data)

		payload, _ := json.Marshal(CompleteUpdate{
			ImageData: base64.StdEncoding.EncodeToString(data),
			Stats: Stats{
				TotalPixels:      frame.Stats.TotalPixels,
				TotalSamples:     frame.Stats.TotalSamples,
				Workers:          frame.Stats.Workers,
				Snapshots:        frame.Stats.Snapshots,
				SamplesPerSecond: frame.Stats.SamplesPerSecond(),
				Primitives:       sceneObj.GetPrimitiveCount(),
				BVHNodes:         bvhStats.TotalNodes,
				BVHDepth:         bvhStats.MaxDepth,
				AverageLuminance: renderer.CalculateAverageLuminance(frame.Image),
			},
			ElapsedMs: time.Since(startTime).Milliseconds(),
		})
		send(SSEEvent{Type: "complete", Data: string(payload)})
	}

	if err := <-errs; err != nil {
		send(SSEEvent{Type: "error", Data: fmt.Sprintf("Render error: %v", err)})
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(c echo.Context) {
	header := c.Response().Header()
	header.Set(echo.HeaderContentType, "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
}

// writeSSEEvent writes and flushes one event
func writeSSEEvent(c echo.Context, event SSEEvent) error {
	if _, err := fmt.Fprintf(c.Response(), "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	c.Response().Flush()
	return nil
}

func writeConsoleEvent(c echo.Context, msg ConsoleMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return writeSSEEvent(c, SSEEvent{Type: "console", Data: string(data)})
}

// flushConsole writes console lines still queued when the render ends
func flushConsole(c echo.Context, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			if err := writeConsoleEvent(c, msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

// encodeImage converts an image to PNG bytes
func encodeImage(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := loaders.EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
