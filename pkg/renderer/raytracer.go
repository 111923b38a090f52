package renderer

import (
	"fmt"
	"image"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetWorld() geometry.Shape
	GetPalette() *material.Palette
	GetSky() integrator.Sky
}

// SnapshotFunc receives a copy of the rows finished so far.
// It runs on a render worker, so slow callbacks slow the pass down.
type SnapshotFunc func(img *image.RGBA, completedRows int)

// Raytracer renders a scene into its pixel buffer, one blocking pass at a time
type Raytracer struct {
	config     RenderConfig
	camera     CameraConfig
	sampling   SamplingConfig
	pixels     *PixelBuffer
	logger     core.Logger
	onSnapshot SnapshotFunc

	snapshotBusy atomic.Bool
	snapshots    atomic.Int64
}

// NewRaytracer creates a raytracer with default camera and sampling settings
func NewRaytracer(config RenderConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		config:   config,
		camera:   DefaultCameraConfig(),
		sampling: DefaultSamplingConfig(),
		pixels:   NewPixelBuffer(max(config.Width, 0), max(config.Height, 0)),
		logger:   logger,
	}
}

// SetCameraConfig replaces the camera used by the next pass
func (rt *Raytracer) SetCameraConfig(config CameraConfig) {
	rt.camera = config
}

// CameraConfig returns the camera used by the next pass
func (rt *Raytracer) CameraConfig() CameraConfig {
	return rt.camera
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.sampling = config
}

// MergeSamplingConfig applies the non-zero fields of config
func (rt *Raytracer) MergeSamplingConfig(config SamplingConfig) {
	rt.sampling = MergeSamplingConfig(rt.sampling, config)
}

// SetSnapshotFunc installs the progress callback; nil disables snapshots
func (rt *Raytracer) SetSnapshotFunc(fn SnapshotFunc) {
	rt.onSnapshot = fn
}

// Pixels returns the buffer written by Render
func (rt *Raytracer) Pixels() *PixelBuffer {
	return rt.pixels
}

// Image converts the last finished pass to RGBA
func (rt *Raytracer) Image() *image.RGBA {
	return rt.pixels.ToRGBA()
}

// Render traces scene into the pixel buffer with a path tracer.
// It returns once every pixel has been written.
func (rt *Raytracer) Render(scene Scene) (RenderStats, error) {
	if err := rt.sampling.Validate(); err != nil {
		return RenderStats{}, err
	}
	pt := integrator.NewPathTracer(scene.GetWorld(), scene.GetPalette(), scene.GetSky(), rt.sampling.MaxDepth)
	return rt.RenderIntegrator(pt)
}

// RenderIntegrator runs one blocking pass with any integrator.
//
// Rows are claimed from a shared counter. Each pixel reseeds the worker's
// generator from (Seed, pixel index), so the image does not depend on the
// number of workers or on which worker rendered which row.
func (rt *Raytracer) RenderIntegrator(integ integrator.Integrator) (RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return RenderStats{}, err
	}
	if err := rt.sampling.Validate(); err != nil {
		return RenderStats{}, err
	}

	width, height := rt.config.Width, rt.config.Height
	spp := rt.sampling.SamplesPerPixel

	numWorkers := rt.config.Workers
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}
	numWorkers = min(numWorkers, height)

	camera := NewCamera(rt.camera, width, height)
	queue := newScanlineQueue(height)
	rt.pixels.resetRows()
	rt.snapshots.Store(0)

	rt.logger.Printf("Rendering %dx%d at %d samples/pixel, max depth %d, using %d workers...\n",
		width, height, spp, rt.sampling.MaxDepth, numWorkers)

	startTime := time.Now()
	runWorkers(numWorkers, func(workerID int) {
		pcg := rand.NewPCG(0, 0)
		random := rand.New(pcg)

		for {
			y, ok := queue.Next()
			if !ok {
				return
			}
			rt.renderRow(integ, camera, pcg, random, y)
			rt.pixels.markRowDone(y)
			rt.maybeSnapshot(y)
		}
	})
	duration := time.Since(startTime)

	stats := RenderStats{
		TotalPixels:  width * height,
		TotalSamples: width * height * spp,
		Rows:         rt.pixels.CompletedRows(),
		Workers:      numWorkers,
		Snapshots:    int(rt.snapshots.Load()),
		Duration:     duration,
	}

	rt.logger.Printf("Render completed in %s (%.0f samples/s)\n",
		HumanDuration(duration), stats.SamplesPerSecond())

	return stats, nil
}

// renderRow writes every pixel of row y exactly once
func (rt *Raytracer) renderRow(integ integrator.Integrator, camera *Camera, pcg *rand.PCG, random *rand.Rand, y int) {
	width := rt.config.Width
	spp := rt.sampling.SamplesPerPixel
	invSamples := 1.0 / float64(spp)

	for x := 0; x < width; x++ {
		pcg.Seed(rt.config.Seed, uint64(y*width+x))

		colorAccum := core.Black
		for sample := 0; sample < spp; sample++ {
			jitterX := random.Float64() - 0.5
			jitterY := random.Float64() - 0.5
			ray := camera.GetRay(x, y, jitterX, jitterY)
			colorAccum = colorAccum.Add(integ.RayColor(ray, random))
		}

		rt.pixels.Set(x, y, colorAccum.Multiply(invSamples))
	}
}

// maybeSnapshot offers a snapshot after row y. At most one snapshot is in
// flight; workers that find one running skip theirs.
func (rt *Raytracer) maybeSnapshot(y int) {
	every := rt.config.SnapshotEvery
	if every <= 0 || rt.onSnapshot == nil || y%every != 0 {
		return
	}
	if !rt.snapshotBusy.CompareAndSwap(false, true) {
		return
	}
	defer rt.snapshotBusy.Store(false)

	rt.onSnapshot(rt.pixels.Snapshot(), rt.pixels.CompletedRows())
	rt.snapshots.Add(1)
}
