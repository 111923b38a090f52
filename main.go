package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/loaders"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
)

// Config holds everything the command line controls
type Config struct {
	SceneType     string
	Width         int
	Height        int
	Samples       int // 0 keeps the scene default
	MaxDepth      int // 0 keeps the scene default
	Workers       int // 0 uses every logical CPU
	Seed          uint64
	SceneSeed     uint64
	Count         int
	ModelPath     string
	ModelScale    float64
	BVHDepth      int
	Frames        int
	OrbitRadius   float64 // 0 keeps the scene default
	SnapshotEvery int
	SnapshotPath  string
	Output        string
	Help          bool
}

// newFlagSet binds every command line flag to a field of config
func newFlagSet(config *Config, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&config.SceneType, "scene", "random-spheres", "Scene: 'default', 'random-spheres', 'spheres-on-plane', 'ply' or a 'ply:<name>' model")
	fs.IntVar(&config.Width, "width", 1920, "Image width in pixels")
	fs.IntVar(&config.Height, "height", 1080, "Image height in pixels")
	fs.IntVar(&config.Samples, "spp", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&config.MaxDepth, "depth", 0, "Maximum bounces per path (0 = scene default)")
	fs.IntVar(&config.Workers, "workers", 0, "Render goroutines (0 = one per logical CPU)")
	fs.Uint64Var(&config.Seed, "seed", 42, "Sampling seed")
	fs.Uint64Var(&config.SceneSeed, "scene-seed", 42, "Seed for randomly generated scenes")
	fs.IntVar(&config.Count, "count", 1000, "Number of spheres in the random scenes")
	fs.StringVar(&config.ModelPath, "model", "", "PLY file for the 'ply' scene")
	fs.Float64Var(&config.ModelScale, "model-scale", 1, "Uniform scale applied to the PLY model")
	fs.IntVar(&config.BVHDepth, "bvh-depth", 0, "Maximum BVH depth (0 = default)")
	fs.IntVar(&config.Frames, "frames", 1, "Number of frames on a full orbit around the scene")
	fs.Float64Var(&config.OrbitRadius, "orbit-radius", 0, "Orbit radius for multi-frame renders (0 = scene default)")
	fs.IntVar(&config.SnapshotEvery, "snapshot-every", 0, "Write an in-progress image every N rows (0 = never)")
	fs.StringVar(&config.SnapshotPath, "snapshot", "ongoing.png", "In-progress image path")
	fs.StringVar(&config.Output, "output", "output_bvh.png", "Output PNG; multi-frame renders add a frame number")
	fs.BoolVar(&config.Help, "help", false, "Show help information")
	return fs
}

// parseFlags reads the command line into a Config
func parseFlags(args []string, output io.Writer) (Config, error) {
	var config Config
	if err := newFlagSet(&config, output).Parse(args); err != nil {
		return config, err
	}

	if config.Frames <= 0 {
		return config, fmt.Errorf("frames must be positive, got %d", config.Frames)
	}
	if config.Count < 0 {
		return config, fmt.Errorf("count must not be negative, got %d", config.Count)
	}
	return config, nil
}

// createScene builds the scene named by config.SceneType
func createScene(config Config) (*scene.Scene, error) {
	opts := scene.DefaultOptions()
	opts.Count = config.Count
	opts.Seed = config.SceneSeed
	opts.ModelPath = config.ModelPath
	opts.ModelScale = config.ModelScale

	// A bare .ply path works as a scene name
	if strings.HasSuffix(strings.ToLower(config.SceneType), ".ply") {
		opts.ModelPath = config.SceneType
		config.SceneType = "ply"
	}

	s, err := scene.Lookup(config.SceneType, opts)
	if err != nil {
		return nil, err
	}

	s.BVHMaxDepth = config.BVHDepth
	if config.OrbitRadius > 0 {
		s.Orbit.Radius = config.OrbitRadius
	}
	s.SamplingConfig = renderer.MergeSamplingConfig(s.SamplingConfig, renderer.SamplingConfig{
		SamplesPerPixel: config.Samples,
		MaxDepth:        config.MaxDepth,
	})
	return s, nil
}

// frameFilename returns output unchanged for single frames, otherwise
// inserts a zero-padded frame number before the extension
func frameFilename(output string, frame, frames int) string {
	if frames <= 1 {
		return output
	}
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s_%04d%s", strings.TrimSuffix(output, ext), frame, ext)
}

// run renders every requested frame and writes each to disk
func run(ctx context.Context, config Config, logger core.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if info, err := renderer.GetSystemInfo(); err == nil {
		logger.Printf("Host: %s\n", info)
	} else {
		logger.Printf("Host: unknown (%v)\n", err)
	}

	s, err := createScene(config)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}
	logger.Printf("Scene %q: %d primitives, %d materials\n", config.SceneType, s.GetPrimitiveCount(), s.Palette.Len())

	buildStart := time.Now()
	bvh := s.BuildWorld()
	stats := bvh.Stats()
	logger.Printf("BVH Creation Time %s (%d nodes, %d leaves, depth %d)\n",
		renderer.HumanDuration(time.Since(buildStart)), stats.TotalNodes, stats.LeafNodes, stats.MaxDepth)

	rt := renderer.NewRaytracer(renderer.RenderConfig{
		Width:         config.Width,
		Height:        config.Height,
		Workers:       config.Workers,
		Seed:          config.Seed,
		SnapshotEvery: config.SnapshotEvery,
	}, logger)
	rt.SetSamplingConfig(s.SamplingConfig)

	if config.SnapshotEvery > 0 {
		rt.SetSnapshotFunc(func(img *image.RGBA, completedRows int) {
			if err := loaders.SavePNG(config.SnapshotPath, img); err != nil {
				logger.Printf("Snapshot failed: %v\n", err)
			}
		})
	}

	cameras := []renderer.CameraConfig{s.CameraConfig}
	if config.Frames > 1 {
		cameras = s.OrbitCameras(config.Frames)
	}

	frames, errs := rt.RenderFrames(ctx, s, cameras)
	for frame := range frames {
		filename := frameFilename(config.Output, frame.FrameNumber, len(cameras))
		if err := loaders.SavePNG(filename, frame.Image); err != nil {
			return err
		}
		logger.Printf("Frame: %d - %s, average luminance %.3f, saved as %s\n",
			frame.FrameNumber, renderer.HumanDuration(frame.Stats.Duration),
			renderer.CalculateAverageLuminance(frame.Image), filename)
	}
	return <-errs
}

func main() {
	config, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if config.Help {
		fmt.Println("BVH Path Tracer")
		fmt.Println("Usage: pathtracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		newFlagSet(&Config{}, os.Stdout).PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, info := range scene.BuiltInScenes() {
			fmt.Printf("  %-18s %s\n", info.ID, info.Description)
		}
		if models, err := scene.ListPLYModels(); err == nil {
			for _, info := range models {
				fmt.Printf("  %-18s %s\n", info.ID, info.DisplayName)
			}
		}
		return
	}

	// Ctrl-C stops after the frame in progress
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config, renderer.NewDefaultLogger()); err != nil {
		log.Printf("Error: %v", err)
		stop()
		os.Exit(1)
	}
}
