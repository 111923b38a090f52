package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/loaders"
)

const testPLY = `ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
0 1 0
3 0 1 2
`

func TestParseFlags(t *testing.T) {
	config, err := parseFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if config.SceneType != "random-spheres" || config.Width != 1920 || config.Height != 1080 {
		t.Errorf("Unexpected defaults %+v", config)
	}
	if config.Count != 1000 || config.Frames != 1 || config.Seed != 42 {
		t.Errorf("Unexpected defaults %+v", config)
	}

	config, err = parseFlags([]string{"-scene", "default", "-spp", "8", "-frames", "3", "-workers", "2"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if config.SceneType != "default" || config.Samples != 8 || config.Frames != 3 || config.Workers != 2 {
		t.Errorf("Flags not applied: %+v", config)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero frames", []string{"-frames", "0"}},
		{"negative count", []string{"-count", "-1"}},
		{"unknown flag", []string{"-bogus"}},
		{"bad number", []string{"-width", "wide"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseFlags(tt.args, io.Discard); err == nil {
				t.Error("Expected an error")
			}
		})
	}

	if _, err := parseFlags([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Expected flag.ErrHelp for -h, got %v", err)
	}
}

func TestCreateScene(t *testing.T) {
	plyPath := filepath.Join(t.TempDir(), "tri.ply")
	if err := os.WriteFile(plyPath, []byte(testPLY), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		sceneType   string
		modelPath   string
		expectError bool
	}{
		{"default scene", "default", "", false},
		{"random spheres", "random-spheres", "", false},
		{"spheres on plane", "spheres-on-plane", "", false},
		{"ply with model flag", "ply", plyPath, false},
		{"ply path as scene", plyPath, "", false},
		{"ply without model", "ply", "", true},
		{"missing ply path", filepath.Join(t.TempDir(), "missing.ply"), "", true},
		{"unknown scene", "cornell", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := parseFlags([]string{"-count", "10", "-spp", "3", "-bvh-depth", "5", "-orbit-radius", "7"}, io.Discard)
			if err != nil {
				t.Fatal(err)
			}
			config.SceneType = tt.sceneType
			config.ModelPath = tt.modelPath

			s, err := createScene(config)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if s != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if s.SamplingConfig.SamplesPerPixel != 3 {
				t.Errorf("Expected -spp to override samples, got %d", s.SamplingConfig.SamplesPerPixel)
			}
			if s.SamplingConfig.MaxDepth <= 0 {
				t.Errorf("Expected the scene's max depth to survive, got %d", s.SamplingConfig.MaxDepth)
			}
			if s.BVHMaxDepth != 5 || s.Orbit.Radius != 7 {
				t.Errorf("Expected BVH depth 5 and orbit radius 7, got %d and %f", s.BVHMaxDepth, s.Orbit.Radius)
			}
		})
	}
}

func TestFrameFilename(t *testing.T) {
	tests := []struct {
		output   string
		frame    int
		frames   int
		expected string
	}{
		{"output_bvh.png", 0, 1, "output_bvh.png"},
		{"output_bvh.png", 3, 10, "output_bvh_0003.png"},
		{filepath.Join("video", "orbit.png"), 12, 60, filepath.Join("video", "orbit_0012.png")},
		{"frame", 1, 2, "frame_0001"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := frameFilename(tt.output, tt.frame, tt.frames); got != tt.expected {
				t.Errorf("frameFilename(%q, %d, %d) = %q, want %q", tt.output, tt.frame, tt.frames, got, tt.expected)
			}
		})
	}
}

func TestRun_WritesEveryFrame(t *testing.T) {
	dir := t.TempDir()
	config, err := parseFlags([]string{
		"-scene", "random-spheres",
		"-count", "20",
		"-width", "12",
		"-height", "8",
		"-spp", "2",
		"-depth", "3",
		"-workers", "2",
		"-frames", "2",
		"-snapshot-every", "4",
		"-snapshot", filepath.Join(dir, "ongoing.png"),
		"-output", filepath.Join(dir, "frames", "orbit.png"),
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	if err := run(context.Background(), config, core.NopLogger{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, name := range []string{"orbit_0000.png", "orbit_0001.png"} {
		img, err := loaders.LoadPNG(filepath.Join(dir, "frames", name))
		if err != nil {
			t.Fatalf("Missing frame %s: %v", name, err)
		}
		if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 8 {
			t.Errorf("Frame %s has bounds %v", name, img.Bounds())
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "ongoing.png")); err != nil {
		t.Errorf("Expected a snapshot file: %v", err)
	}
}

func TestRun_CancelledBeforeFirstFrame(t *testing.T) {
	config, err := parseFlags([]string{"-scene", "default", "-width", "4", "-height", "4",
		"-output", filepath.Join(t.TempDir(), "out.png")}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := run(ctx, config, core.NopLogger{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
