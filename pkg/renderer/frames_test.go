package renderer

import (
	"context"
	"math"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

func skyScene() MockScene {
	return MockScene{
		world:   geometry.NewShapeList(),
		palette: material.NewPalette(),
		sky:     integrator.DefaultSky(),
	}
}

func TestOrbitCameras(t *testing.T) {
	center := core.NewVec3(0, 0, 0)
	cameras := OrbitCameras(DefaultCameraConfig(), center, 25, 25, 4)

	if len(cameras) != 4 {
		t.Fatalf("Expected 4 cameras, got %d", len(cameras))
	}
	expected := []core.Vec3{
		core.NewVec3(25, 25, 0),
		core.NewVec3(0, 25, 25),
		core.NewVec3(-25, 25, 0),
		core.NewVec3(0, 25, -25),
	}
	for i, camera := range cameras {
		if !vecNear(camera.Origin, expected[i], 1e-9) {
			t.Errorf("Frame %d: expected origin %v, got %v", i, expected[i], camera.Origin)
		}
		if camera.LookAt != center {
			t.Errorf("Frame %d: expected to look at the center", i)
		}
		if math.Abs(camera.FocalLength-1) > 0 {
			t.Errorf("Frame %d: base fields should be kept", i)
		}
	}
}

func TestRenderFrames_DeliversEveryFrame(t *testing.T) {
	rt := newTestRaytracer(6, 4, 2, 1)
	cameras := OrbitCameras(DefaultCameraConfig(), core.NewVec3(0, 0, 0), 5, 1, 3)

	frames, errs := rt.RenderFrames(context.Background(), skyScene(), cameras)

	count := 0
	for frame := range frames {
		if frame.FrameNumber != count {
			t.Errorf("Expected frame %d, got %d", count, frame.FrameNumber)
		}
		if frame.Image == nil || frame.Image.Bounds().Dx() != 6 {
			t.Errorf("Frame %d: unexpected image", count)
		}
		if frame.Camera != cameras[count] {
			t.Errorf("Frame %d: camera mismatch", count)
		}
		if frame.IsLast != (count == 2) {
			t.Errorf("Frame %d: IsLast=%t", count, frame.IsLast)
		}
		count++
	}
	if err := <-errs; err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 frames, got %d", count)
	}
}

func TestRenderFrames_Cancelled(t *testing.T) {
	rt := newTestRaytracer(4, 4, 1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames, errs := rt.RenderFrames(ctx, skyScene(), OrbitCameras(DefaultCameraConfig(), core.Vec3{}, 5, 0, 2))
	for range frames {
		t.Error("No frame should be rendered after cancellation")
	}
	if err := <-errs; err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRenderFrames_PropagatesError(t *testing.T) {
	rt := newTestRaytracer(4, 4, 1, 0)

	frames, errs := rt.RenderFrames(context.Background(), skyScene(), []CameraConfig{DefaultCameraConfig()})
	for range frames {
		t.Error("Invalid config should not produce frames")
	}
	if err := <-errs; err == nil {
		t.Error("Expected validation error")
	}
}
