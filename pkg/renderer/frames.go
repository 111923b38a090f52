package renderer

import (
	"context"
	"image"
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// FrameResult contains the result of a single frame
type FrameResult struct {
	FrameNumber int
	Camera      CameraConfig
	Image       *image.RGBA
	Stats       RenderStats
	IsLast      bool
}

// OrbitCameras returns frames camera configs evenly spaced on a circle
// around center, each derived from base
func OrbitCameras(base CameraConfig, center core.Vec3, radius, height float64, frames int) []CameraConfig {
	cameras := make([]CameraConfig, 0, frames)
	for frame := 0; frame < frames; frame++ {
		config := base
		config.Orbit(center, radius, 2*math.Pi*float64(frame)/float64(frames), height)
		cameras = append(cameras, config)
	}
	return cameras
}

// RenderFrames renders one pass per camera and delivers each frame on the
// returned channel. The scene world is built by the caller once and shared
// by all frames. Cancellation is checked between frames; a pass that has
// started always runs to completion.
func (rt *Raytracer) RenderFrames(ctx context.Context, scene Scene, cameras []CameraConfig) (<-chan FrameResult, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(frameChan)
		defer close(errChan)

		rt.logger.Printf("Starting render of %d frames...\n", len(cameras))

		for i, camera := range cameras {
			select {
			case <-ctx.Done():
				rt.logger.Printf("Rendering cancelled before frame %d\n", i)
				errChan <- ctx.Err()
				return
			default:
			}

			rt.SetCameraConfig(camera)
			stats, err := rt.Render(scene)
			if err != nil {
				errChan <- err
				return
			}

			rt.logger.Printf("Frame %d completed in %s\n", i, HumanDuration(stats.Duration))

			result := FrameResult{
				FrameNumber: i,
				Camera:      camera,
				Image:       rt.Image(),
				Stats:       stats,
				IsLast:      i == len(cameras)-1,
			}

			select {
			case frameChan <- result:
			case <-ctx.Done():
				return
			}
		}
	}()

	return frameChan, errChan
}
