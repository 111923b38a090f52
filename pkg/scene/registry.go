package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// ErrUnknownScene is returned by Lookup for IDs it cannot resolve
var ErrUnknownScene = errors.New("unknown scene")

// Options carries the parameters some scenes need beyond a camera override
type Options struct {
	Count       int       // Sphere count for the random scenes
	Seed        uint64    // Scene generation seed for the random scenes
	ModelPath   string    // PLY file for the "ply" scene
	ModelScale  float64   // Uniform scale applied to the mesh (0 = 1)
	ModelOffset core.Vec3 // Translation applied after scaling
	Camera      renderer.CameraConfig
}

// DefaultOptions matches the classic 1000 sphere benchmark
func DefaultOptions() Options {
	return Options{
		Count:      1000,
		Seed:       42,
		ModelScale: 1,
	}
}

// BuiltInScenes lists the scenes Lookup can build without any files
func BuiltInScenes() []SceneInfo {
	return []SceneInfo{
		{
			ID:          "default",
			Name:        "Default Scene",
			DisplayName: "Default Scene",
			Description: "Metal, mirror and glass spheres with a cube on a ground sphere",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		{
			ID:          "random-spheres",
			Name:        "Random Spheres",
			DisplayName: "Random Spheres",
			Description: "A volume of randomly sized spheres with random materials",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		{
			ID:          "spheres-on-plane",
			Name:        "Spheres On Plane",
			DisplayName: "Spheres On Plane",
			Description: "Random spheres resting on a ground plane",
			Group:       builtInGroup,
			Type:        "builtin",
		},
	}
}

// Lookup builds the scene with the given ID. Besides the built-in IDs it
// accepts "ply" (mesh from opts.ModelPath) and the "ply:<name>" IDs
// reported by ListPLYModels.
func Lookup(id string, opts Options) (*Scene, error) {
	switch id {
	case "default", "":
		return NewDefaultScene(opts.Camera), nil
	case "random-spheres":
		return NewRandomSpheresScene(opts.Count, opts.Seed, opts.Camera), nil
	case "spheres-on-plane":
		return NewSpheresOnPlaneScene(opts.Count, opts.Seed, opts.Camera), nil
	case "ply":
		if opts.ModelPath == "" {
			return nil, fmt.Errorf("%w: ply scene needs a model path", ErrUnknownScene)
		}
		return NewPLYScene(opts.ModelPath, opts.ModelScale, opts.ModelOffset, opts.Camera)
	}

	if strings.HasPrefix(id, "ply:") {
		models, err := ListPLYModels()
		if err != nil {
			return nil, err
		}
		for _, model := range models {
			if model.ID == id {
				return NewPLYScene(model.FilePath, opts.ModelScale, opts.ModelOffset, opts.Camera)
			}
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}
