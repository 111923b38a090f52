package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult is the first object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord material.HitRecord
	Shape     geometry.Shape // nil if the BVH hit could not be matched to a shape
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	clamped := c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x",
		int(clamped.X*255), int(clamped.Y*255), int(clamped.Z*255))
}

// extractMaterialInfo describes a palette material
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Blend:
		properties["diffuse"] = vecArray(m.Diffuse)
		properties["specular"] = vecArray(m.Specular)
		properties["emissive"] = vecArray(m.Emissive)
		properties["roughness"] = m.Roughness
		if m.Emissive.NearZero() {
			properties["color"] = hexColor(m.Diffuse)
			return "blend", properties
		}
		properties["color"] = hexColor(m.Emissive)
		return "light", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff"
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo describes the shape that was hit
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		properties["hollow"] = geom.Radius < 0
		return "sphere", properties

	case *geometry.Triangle:
		properties["vertices"] = [][3]float64{vecArray(geom.P1), vecArray(geom.P2), vecArray(geom.P3)}
		properties["normal"] = vecArray(geom.Normal())
		return "triangle", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts the ray through the center of a pixel and returns the
// first object it hits
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	camera := renderer.NewCamera(sceneObj.CameraConfig, width, height)
	ray := camera.GetRay(pixelX, pixelY, 0, 0)

	var rec material.HitRecord
	allowed := core.NewInterval(integrator.SelfIntersectionEpsilon, math.Inf(1))
	if !sceneObj.BuildWorld().Hit(ray, &allowed, &rec) {
		return InspectResult{}
	}

	// The BVH returns only the hit record; find the shape at the same distance
	for _, shape := range sceneObj.Shapes {
		var shapeRec material.HitRecord
		shapeAllowed := core.NewInterval(integrator.SelfIntersectionEpsilon, rec.T+integrator.SelfIntersectionEpsilon)
		if shape.Hit(ray, &shapeAllowed, &shapeRec) && shapeRec.T == rec.T {
			return InspectResult{Hit: true, HitRecord: rec, Shape: shape}
		}
	}

	return InspectResult{Hit: true, HitRecord: rec}
}

// handleInspect reports what lies under one pixel of a scene's camera
func (s *Server) handleInspect(c echo.Context) error {
	req := &RenderRequest{
		Scene:     "default",
		Width:     400,
		Height:    225,
		SceneSeed: 42,
		Count:     1000,
	}
	var pixelX, pixelY int

	err := echo.QueryParamsBinder(c).
		String("scene", &req.Scene).
		Int("width", &req.Width).
		Int("height", &req.Height).
		Uint64("sceneSeed", &req.SceneSeed).
		Int("count", &req.Count).
		MustInt("x", &pixelX).
		MustInt("y", &pixelY).
		BindError()
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid parameter: "+err.Error())
	}

	for _, check := range []error{
		checkRange("width", req.Width, minImageSize, maxImageSize),
		checkRange("height", req.Height, minImageSize, maxImageSize),
		checkRange("count", req.Count, 1, maxSpheres),
	} {
		if check != nil {
			return errorResponse(c, http.StatusBadRequest, check.Error())
		}
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		return errorResponse(c, http.StatusBadRequest, "pixel coordinates out of bounds")
	}

	sceneObj, err := createScene(req)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	result := inspectPixel(sceneObj, req.Width, req.Height, pixelX, pixelY)
	if !result.Hit {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	mat, err := sceneObj.Palette.Lookup(result.HitRecord.Material)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}
	materialType, materialProps := extractMaterialInfo(mat)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecArray(result.HitRecord.Point),
		Normal:       vecArray(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
