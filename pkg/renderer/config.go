package renderer

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every configuration validation error
var ErrInvalidConfig = errors.New("invalid render configuration")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        10,
	}
}

// MergeSamplingConfig returns base with the non-zero fields of override applied
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	if override.SamplesPerPixel != 0 {
		base.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		base.MaxDepth = override.MaxDepth
	}
	return base
}

// Validate reports the first unusable field
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	return nil
}

// RenderConfig describes the image and how a pass is scheduled
type RenderConfig struct {
	Width         int    // Image width in pixels
	Height        int    // Image height in pixels
	Workers       int    // Number of render goroutines (0 = one per logical CPU)
	Seed          uint64 // Base seed; with the pixel index it fixes every sample
	SnapshotEvery int    // Offer a snapshot every N finished rows (0 = never)
}

// DefaultRenderConfig returns a 1080p render using every logical CPU
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:   1920,
		Height:  1080,
		Workers: 0,
		Seed:    42,
	}
}

// Validate reports the first unusable field
func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: worker count cannot be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.SnapshotEvery < 0 {
		return fmt.Errorf("%w: snapshot interval cannot be negative, got %d", ErrInvalidConfig, c.SnapshotEvery)
	}
	return nil
}
