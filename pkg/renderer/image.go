package renderer

import (
	"image"
	"image/color"
	"sync/atomic"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// PixelBuffer holds linear RGB colors for a width x height image.
// During a pass each row is written by exactly one worker, which then marks
// it done; readers that only touch done rows never race with the writers.
type PixelBuffer struct {
	Width  int
	Height int
	pixels []core.Vec3
	done   []atomic.Bool
}

// NewPixelBuffer creates a black buffer
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		pixels: make([]core.Vec3, width*height),
		done:   make([]atomic.Bool, height),
	}
}

// At returns the linear color of pixel (x, y)
func (b *PixelBuffer) At(x, y int) core.Vec3 {
	return b.pixels[y*b.Width+x]
}

// Set stores the linear color of pixel (x, y)
func (b *PixelBuffer) Set(x, y int, c core.Vec3) {
	b.pixels[y*b.Width+x] = c
}

// RowDone reports whether row y has been fully written in the current pass
func (b *PixelBuffer) RowDone(y int) bool {
	return b.done[y].Load()
}

// CompletedRows counts the rows finished in the current pass
func (b *PixelBuffer) CompletedRows() int {
	count := 0
	for y := range b.done {
		if b.done[y].Load() {
			count++
		}
	}
	return count
}

func (b *PixelBuffer) markRowDone(y int) {
	b.done[y].Store(true)
}

// resetRows must only be called while no pass is running
func (b *PixelBuffer) resetRows() {
	for y := range b.done {
		b.done[y].Store(false)
	}
}

// ToRGBA converts the whole buffer to 8-bit sRGB-ish output (gamma 2)
func (b *PixelBuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		b.copyRow(img, y)
	}
	return img
}

// Snapshot converts only the rows finished so far; unfinished rows stay transparent black.
// It is safe to call while a pass is running.
func (b *PixelBuffer) Snapshot() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		if b.RowDone(y) {
			b.copyRow(img, y)
		}
	}
	return img
}

func (b *PixelBuffer) copyRow(img *image.RGBA, y int) {
	for x := 0; x < b.Width; x++ {
		img.SetRGBA(x, y, vec3ToColor(b.At(x, y)))
	}
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
