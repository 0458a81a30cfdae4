// Package raster reduces canvas captures to the fixed intensity grid the
// classifiers consume, and renders grids back to images for inspection.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

const (
	// GridSize is the side of the feature grid.
	GridSize = 28
	// Features is the length of a feature vector.
	Features = GridSize * GridSize
	// LegacyDivisor is the block area of the 420x420 canvas, used as a
	// constant divisor on every canvas by the deployed weights.
	LegacyDivisor = 225

	opaque = 0xff
	white  = 0xff
)

var ErrImageTooSmall = errors.New("raster: image smaller than grid")

// Options controls the reduction.
type Options struct {
	// GridSize defaults to 28.
	GridSize int
	// FixedDivisor replaces the block area as divisor of the block sum.
	// The reference canvas is 420x420, where the block area is 225.
	FixedDivisor int
}

// Grid is a reduced drawing: ink high, background zero, row-major.
type Grid struct {
	Size   int
	Values []int
}

// Normalize splits img into Size x Size blocks of floor(width/Size) pixels
// and averages the red channel of each block. Pixels that are not fully
// opaque count as white. Pixels past the last whole block are dropped.
func Normalize(img image.Image, opts Options) (Grid, error) {
	size := opts.GridSize
	if size <= 0 {
		size = GridSize
	}

	b := img.Bounds()
	step := b.Dx() / size
	if step == 0 || b.Dy()/size == 0 {
		return Grid{}, fmt.Errorf("%w: %dx%d for %d", ErrImageTooSmall, b.Dx(), b.Dy(), size)
	}

	divisor := step * step
	if opts.FixedDivisor > 0 {
		divisor = opts.FixedDivisor
	}

	values := make([]int, 0, size*size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			sum := 0
			for y := row * step; y < (row+1)*step; y++ {
				for x := col * step; x < (col+1)*step; x++ {
					sum += redOrWhite(img.At(b.Min.X+x, b.Min.Y+y))
				}
			}
			values = append(values, clamp(255-sum/divisor))
		}
	}

	return Grid{Size: size, Values: values}, nil
}

func redOrWhite(c color.Color) int {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A != opaque {
		return white
	}
	return int(n.R)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Vector returns the grid as classifier input.
func (g Grid) Vector() []float64 {
	out := make([]float64, len(g.Values))
	for i, v := range g.Values {
		out[i] = float64(v)
	}
	return out
}

// Record formats the grid as a dataset line, without the newline.
func (g Grid) Record(label int) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(label))
	for _, v := range g.Values {
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}
