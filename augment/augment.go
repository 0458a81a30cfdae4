// Package augment grows a dataset with shifted and rotated copies of its
// records.
package augment

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ddvk/kanahwr/dataset"
	"github.com/ddvk/kanahwr/raster"
)

const (
	// MaxShift caps each margin a drawing is moved across.
	MaxShift = 4
	// MinAngle and MaxAngle bound the rotations, in degrees.
	MinAngle = -5
	MaxAngle = 4
)

// Margins returns how many blank rows and columns surround the ink of a
// square grid. A blank grid has no margins.
func Margins(pixels []int, size int) (top, bottom, left, right int) {
	minX, minY, maxX, maxY := size, size, -1, -1
	for i, v := range pixels {
		if v == 0 {
			continue
		}
		x, y := i%size, i/size
		minX = min(minX, x)
		maxX = max(maxX, x)
		minY = min(minY, y)
		maxY = max(maxY, y)
	}
	if maxX < 0 {
		return 0, 0, 0, 0
	}
	return minY, size - 1 - maxY, minX, size - 1 - maxX
}

// Shift moves the grid by dx columns and dy rows. Vacated cells are blank.
func Shift(pixels []int, size, dx, dy int) []int {
	out := make([]int, len(pixels))
	for y := 0; y < size; y++ {
		sy := y - dy
		if sy < 0 || sy >= size {
			continue
		}
		for x := 0; x < size; x++ {
			sx := x - dx
			if sx < 0 || sx >= size {
				continue
			}
			out[y*size+x] = pixels[sy*size+sx]
		}
	}
	return out
}

// Shifts returns the sample moved to every position the final drawing of
// its character allows, at most limit cells each way. The unmoved sample is
// included.
func Shifts(s, final dataset.Sample, limit int) []dataset.Sample {
	size := raster.GridSize
	top, bottom, left, right := Margins(final.Pixels, size)
	top, bottom = min(top, limit), min(bottom, limit)
	left, right = min(left, limit), min(right, limit)

	out := make([]dataset.Sample, 0, (top+bottom+1)*(left+right+1))
	for dy := -top; dy <= bottom; dy++ {
		for dx := -left; dx <= right; dx++ {
			out = append(out, dataset.Sample{Label: s.Label, Pixels: Shift(s.Pixels, size, dx, dy)})
		}
	}
	return out
}

// Rotate turns the grid counterclockwise by degrees around its centre,
// sampling the nearest cell. Cells rotated in from outside are blank.
func Rotate(pixels []int, size int, degrees float64) []int {
	src := image.NewGray(image.Rect(0, 0, size, size))
	for i, v := range pixels {
		src.Pix[i] = uint8(v)
	}
	dst := image.NewGray(src.Rect)

	theta := degrees * math.Pi / 180
	sin, cos := math.Sincos(theta)
	c := float64(size) / 2
	s2d := f64.Aff3{
		cos, sin, c - c*cos - c*sin,
		-sin, cos, c + c*sin - c*cos,
	}
	draw.NearestNeighbor.Transform(dst, s2d, src, src.Rect, draw.Src, nil)

	out := make([]int, len(pixels))
	for i := range out {
		out[i] = int(dst.Pix[i])
	}
	return out
}

// Rotations returns the sample rotated by every whole angle from MinAngle to
// MaxAngle, the unrotated copy included.
func Rotations(s dataset.Sample) []dataset.Sample {
	out := make([]dataset.Sample, 0, MaxAngle-MinAngle+1)
	for a := MinAngle; a <= MaxAngle; a++ {
		out = append(out, dataset.Sample{Label: s.Label, Pixels: Rotate(s.Pixels, raster.GridSize, float64(a))})
	}
	return out
}
