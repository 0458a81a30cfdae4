package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/nfnt/resize"
	"github.com/spakin/netpbm"
)

// Preview formats.
const (
	PNG = "png"
	PGM = "pgm"
)

// PreviewOptions controls WritePreview.
type PreviewOptions struct {
	// Scale multiplies the grid side, 10 if unset.
	Scale int
	// Format is PNG or PGM.
	Format string
}

// Render draws a feature vector as dark ink on white.
func Render(values []int) (*image.Gray, error) {
	size := int(math.Sqrt(float64(len(values))))
	if size == 0 || size*size != len(values) {
		return nil, fmt.Errorf("raster: %d values don't form a square grid", len(values))
	}

	img := image.NewGray(image.Rect(0, 0, size, size))
	for i, v := range values {
		img.SetGray(i%size, i/size, color.Gray{Y: uint8(255 - clamp(v))})
	}
	return img, nil
}

// WritePreview renders values, scales them up without smoothing and encodes
// the result.
func WritePreview(w io.Writer, values []int, opts PreviewOptions) error {
	img, err := Render(values)
	if err != nil {
		return err
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 10
	}
	side := uint(img.Bounds().Dx() * scale)
	scaled := resize.Resize(side, side, img, resize.NearestNeighbor)

	switch opts.Format {
	case "", PNG:
		return png.Encode(w, scaled)
	case PGM:
		return netpbm.Encode(w, scaled, &netpbm.EncodeOptions{
			Format:   netpbm.PGM,
			MaxValue: 255,
			Plain:    true,
			Comments: []string{"kanahwr preview"},
		})
	}
	return fmt.Errorf("raster: unknown preview format %q", opts.Format)
}
