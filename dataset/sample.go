// Package dataset stores the stroke-indexed training and testing records,
// per-user drawings in progress and the classifiers' weight files.
package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/raster"
)

var ErrDataFormat = errors.New("dataset: malformed record")

// Sample is one stroke of a drawing: the character it belongs to and the
// cumulative drawing after that stroke.
type Sample struct {
	Label  kana.CharID
	Pixels []int
}

// Vector returns the pixels as classifier input.
func (s Sample) Vector() []float64 {
	out := make([]float64, len(s.Pixels))
	for i, p := range s.Pixels {
		out[i] = float64(p)
	}
	return out
}

// String formats the sample as a record line without the newline.
func (s Sample) String() string {
	var sb strings.Builder
	sb.Grow(4 * (len(s.Pixels) + 1))
	sb.WriteString(strconv.Itoa(int(s.Label)))
	for _, p := range s.Pixels {
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(p))
	}
	return sb.String()
}

// ParseRecord parses "label,p1,...,p784".
func ParseRecord(line string) (Sample, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != raster.Features+1 {
		return Sample{}, fmt.Errorf("%w: %d fields", ErrDataFormat, len(fields))
	}

	label, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil || !kana.CharID(label).Valid() {
		return Sample{}, fmt.Errorf("%w: label %q", ErrDataFormat, fields[0])
	}

	pixels := make([]int, raster.Features)
	for i, f := range fields[1:] {
		v, err := parsePixel(f)
		if err != nil {
			return Sample{}, fmt.Errorf("%w: pixel %d: %v", ErrDataFormat, i, err)
		}
		pixels[i] = v
	}

	return Sample{Label: kana.CharID(label), Pixels: pixels}, nil
}

// parsePixel accepts integers and the float rendering of older exports
// ("12.0").
func parsePixel(f string) (int, error) {
	f = strings.TrimSpace(f)
	v, err := strconv.Atoi(f)
	if err != nil {
		fv, ferr := strconv.ParseFloat(f, 64)
		if ferr != nil {
			return 0, err
		}
		v = int(fv)
	}
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("value %d out of range", v)
	}
	return v, nil
}

// FromGrid wraps a normalized drawing.
func FromGrid(label kana.CharID, g raster.Grid) Sample {
	pixels := make([]int, len(g.Values))
	copy(pixels, g.Values)
	return Sample{Label: label, Pixels: pixels}
}
