// Package weights defines the on-disk format of a stroke classifier's weight
// matrices.
//
// A file is a fixed text header, the stroke index as a little endian uint32,
// then the input-to-hidden and hidden-to-output matrices in gonum's binary
// matrix encoding.
package weights

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

const (
	HeaderV1  = "kanahwr weights, version=1      "
	HeaderLen = 32
)

var (
	ErrUnknownHeader = errors.New("weights: unknown header")
	ErrEmpty         = errors.New("weights: empty matrix")
)

// Pair holds the trainable parameters of one stroke classifier.
type Pair struct {
	Stroke int
	// Hidden is hidden x inputs.
	Hidden *mat.Dense
	// Output is outputs x hidden.
	Output *mat.Dense
}
