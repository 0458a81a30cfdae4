package weights

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testPair() *Pair {
	hidden := mat.NewDense(3, 4, []float64{
		0.1, -0.2, 0.3, -0.4,
		0.5, -0.6, 0.7, -0.8,
		0.9, -1.0, 1.1, -1.2,
	})
	output := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	return &Pair{Stroke: 3, Hidden: hidden, Output: output}
}

func TestMarshalRoundTrip(t *testing.T) {
	p := testPair()
	data, err := p.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, HeaderV1, string(data[:HeaderLen]))

	var got Pair
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, 3, got.Stroke)
	assert.True(t, mat.Equal(p.Hidden, got.Hidden))
	assert.True(t, mat.Equal(p.Output, got.Output))
}

func TestUnmarshalUnknownHeader(t *testing.T) {
	data, err := testPair().MarshalBinary()
	require.NoError(t, err)
	data[0] = 'X'

	var got Pair
	err = got.UnmarshalBinary(data)
	assert.True(t, errors.Is(err, ErrUnknownHeader))
}

func TestUnmarshalTruncated(t *testing.T) {
	data, err := testPair().MarshalBinary()
	require.NoError(t, err)

	var got Pair
	assert.Error(t, got.UnmarshalBinary(data[:len(data)-5]))
	assert.Error(t, got.UnmarshalBinary(data[:10]))
}

func TestMarshalEmpty(t *testing.T) {
	_, err := (&Pair{Stroke: 1}).MarshalBinary()
	assert.True(t, errors.Is(err, ErrEmpty))
}
