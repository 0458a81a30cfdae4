package weights

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *Pair) UnmarshalBinary(data []byte) error {
	r := reader{bytes.NewReader(data)}
	if err := r.checkHeader(); err != nil {
		return err
	}

	stroke, err := r.readNumber()
	if err != nil {
		return err
	}

	hidden, err := r.readMatrix()
	if err != nil {
		return fmt.Errorf("weights: hidden layer: %w", err)
	}
	output, err := r.readMatrix()
	if err != nil {
		return fmt.Errorf("weights: output layer: %w", err)
	}

	p.Stroke = int(stroke)
	p.Hidden = hidden
	p.Output = output
	return nil
}

type reader struct {
	*bytes.Reader
}

func (r reader) checkHeader() error {
	buf := make([]byte, HeaderLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("weights: wrong header size")
	}
	if string(buf) != HeaderV1 {
		return ErrUnknownHeader
	}
	return nil
}

func (r reader) readNumber() (uint32, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, fmt.Errorf("weights: wrong number read")
	}
	return n, nil
}

func (r reader) readMatrix() (*mat.Dense, error) {
	var m mat.Dense
	if _, err := m.UnmarshalBinaryFrom(r); err != nil {
		return nil, err
	}
	return &m, nil
}
