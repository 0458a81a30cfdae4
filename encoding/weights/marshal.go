package weights

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *Pair) MarshalBinary() ([]byte, error) {
	if p.Hidden == nil || p.Output == nil || p.Hidden.IsEmpty() || p.Output.IsEmpty() {
		return nil, ErrEmpty
	}

	w := new(writer)
	w.writeHeader()
	if err := w.writeNumber(p.Stroke); err != nil {
		return nil, err
	}
	if _, err := p.Hidden.MarshalBinaryTo(&w.b); err != nil {
		return nil, fmt.Errorf("weights: hidden layer: %w", err)
	}
	if _, err := p.Output.MarshalBinaryTo(&w.b); err != nil {
		return nil, fmt.Errorf("weights: output layer: %w", err)
	}

	return w.Bytes(), nil
}

type writer struct {
	b bytes.Buffer
}

func (w *writer) Bytes() []byte {
	return w.b.Bytes()
}

func (w *writer) writeHeader() {
	w.b.WriteString(HeaderV1)
}

func (w *writer) writeNumber(n int) error {
	return binary.Write(&w.b, binary.LittleEndian, uint32(n))
}
