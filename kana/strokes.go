package kana

import (
	"errors"
	"fmt"
)

var ErrStrokeIndex = errors.New("kana: stroke index out of range")

// StrokeSet is the ordered output space of the classifier for one stroke
// index: every character that is still being drawn at that stroke.
type StrokeSet struct {
	stroke int
	ids    []CharID
	index  map[CharID]int
}

var strokeSets [MaxStrokes + 1]*StrokeSet

func init() {
	for s := 1; s <= MaxStrokes; s++ {
		set := &StrokeSet{stroke: s, index: make(map[CharID]int)}
		for _, c := range table {
			if c.Strokes >= s {
				set.index[c.ID] = len(set.ids)
				set.ids = append(set.ids, c.ID)
			}
		}
		strokeSets[s] = set
	}
}

// ValidStroke reports whether a classifier exists for the stroke index.
func ValidStroke(stroke int) bool {
	return stroke >= 1 && stroke <= MaxStrokes
}

// SetFor returns the output space of stroke index 1..4.
func SetFor(stroke int) (*StrokeSet, error) {
	if !ValidStroke(stroke) {
		return nil, fmt.Errorf("%w: %d", ErrStrokeIndex, stroke)
	}
	return strokeSets[stroke], nil
}

// MustSet is SetFor for indices known to be valid.
func MustSet(stroke int) *StrokeSet {
	set, err := SetFor(stroke)
	if err != nil {
		panic(err)
	}
	return set
}

func (s *StrokeSet) Stroke() int { return s.stroke }

// Len is the number of output nodes of the stroke's classifier.
func (s *StrokeSet) Len() int { return len(s.ids) }

// Index maps a character to its output node.
func (s *StrokeSet) Index(id CharID) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Char maps an output node back to its character.
func (s *StrokeSet) Char(i int) (CharID, bool) {
	if i < 0 || i >= len(s.ids) {
		return 0, false
	}
	return s.ids[i], true
}

// IDs returns a copy of the ordered output space.
func (s *StrokeSet) IDs() []CharID {
	out := make([]CharID, len(s.ids))
	copy(out, s.ids)
	return out
}
