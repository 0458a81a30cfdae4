// Package hwr grades a drawing stroke by stroke against the character the
// user was asked to draw.
package hwr

import (
	"fmt"

	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/log"
)

// State of a drawing being judged.
type State int

const (
	AwaitingStroke State = iota
	Accepted
	Rejected
	// Invalid drawings have more strokes than any character. Their verdict
	// is discarded.
	Invalid
)

func (s State) String() string {
	switch s {
	case AwaitingStroke:
		return "awaiting stroke"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Invalid:
		return "invalid"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Predictor classifies the cumulative drawing after a stroke with the
// network of that stroke index.
type Predictor interface {
	Predict(stroke int, vec []float64) (kana.CharID, error)
}

// Verdict is the grading of a drawing.
type Verdict struct {
	Target           kana.CharID
	State            State
	PerStrokeCorrect []bool
	// MistakenFor holds the prediction of every incorrect stroke, in order.
	MistakenFor []kana.CharID
	// Incomplete is set when the drawing stopped before the final stroke.
	Incomplete bool
}

// Success is true only for accepted drawings.
func (v Verdict) Success() bool {
	return v.State == Accepted
}

// CorrectStrokes returns the 1-based numbers of the strokes graded correct.
func (v Verdict) CorrectStrokes() []int {
	return v.strokes(true)
}

// IncorrectStrokes returns the 1-based numbers of the strokes graded wrong.
func (v Verdict) IncorrectStrokes() []int {
	return v.strokes(false)
}

func (v Verdict) strokes(correct bool) []int {
	out := []int{}
	for i, ok := range v.PerStrokeCorrect {
		if ok == correct {
			out = append(out, i+1)
		}
	}
	return out
}

// Drawing judges one submission. The zero value is not usable; use
// NewDrawing.
type Drawing struct {
	models   Predictor
	target   kana.CharID
	expected int

	state   State
	next    int
	correct []bool
	mistook []kana.CharID
	done    bool
}

// NewDrawing starts judging a drawing of target, awaiting stroke 1.
func NewDrawing(models Predictor, target kana.CharID) (*Drawing, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %d", kana.ErrUnknownChar, target)
	}
	return &Drawing{
		models:   models,
		target:   target,
		expected: kana.StrokeCount(target),
		state:    AwaitingStroke,
		next:     1,
	}, nil
}

// State returns the current state.
func (d *Drawing) State() State { return d.state }

// Next is the stroke number the next Submit grades.
func (d *Drawing) Next() int { return d.next }

// Submit grades the cumulative drawing after the next stroke. Strokes past
// the target's last one are still graded but reject the drawing; a fifth
// stroke makes it Invalid. Nothing changes once a drawing is Invalid.
func (d *Drawing) Submit(vec []float64) (State, error) {
	if d.state == Invalid {
		return d.state, nil
	}
	n := d.next
	if !kana.ValidStroke(n) {
		log.Trace.Printf("drawing of %s: stroke %d, invalid", d.target, n)
		d.state = Invalid
		d.correct = nil
		d.mistook = nil
		return d.state, nil
	}

	predicted, err := d.models.Predict(n, vec)
	if err != nil {
		return d.state, err
	}
	ok := kana.Tolerated(n, predicted, d.target)
	d.correct = append(d.correct, ok)
	if !ok {
		d.mistook = append(d.mistook, predicted)
	}
	log.Trace.Printf("drawing of %s: stroke %d read as %s, correct %v", d.target, n, predicted, ok)
	d.next++

	switch {
	case n < d.expected:
		d.state = AwaitingStroke
	case n == d.expected && d.allCorrect():
		d.state = Accepted
	default:
		d.state = Rejected
	}
	return d.state, nil
}

func (d *Drawing) allCorrect() bool {
	for _, ok := range d.correct {
		if !ok {
			return false
		}
	}
	return true
}

// Finish ends the drawing. One still awaiting a stroke is rejected as
// incomplete.
func (d *Drawing) Finish() Verdict {
	d.done = true
	if d.state == AwaitingStroke {
		d.state = Rejected
	}
	return d.Verdict()
}

// Verdict returns the grading so far.
func (d *Drawing) Verdict() Verdict {
	v := Verdict{Target: d.target, State: d.state}
	if d.state == Invalid {
		return v
	}
	v.PerStrokeCorrect = append([]bool(nil), d.correct...)
	v.MistakenFor = append([]kana.CharID(nil), d.mistook...)
	v.Incomplete = d.done && d.next <= d.expected
	return v
}

// Judge grades a whole drawing given the vectors after each stroke.
func Judge(models Predictor, target kana.CharID, vectors [][]float64) (Verdict, error) {
	d, err := NewDrawing(models, target)
	if err != nil {
		return Verdict{}, err
	}
	for _, vec := range vectors {
		if _, err := d.Submit(vec); err != nil {
			return d.Verdict(), err
		}
	}
	return d.Finish(), nil
}
