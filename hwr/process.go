package hwr

import (
	"errors"
	"fmt"

	"github.com/ddvk/kanahwr/dataset"
	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/log"
	"github.com/ddvk/kanahwr/raster"
)

// Mode tells what a submission is for.
type Mode string

const (
	// Game submissions are graded.
	Game Mode = "game"
	// Training submissions are added to the training records, ungraded.
	Training Mode = "train"
)

var (
	ErrNoStrokes = errors.New("hwr: submission has no strokes")
	ErrMode      = errors.New("hwr: unknown submission mode")
)

// Submission is a drawing as sent by the canvas: one data URL per stroke,
// each holding the cumulative drawing after that stroke.
type Submission struct {
	User    string      `json:"user"`
	Char    kana.CharID `json:"char"`
	Mode    Mode        `json:"mode"`
	Strokes []string    `json:"strokes"`
}

// Outcome is what the game shows the user.
type Outcome struct {
	Result           bool          `json:"result"`
	Points           int           `json:"points"`
	MistakenFor      []kana.CharID `json:"mistaken_for"`
	IncorrectStrokes []int         `json:"incorrect_strokes"`
	CorrectStrokes   []int         `json:"correct_strokes"`
	Invalid          bool          `json:"invalid,omitempty"`
	Saved            int           `json:"saved,omitempty"`
}

// Samples receives training records.
type Samples interface {
	AppendTrain(stroke int, sample dataset.Sample) error
}

// Processor runs submissions through the whole pipeline: decode, reduce,
// store and, for games, judge.
type Processor struct {
	Models  Predictor
	Samples Samples
	Scratch *dataset.Scratch
	Raster  raster.Options
}

// Process handles one submission. Points are the ones at stake; they are
// earned when Result is true.
func (p *Processor) Process(sub Submission) (Outcome, error) {
	if !sub.Char.Valid() {
		return Outcome{}, fmt.Errorf("%w: %d", kana.ErrUnknownChar, sub.Char)
	}
	if len(sub.Strokes) == 0 {
		return Outcome{}, ErrNoStrokes
	}

	samples := make([]dataset.Sample, len(sub.Strokes))
	for i, url := range sub.Strokes {
		s, err := p.reduce(sub.Char, url)
		if err != nil {
			return Outcome{}, fmt.Errorf("stroke %d: %w", i+1, err)
		}
		samples[i] = s
	}

	switch sub.Mode {
	case Training:
		return p.train(sub, samples)
	case Game, "":
		return p.game(sub, samples)
	}
	return Outcome{}, fmt.Errorf("%w: %q", ErrMode, sub.Mode)
}

func (p *Processor) reduce(char kana.CharID, url string) (dataset.Sample, error) {
	img, err := raster.DecodeDataURL(url)
	if err != nil {
		return dataset.Sample{}, err
	}
	grid, err := raster.Normalize(img, p.Raster)
	if err != nil {
		return dataset.Sample{}, err
	}
	return dataset.FromGrid(char, grid), nil
}

func (p *Processor) train(sub Submission, samples []dataset.Sample) (Outcome, error) {
	if len(samples) > kana.MaxStrokes {
		return Outcome{}, fmt.Errorf("%w: %d strokes", kana.ErrStrokeIndex, len(samples))
	}
	for i, s := range samples {
		if err := p.Samples.AppendTrain(i+1, s); err != nil {
			return Outcome{}, err
		}
	}
	log.Info.Printf("%s added %d training strokes of %s", sub.User, len(samples), sub.Char)
	return Outcome{Saved: len(samples)}, nil
}

func (p *Processor) game(sub Submission, samples []dataset.Sample) (Outcome, error) {
	for i, s := range samples {
		if err := p.Scratch.Write(sub.User, i+1, s); err != nil {
			return Outcome{}, err
		}
	}

	drawing, err := p.Scratch.Load(sub.User)
	if err != nil {
		return Outcome{}, err
	}
	vectors := make([][]float64, len(drawing))
	for i, s := range drawing {
		vectors[i] = s.Vector()
	}

	v, err := Judge(p.Models, sub.Char, vectors)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Points: kana.Points(sub.Char)}
	if v.State == Invalid {
		out.Invalid = true
		out.MistakenFor = []kana.CharID{}
		out.CorrectStrokes = []int{}
		out.IncorrectStrokes = []int{}
		return out, nil
	}
	out.Result = v.Success()
	out.MistakenFor = v.MistakenFor
	if out.MistakenFor == nil {
		out.MistakenFor = []kana.CharID{}
	}
	out.CorrectStrokes = v.CorrectStrokes()
	out.IncorrectStrokes = v.IncorrectStrokes()
	log.Info.Printf("%s drew %s: %s", sub.User, sub.Char, v.State)
	return out, nil
}
