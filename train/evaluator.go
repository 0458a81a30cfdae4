package train

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/semaphore"

	"github.com/ddvk/kanahwr/classifier"
	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/log"
)

// Confusion is one kind of mistake: the network said Predicted for a drawing
// of Truth.
type Confusion struct {
	Predicted kana.CharID
	Truth     kana.CharID
}

// ConfusionCount pairs a confusion with how often it happened.
type ConfusionCount struct {
	Confusion
	Count int
}

// Result of testing one stroke index.
type Result struct {
	Stroke     int
	Tested     int
	Correct    int
	Skipped    int
	Accuracy   float64
	Confusions map[Confusion]int
}

func (r Result) String() string {
	return fmt.Sprintf("stroke %d: %d/%d correct (%.2f%%)", r.Stroke, r.Correct, r.Tested, r.Accuracy*100)
}

// TopConfusions returns the n most frequent mistakes, all of them if n <= 0.
func (r Result) TopConfusions(n int) []ConfusionCount {
	out := make([]ConfusionCount, 0, len(r.Confusions))
	for c, count := range r.Confusions {
		out = append(out, ConfusionCount{Confusion: c, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Truth != out[j].Truth {
			return out[i].Truth < out[j].Truth
		}
		return out[i].Predicted < out[j].Predicted
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Evaluator scores the saved weights against the testing records. It only
// reads weight files.
type Evaluator struct {
	Store   Store
	Network classifier.Config
	Workers int64
}

// Evaluate classifies every testing record of the stroke. Look-alikes count
// as correct at strokes 1 and 2.
func (e *Evaluator) Evaluate(stroke int) (Result, error) {
	return e.evaluate(context.Background(), stroke)
}

func (e *Evaluator) evaluate(ctx context.Context, stroke int) (Result, error) {
	res := Result{Stroke: stroke, Confusions: make(map[Confusion]int)}
	set, err := kana.SetFor(stroke)
	if err != nil {
		return res, err
	}

	pair, err := e.Store.LoadWeights(stroke)
	if err != nil {
		return res, err
	}
	if pair == nil {
		return res, fmt.Errorf("%w: stroke %d", classifier.ErrNoWeights, stroke)
	}
	cfg := e.Network
	cfg.Stroke = stroke
	net, err := classifier.FromPair(cfg, pair)
	if err != nil {
		return res, err
	}

	samples, err := e.Store.LoadTest(stroke)
	if err != nil {
		return res, err
	}

	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, ok := set.Index(s.Label); !ok {
			res.Skipped++
			continue
		}
		predicted, err := net.Predict(s.Vector())
		if err != nil {
			return res, err
		}
		res.Tested++
		if kana.Tolerated(stroke, predicted, s.Label) {
			res.Correct++
			continue
		}
		res.Confusions[Confusion{Predicted: predicted, Truth: s.Label}]++
	}

	if res.Skipped > 0 {
		log.Warning.Printf("stroke %d: %d test records have too few strokes, skipped", stroke, res.Skipped)
	}
	if res.Tested > 0 {
		res.Accuracy = float64(res.Correct) / float64(res.Tested)
	}
	log.Info.Print(res)
	return res, nil
}

// EvaluateAll tests several stroke indices in parallel. Results are in the
// order of strokes; the first error wins.
func (e *Evaluator) EvaluateAll(ctx context.Context, strokes []int) ([]Result, error) {
	workers := e.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(strokes))
	errs := make([]error, len(strokes))

	sem := semaphore.NewWeighted(workers)
	for i, stroke := range strokes {
		if err := sem.Acquire(ctx, 1); err != nil {
			errs[i] = err
			break
		}
		go func(i, stroke int) {
			defer sem.Release(1)
			results[i], errs[i] = e.evaluate(ctx, stroke)
		}(i, stroke)
	}

	// wait for the running ones
	if err := sem.Acquire(context.Background(), workers); err != nil {
		return nil, err
	}

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
