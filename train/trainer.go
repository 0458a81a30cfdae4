// Package train runs the offline side of the engine: online gradient descent
// over the stroke files and evaluation of the saved weights.
package train

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/ddvk/kanahwr/classifier"
	"github.com/ddvk/kanahwr/dataset"
	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/log"
)

// Store is what training and evaluation need from the dataset.
type Store interface {
	classifier.WeightStore
	LoadTrain(stroke int) ([]dataset.Sample, error)
	LoadTest(stroke int) ([]dataset.Sample, error)
}

// Trainer is the only writer of weight files.
type Trainer struct {
	Store   Store
	Network classifier.Config
	Rand    *rand.Rand
}

// NewTrainer seeds the weight initialisation with seed, or the clock if 0.
func NewTrainer(store Store, network classifier.Config, seed int64) *Trainer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Trainer{Store: store, Network: network, Rand: rand.New(rand.NewSource(seed))}
}

// EpochStats counts what one pass did.
type EpochStats struct {
	Stroke  int
	Trained int
	Skipped int
	Fresh   bool
}

// RunEpoch makes one pass over the stroke's training records in file order
// and saves the weights. Records of characters with fewer strokes are
// skipped. A cancelled context stops between records without saving.
func (t *Trainer) RunEpoch(ctx context.Context, stroke int) error {
	_, err := t.Epoch(ctx, stroke)
	return err
}

// Epoch is RunEpoch returning the pass statistics.
func (t *Trainer) Epoch(ctx context.Context, stroke int) (EpochStats, error) {
	stats := EpochStats{Stroke: stroke}
	set, err := kana.SetFor(stroke)
	if err != nil {
		return stats, err
	}

	cfg := t.Network
	cfg.Stroke = stroke
	net, fresh, err := classifier.Load(t.Store, cfg, t.Rand)
	if err != nil {
		return stats, errors.Wrapf(err, "can't load weights of stroke %d", stroke)
	}
	stats.Fresh = fresh

	samples, err := t.Store.LoadTrain(stroke)
	if err != nil {
		return stats, err
	}

	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		target, ok := set.Index(s.Label)
		if !ok {
			stats.Skipped++
			log.Warning.Printf("stroke %d: label %d (%s) has %d strokes, skipped",
				stroke, s.Label, s.Label, kana.StrokeCount(s.Label))
			continue
		}
		if err := net.TrainOne(s.Vector(), target); err != nil {
			return stats, err
		}
		stats.Trained++
	}

	if err := classifier.Save(t.Store, net); err != nil {
		return stats, errors.Wrapf(err, "can't save weights of stroke %d", stroke)
	}
	log.Info.Printf("stroke %d: trained on %d records, skipped %d", stroke, stats.Trained, stats.Skipped)
	return stats, nil
}

// Run trains every stroke index once per epoch, epochs outermost.
func (t *Trainer) Run(ctx context.Context, epochs int) error {
	for e := 1; e <= epochs; e++ {
		log.Info.Printf("epoch %d/%d", e, epochs)
		for s := 1; s <= kana.MaxStrokes; s++ {
			if err := t.RunEpoch(ctx, s); err != nil {
				return errors.Wrapf(err, "epoch %d", e)
			}
		}
	}
	return nil
}
