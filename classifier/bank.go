package classifier

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/ddvk/kanahwr/encoding/weights"
	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/log"
)

var ErrNoWeights = errors.New("classifier: no trained weights")

// WeightStore persists the weight pair of each stroke index. LoadWeights
// returns nil, nil when nothing was saved yet.
type WeightStore interface {
	LoadWeights(stroke int) (*weights.Pair, error)
	SaveWeights(stroke int, pair *weights.Pair) error
}

// Load returns the stroke's network from the store, or fresh random weights
// when the store has none. fresh tells which one happened.
func Load(store WeightStore, cfg Config, rnd *rand.Rand) (c *Classifier, fresh bool, err error) {
	pair, err := store.LoadWeights(cfg.Stroke)
	if err != nil {
		return nil, false, err
	}
	if pair == nil {
		log.Info.Printf("no weights for stroke %d, starting from random", cfg.Stroke)
		c, err = Bootstrap(cfg, rnd)
		return c, true, err
	}
	c, err = FromPair(cfg, pair)
	return c, false, err
}

// Save persists the network's weights.
func Save(store WeightStore, c *Classifier) error {
	return store.SaveWeights(c.Stroke(), c.Pair())
}

// Bank holds the trained networks of all stroke indices for serving. Each one
// is read the first time it is needed and never written.
type Bank struct {
	store WeightStore
	cfg   Config

	mu     sync.Mutex
	models [kana.MaxStrokes + 1]*Classifier
}

// NewBank serves from store. cfg.Stroke is ignored.
func NewBank(store WeightStore, cfg Config) *Bank {
	return &Bank{store: store, cfg: cfg}
}

// Model returns the network of a stroke index. Missing weights are an error:
// a random network is never served.
func (b *Bank) Model(stroke int) (*Classifier, error) {
	if !kana.ValidStroke(stroke) {
		return nil, fmt.Errorf("%w: %d", kana.ErrStrokeIndex, stroke)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if c := b.models[stroke]; c != nil {
		return c, nil
	}

	pair, err := b.store.LoadWeights(stroke)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, fmt.Errorf("%w: stroke %d", ErrNoWeights, stroke)
	}
	cfg := b.cfg
	cfg.Stroke = stroke
	c, err := FromPair(cfg, pair)
	if err != nil {
		return nil, err
	}
	b.models[stroke] = c
	log.Trace.Printf("serving stroke %d with %d outputs", stroke, c.Outputs())
	return c, nil
}

// Predict classifies the cumulative drawing after stroke n.
func (b *Bank) Predict(stroke int, vec []float64) (kana.CharID, error) {
	c, err := b.Model(stroke)
	if err != nil {
		return 0, err
	}
	return c.Predict(vec)
}

// Preload reads every stroke's weights so serving fails early.
func (b *Bank) Preload() error {
	for s := 1; s <= kana.MaxStrokes; s++ {
		if _, err := b.Model(s); err != nil {
			return err
		}
	}
	return nil
}
