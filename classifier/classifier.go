// Package classifier implements the per-stroke feed-forward network: 784
// inputs, one sigmoid hidden layer and one sigmoid output per character that
// can still be drawn at the stroke index.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ddvk/kanahwr/encoding/weights"
	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/raster"
)

const (
	DefaultHidden       = 100
	DefaultLearningRate = 0.25

	targetOn  = 0.99
	targetOff = 0.01
)

var (
	ErrFeatureLength = errors.New("classifier: feature vector has wrong length")
	ErrWeightShape   = errors.New("classifier: weights don't match the network")
	ErrTargetIndex   = errors.New("classifier: target index out of range")
	ErrConfig        = errors.New("classifier: invalid configuration")
)

// Config describes one stroke's network. Zero fields take the defaults.
type Config struct {
	Stroke       int
	InputNodes   int
	HiddenNodes  int
	LearningRate float64
}

func (c Config) withDefaults() Config {
	if c.InputNodes == 0 {
		c.InputNodes = raster.Features
	}
	if c.HiddenNodes == 0 {
		c.HiddenNodes = DefaultHidden
	}
	if c.LearningRate == 0 {
		c.LearningRate = DefaultLearningRate
	}
	return c
}

func (c Config) validate() error {
	if !kana.ValidStroke(c.Stroke) {
		return fmt.Errorf("%w: stroke %d", ErrConfig, c.Stroke)
	}
	if c.InputNodes < 1 || c.HiddenNodes < 1 {
		return fmt.Errorf("%w: %d inputs, %d hidden", ErrConfig, c.InputNodes, c.HiddenNodes)
	}
	if c.LearningRate <= 0 || c.LearningRate >= 1 {
		return fmt.Errorf("%w: learning rate %v", ErrConfig, c.LearningRate)
	}
	return nil
}

// Classifier is the network of one stroke index.
type Classifier struct {
	cfg Config
	set *kana.StrokeSet
	wih *mat.Dense
	who *mat.Dense
}

// New creates a network with time seeded random weights.
func New(cfg Config) (*Classifier, error) {
	return Bootstrap(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// Bootstrap creates a network with random weights drawn from normal
// distributions of mean 0 and deviation inputs^-0.5 and hidden^-0.5.
func Bootstrap(cfg Config, rnd *rand.Rand) (*Classifier, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	set := kana.MustSet(cfg.Stroke)

	return &Classifier{
		cfg: cfg,
		set: set,
		wih: randomDense(cfg.HiddenNodes, cfg.InputNodes, cfg.InputNodes, rnd),
		who: randomDense(set.Len(), cfg.HiddenNodes, cfg.HiddenNodes, rnd),
	}, nil
}

// randomDense samples by inverting the normal CDF so the draw only depends
// on rnd.
func randomDense(r, c, fanIn int, rnd *rand.Rand) *mat.Dense {
	dist := distuv.Normal{Mu: 0, Sigma: math.Pow(float64(fanIn), -0.5)}
	data := make([]float64, r*c)
	for i := range data {
		u := rnd.Float64()
		for u == 0 {
			u = rnd.Float64()
		}
		data[i] = dist.Quantile(u)
	}
	return mat.NewDense(r, c, data)
}

// FromPair wraps persisted weights. Weights of another shape are rejected,
// never reshaped.
func FromPair(cfg Config, pair *weights.Pair) (*Classifier, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	set := kana.MustSet(cfg.Stroke)

	if pair == nil || pair.Hidden == nil || pair.Output == nil {
		return nil, fmt.Errorf("%w: missing matrix", ErrWeightShape)
	}
	if r, c := pair.Hidden.Dims(); r != cfg.HiddenNodes || c != cfg.InputNodes {
		return nil, fmt.Errorf("%w: input-hidden is %dx%d, want %dx%d",
			ErrWeightShape, r, c, cfg.HiddenNodes, cfg.InputNodes)
	}
	if r, c := pair.Output.Dims(); r != set.Len() || c != cfg.HiddenNodes {
		return nil, fmt.Errorf("%w: hidden-output is %dx%d, want %dx%d",
			ErrWeightShape, r, c, set.Len(), cfg.HiddenNodes)
	}

	return &Classifier{cfg: cfg, set: set, wih: pair.Hidden, who: pair.Output}, nil
}

// Stroke returns the stroke index of the network.
func (c *Classifier) Stroke() int { return c.cfg.Stroke }

// Set returns the output space.
func (c *Classifier) Set() *kana.StrokeSet { return c.set }

// Outputs is the number of output nodes.
func (c *Classifier) Outputs() int { return c.set.Len() }

// Config returns the effective configuration.
func (c *Classifier) Config() Config { return c.cfg }

// Pair exposes the weights for persistence. The matrices are shared.
func (c *Classifier) Pair() *weights.Pair {
	return &weights.Pair{Stroke: c.cfg.Stroke, Hidden: c.wih, Output: c.who}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func activate(v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, sigmoid(v.AtVec(i)))
	}
}

// inputs scales raw intensities into [0.01, 1].
func (c *Classifier) inputs(vec []float64) (*mat.VecDense, error) {
	if len(vec) != c.cfg.InputNodes {
		return nil, fmt.Errorf("%w: %d, want %d", ErrFeatureLength, len(vec), c.cfg.InputNodes)
	}
	x := make([]float64, len(vec))
	for i, v := range vec {
		x[i] = v/255.0*0.99 + 0.01
	}
	return mat.NewVecDense(len(x), x), nil
}

func (c *Classifier) forward(x *mat.VecDense) (hidden, out *mat.VecDense) {
	hidden = mat.NewVecDense(c.cfg.HiddenNodes, nil)
	hidden.MulVec(c.wih, x)
	activate(hidden)

	out = mat.NewVecDense(c.set.Len(), nil)
	out.MulVec(c.who, hidden)
	activate(out)
	return hidden, out
}

// Query runs a feature vector of raw intensities through the network.
func (c *Classifier) Query(vec []float64) ([]float64, error) {
	x, err := c.inputs(vec)
	if err != nil {
		return nil, err
	}
	_, out := c.forward(x)

	res := make([]float64, out.Len())
	for i := range res {
		res[i] = out.AtVec(i)
	}
	return res, nil
}

// Predict returns the most likely character. Ties go to the lowest output.
func (c *Classifier) Predict(vec []float64) (kana.CharID, error) {
	out, err := c.Query(vec)
	if err != nil {
		return 0, err
	}
	id, _ := c.set.Char(argmax(out))
	return id, nil
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// TrainOne applies one step of gradient descent towards output target:
// 0.99 on the target node, 0.01 everywhere else.
func (c *Classifier) TrainOne(vec []float64, target int) error {
	if target < 0 || target >= c.set.Len() {
		return fmt.Errorf("%w: %d", ErrTargetIndex, target)
	}
	x, err := c.inputs(vec)
	if err != nil {
		return err
	}
	hidden, out := c.forward(x)

	n := out.Len()
	outErr := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		t := targetOff
		if i == target {
			t = targetOn
		}
		outErr.SetVec(i, t-out.AtVec(i))
	}

	// back propagated through the weights before they change
	hidErr := mat.NewVecDense(c.cfg.HiddenNodes, nil)
	hidErr.MulVec(c.who.T(), outErr)

	lr := c.cfg.LearningRate
	c.who.RankOne(c.who, lr, gradient(outErr, out), hidden)
	c.wih.RankOne(c.wih, lr, gradient(hidErr, hidden), x)
	return nil
}

// gradient is err * o * (1 - o), the error through a logistic unit.
func gradient(err, o *mat.VecDense) *mat.VecDense {
	g := mat.NewVecDense(err.Len(), nil)
	for i := 0; i < err.Len(); i++ {
		v := o.AtVec(i)
		g.SetVec(i, err.AtVec(i)*v*(1-v))
	}
	return g
}
