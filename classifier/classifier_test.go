package classifier

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ddvk/kanahwr/encoding/weights"
	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/raster"
)

func vector(seed int64) []float64 {
	rnd := rand.New(rand.NewSource(seed))
	v := make([]float64, raster.Features)
	for i := range v {
		if rnd.Intn(4) == 0 {
			v[i] = float64(rnd.Intn(256))
		}
	}
	return v
}

func network(t *testing.T, stroke int) *Classifier {
	c, err := Bootstrap(Config{Stroke: stroke}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return c
}

func TestBootstrapShapes(t *testing.T) {
	c := network(t, 3)
	r, cols := c.Pair().Hidden.Dims()
	assert.Equal(t, 100, r)
	assert.Equal(t, 784, cols)
	r, cols = c.Pair().Output.Dims()
	assert.Equal(t, 17, r)
	assert.Equal(t, 100, cols)
	assert.Equal(t, 17, c.Outputs())
}

func TestBootstrapDistribution(t *testing.T) {
	c := network(t, 1)
	data := mat.DenseCopyOf(c.Pair().Hidden).RawMatrix().Data
	assert.InDelta(t, 0, stat.Mean(data, nil), 0.002)
	assert.InDelta(t, math.Pow(784, -0.5), stat.StdDev(data, nil), 0.003)

	again := network(t, 1)
	assert.True(t, mat.Equal(c.Pair().Hidden, again.Pair().Hidden))
}

func TestConfigValidation(t *testing.T) {
	_, err := New(Config{Stroke: 5})
	assert.True(t, errors.Is(err, ErrConfig))
	_, err = New(Config{Stroke: 1, LearningRate: 1.5})
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestQueryRange(t *testing.T) {
	for stroke := 1; stroke <= kana.MaxStrokes; stroke++ {
		c := network(t, stroke)
		out, err := c.Query(vector(int64(stroke)))
		require.NoError(t, err)
		assert.Len(t, out, kana.MustSet(stroke).Len())
		for _, o := range out {
			assert.True(t, o > 0 && o < 1, "output %v", o)
		}
	}
}

func TestQueryIdempotent(t *testing.T) {
	c := network(t, 2)
	v := vector(7)
	a, err := c.Query(v)
	require.NoError(t, err)
	b, err := c.Query(v)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestQueryFeatureLength(t *testing.T) {
	c := network(t, 1)
	_, err := c.Query(make([]float64, 10))
	assert.True(t, errors.Is(err, ErrFeatureLength))
	assert.True(t, errors.Is(c.TrainOne(make([]float64, 10), 0), ErrFeatureLength))
}

func TestTrainOneMovesTowardTarget(t *testing.T) {
	c := network(t, 2)
	v := vector(3)
	target := 5

	before, err := c.Query(v)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		require.NoError(t, c.TrainOne(v, target))
	}
	after, err := c.Query(v)
	require.NoError(t, err)

	assert.Greater(t, after[target], before[target])
	assert.Greater(t, after[target], 0.9)
	for i, o := range after {
		if i != target {
			assert.Less(t, o, 0.3)
		}
	}

	id, err := c.Predict(v)
	require.NoError(t, err)
	want, _ := kana.MustSet(2).Char(target)
	assert.Equal(t, want, id)

	assert.True(t, errors.Is(c.TrainOne(v, 34), ErrTargetIndex))
}

func TestPredictTieGoesToFirst(t *testing.T) {
	pair := &weights.Pair{
		Hidden: mat.NewDense(DefaultHidden, raster.Features, nil),
		Output: mat.NewDense(34, DefaultHidden, nil),
	}
	c, err := FromPair(Config{Stroke: 2}, pair)
	require.NoError(t, err)
	id, err := c.Predict(vector(1))
	require.NoError(t, err)
	assert.Equal(t, kana.CharID(2), id)
}

func TestFromPairShape(t *testing.T) {
	pair := &weights.Pair{
		Hidden: mat.NewDense(DefaultHidden, raster.Features, nil),
		Output: mat.NewDense(17, DefaultHidden, nil),
	}
	_, err := FromPair(Config{Stroke: 4}, pair)
	assert.True(t, errors.Is(err, ErrWeightShape))

	_, err = FromPair(Config{Stroke: 3}, pair)
	assert.NoError(t, err)

	_, err = FromPair(Config{Stroke: 3}, nil)
	assert.True(t, errors.Is(err, ErrWeightShape))
}

type memStore map[int]*weights.Pair

func (m memStore) LoadWeights(stroke int) (*weights.Pair, error) {
	return m[stroke], nil
}

func (m memStore) SaveWeights(stroke int, pair *weights.Pair) error {
	m[stroke] = pair
	return nil
}

func TestLoadAndSave(t *testing.T) {
	store := memStore{}
	rnd := rand.New(rand.NewSource(2))

	c, fresh, err := Load(store, Config{Stroke: 4}, rnd)
	require.NoError(t, err)
	assert.True(t, fresh)
	require.NoError(t, Save(store, c))

	again, fresh, err := Load(store, Config{Stroke: 4}, rnd)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.True(t, mat.Equal(c.Pair().Output, again.Pair().Output))
}

func TestBank(t *testing.T) {
	store := memStore{}
	bank := NewBank(store, Config{})

	_, err := bank.Model(1)
	assert.True(t, errors.Is(err, ErrNoWeights))
	_, err = bank.Model(0)
	assert.True(t, errors.Is(err, kana.ErrStrokeIndex))

	for s := 1; s <= kana.MaxStrokes; s++ {
		require.NoError(t, Save(store, network(t, s)))
	}
	require.NoError(t, bank.Preload())

	m, err := bank.Model(3)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Stroke())

	id, err := bank.Predict(3, vector(9))
	require.NoError(t, err)
	_, ok := kana.MustSet(3).Index(id)
	assert.True(t, ok)
}
