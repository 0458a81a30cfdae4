package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ddvk/kanahwr/encoding/weights"
	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/raster"
)

func sample(label kana.CharID, value int) Sample {
	pixels := make([]int, raster.Features)
	for i := range pixels {
		pixels[i] = (value + i) % 256
	}
	return Sample{Label: label, Pixels: pixels}
}

func TestParseRecord(t *testing.T) {
	s := sample(8, 3)
	got, err := ParseRecord(s.String() + "\n")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	_, err = ParseRecord("8,1,2,3")
	assert.True(t, errors.Is(err, ErrDataFormat))

	bad := strings.Replace(s.String(), ",3,", ",x,", 1)
	_, err = ParseRecord(bad)
	assert.True(t, errors.Is(err, ErrDataFormat))

	_, err = ParseRecord("47" + s.String()[1:])
	assert.True(t, errors.Is(err, ErrDataFormat))
}

func TestParseRecordFloatPixels(t *testing.T) {
	line := "2" + strings.Repeat(",12.0", raster.Features)
	got, err := ParseRecord(line)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Pixels[100])

	line = "2" + strings.Repeat(",300", raster.Features)
	_, err = ParseRecord(line)
	assert.True(t, errors.Is(err, ErrDataFormat))
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	store := NewStore(t.TempDir(), "")
	require.NoError(t, store.Append(2, Train, sample(3, 1)))

	f, err := os.OpenFile(store.Path(2, Train), os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("3,1,2\n\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, store.AppendTrain(2, sample(45, 9)))

	got, err := store.LoadTrain(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, kana.CharID(3), got[0].Label)
	assert.Equal(t, kana.CharID(45), got[1].Label)
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(t.TempDir(), "")
	_, err := store.LoadTest(1)
	assert.Error(t, err)

	_, err = store.LoadTest(5)
	assert.True(t, errors.Is(err, kana.ErrStrokeIndex))
}

func TestTrainAndTestAreSeparate(t *testing.T) {
	store := NewStore(t.TempDir(), "")
	require.NoError(t, store.Append(1, Test, sample(1, 0), sample(2, 0)))
	require.NoError(t, store.Append(1, Train, sample(3, 0)))

	test, err := store.LoadTest(1)
	require.NoError(t, err)
	train, err := store.LoadTrain(1)
	require.NoError(t, err)
	assert.Len(t, test, 2)
	assert.Len(t, train, 1)
}

func TestWeightsBootstrapAndRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, dir+"/w")

	pair, err := store.LoadWeights(3)
	require.NoError(t, err)
	assert.Nil(t, pair)

	in := &weights.Pair{
		Hidden: mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		Output: mat.NewDense(1, 2, []float64{5, 6}),
	}
	require.NoError(t, store.SaveWeights(3, in))

	out, err := store.LoadWeights(3)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 3, out.Stroke)
	assert.True(t, mat.Equal(in.Output, out.Output))

	// a file saved for another stroke is rejected
	require.NoError(t, os.Rename(store.WeightsPath(3), store.WeightsPath(4)))
	_, err = store.LoadWeights(4)
	assert.Error(t, err)
}

func TestCorruptWeights(t *testing.T) {
	store := NewStore(t.TempDir(), "")
	require.NoError(t, os.WriteFile(store.WeightsPath(1), []byte("garbage"), 0644))
	_, err := store.LoadWeights(1)
	assert.Error(t, err)
}

func TestScratch(t *testing.T) {
	s := &Scratch{Dir: t.TempDir()}
	require.NoError(t, s.Write("hana", 1, sample(2, 0)))
	require.NoError(t, s.Write("hana", 2, sample(2, 1)))

	got, err := s.Load("hana")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// a new drawing replaces the old one
	require.NoError(t, s.Write("hana", 1, sample(9, 0)))
	got, err = s.Load("hana")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, kana.CharID(9), got[0].Label)

	assert.NotContains(t, s.Path("../etc/passwd"), "..")
	assert.Equal(t, s.Dir, filepath.Dir(s.Path("../etc/passwd")))
	require.NoError(t, s.Remove("hana"))
	require.NoError(t, s.Remove("hana"))
}

func TestScratchUsersDoNotCollide(t *testing.T) {
	s := &Scratch{Dir: t.TempDir()}
	users := []string{"a.b", "a_b", "a@b", "a b", "a-b", "", "_"}
	seen := map[string]string{}
	for _, u := range users {
		p := s.Path(u)
		if other, ok := seen[p]; ok {
			t.Fatalf("%q and %q share %s", u, other, p)
		}
		seen[p] = u
	}

	require.NoError(t, s.Write("a.b", 1, sample(2, 0)))
	require.NoError(t, s.Write("a.b", 2, sample(2, 1)))
	require.NoError(t, s.Write("a_b", 1, sample(9, 0)))

	got, err := s.Load("a.b")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, kana.CharID(2), got[0].Label)

	got, err = s.Load("a_b")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, kana.CharID(9), got[0].Label)
}
