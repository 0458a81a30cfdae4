package hwr

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddvk/kanahwr/dataset"
	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/raster"
)

// readAs predicts a fixed character per stroke index.
type readAs map[int]kana.CharID

func (r readAs) Predict(stroke int, vec []float64) (kana.CharID, error) {
	id, ok := r[stroke]
	if !ok {
		return 0, errors.New("no network")
	}
	return id, nil
}

func vectors(n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, raster.Features)
	}
	return out
}

func TestKiReadAsE(t *testing.T) {
	v, err := Judge(readAs{1: 5, 2: 8, 3: 8}, 8, vectors(3))
	require.NoError(t, err)
	assert.Equal(t, Accepted, v.State)
	assert.True(t, v.Success())
	assert.Equal(t, []bool{true, true, true}, v.PerStrokeCorrect)
	assert.Empty(t, v.MistakenFor)
	assert.Equal(t, []int{1, 2, 3}, v.CorrectStrokes())
	assert.Equal(t, []int{}, v.IncorrectStrokes())
}

func TestSecondStrokeWrong(t *testing.T) {
	v, err := Judge(readAs{1: 3, 2: 33}, 3, vectors(2))
	require.NoError(t, err)
	assert.Equal(t, Rejected, v.State)
	assert.Equal(t, []bool{true, false}, v.PerStrokeCorrect)
	assert.Equal(t, []kana.CharID{33}, v.MistakenFor)
	assert.Equal(t, []int{1}, v.CorrectStrokes())
	assert.Equal(t, []int{2}, v.IncorrectStrokes())
	assert.False(t, v.Incomplete)
}

func TestSimilarOnlyEarly(t *testing.T) {
	// ha and ho look alike after two strokes but not after three
	v, err := Judge(readAs{1: 27, 2: 31, 3: 31}, 27, vectors(3))
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false}, v.PerStrokeCorrect)
	assert.Equal(t, []kana.CharID{31}, v.MistakenFor)
	assert.Equal(t, Rejected, v.State)
}

func TestFifthStrokeInvalid(t *testing.T) {
	models := readAs{1: 17, 2: 17, 3: 17, 4: 17}
	v, err := Judge(models, 17, vectors(5))
	require.NoError(t, err)
	assert.Equal(t, Invalid, v.State)
	assert.Nil(t, v.PerStrokeCorrect)
	assert.Nil(t, v.MistakenFor)
	assert.False(t, v.Success())

	d, err := NewDrawing(models, 17)
	require.NoError(t, err)
	for i, vec := range vectors(4) {
		st, err := d.Submit(vec)
		require.NoError(t, err)
		if i < 3 {
			assert.Equal(t, AwaitingStroke, st)
		} else {
			assert.Equal(t, Accepted, st)
		}
	}
	st, err := d.Submit(vectors(1)[0])
	require.NoError(t, err)
	assert.Equal(t, Invalid, st)
	st, err = d.Submit(vectors(1)[0])
	require.NoError(t, err)
	assert.Equal(t, Invalid, st)
}

func TestExtraStrokeRejects(t *testing.T) {
	v, err := Judge(readAs{1: 1, 2: 3}, 1, vectors(2))
	require.NoError(t, err)
	assert.Equal(t, Rejected, v.State)
	assert.Equal(t, []bool{true, false}, v.PerStrokeCorrect)
	assert.Equal(t, []kana.CharID{3}, v.MistakenFor)
}

func TestIncompleteRejects(t *testing.T) {
	d, err := NewDrawing(readAs{1: 2}, 2)
	require.NoError(t, err)
	_, err = d.Submit(vectors(1)[0])
	require.NoError(t, err)
	assert.Equal(t, AwaitingStroke, d.State())
	assert.Equal(t, 2, d.Next())
	assert.False(t, d.Verdict().Incomplete)

	v := d.Finish()
	assert.Equal(t, Rejected, v.State)
	assert.True(t, v.Incomplete)
	assert.Equal(t, []bool{true}, v.PerStrokeCorrect)
}

func TestJudgeErrors(t *testing.T) {
	_, err := Judge(readAs{}, 47, vectors(1))
	assert.True(t, errors.Is(err, kana.ErrUnknownChar))

	_, err = Judge(readAs{1: 2}, 2, vectors(2))
	assert.Error(t, err)
}

func dataURL(t *testing.T) string {
	img := image.NewNRGBA(image.Rect(0, 0, 56, 56))
	for y := 10; y < 40; y++ {
		img.SetNRGBA(20, y, color.NRGBA{A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return raster.EncodeDataURL(buf.Bytes())
}

func processor(t *testing.T, models Predictor) (*Processor, *dataset.Store) {
	dir := t.TempDir()
	store := dataset.NewStore(dir, "")
	return &Processor{
		Models:  models,
		Samples: store,
		Scratch: &dataset.Scratch{Dir: dir + "/scratch"},
	}, store
}

func TestProcessGame(t *testing.T) {
	p, _ := processor(t, readAs{1: 3, 2: 33})
	url := dataURL(t)

	out, err := p.Process(Submission{User: "hana", Char: 3, Mode: Game, Strokes: []string{url, url}})
	require.NoError(t, err)
	assert.False(t, out.Result)
	assert.Equal(t, 2, out.Points)
	assert.Equal(t, []kana.CharID{33}, out.MistakenFor)
	assert.Equal(t, []int{1}, out.CorrectStrokes)
	assert.Equal(t, []int{2}, out.IncorrectStrokes)

	drawing, err := p.Scratch.Load("hana")
	require.NoError(t, err)
	require.Len(t, drawing, 2)
	assert.Equal(t, kana.CharID(3), drawing[0].Label)
	assert.NotZero(t, drawing[0].Pixels[raster.GridSize*12+10])
}

func TestProcessGameInvalid(t *testing.T) {
	p, _ := processor(t, readAs{1: 17, 2: 17, 3: 17, 4: 17})
	url := dataURL(t)
	out, err := p.Process(Submission{User: "hana", Char: 17, Strokes: []string{url, url, url, url, url}})
	require.NoError(t, err)
	assert.True(t, out.Invalid)
	assert.False(t, out.Result)
	assert.Empty(t, out.CorrectStrokes)
}

func TestProcessTraining(t *testing.T) {
	p, store := processor(t, nil)
	url := dataURL(t)

	out, err := p.Process(Submission{User: "hana", Char: 4, Mode: Training, Strokes: []string{url, url}})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Saved)
	for s := 1; s <= 2; s++ {
		got, err := store.LoadTrain(s)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, kana.CharID(4), got[0].Label)
	}

	_, err = p.Process(Submission{Char: 4, Mode: Training, Strokes: []string{url, url, url, url, url}})
	assert.True(t, errors.Is(err, kana.ErrStrokeIndex))
}

func TestProcessRejectsBadInput(t *testing.T) {
	p, _ := processor(t, readAs{})
	_, err := p.Process(Submission{Char: 4})
	assert.True(t, errors.Is(err, ErrNoStrokes))

	_, err = p.Process(Submission{Char: 4, Strokes: []string{"data:image/png;base64,!!"}})
	assert.True(t, errors.Is(err, raster.ErrDataURL))

	_, err = p.Process(Submission{Char: 4, Mode: "chat", Strokes: []string{dataURL(t)}})
	assert.True(t, errors.Is(err, ErrMode))
}
