package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddvk/kanahwr/classifier"
	"github.com/ddvk/kanahwr/config"
	"github.com/ddvk/kanahwr/dataset"
	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/raster"
)

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.DataDir = dir
	cfg.WeightsDir = dir
	cfg.ScratchDir = dir + "/scratch"
	return cfg
}

func trained(t *testing.T, cfg config.Config) {
	rnd := rand.New(rand.NewSource(1))
	store := cfg.Store()
	for s := 1; s <= kana.MaxStrokes; s++ {
		net := cfg.Network()
		net.Stroke = s
		c, err := classifier.Bootstrap(net, rnd)
		require.NoError(t, err)
		require.NoError(t, classifier.Save(store, c))
	}
}

func canvas(t *testing.T) string {
	img := image.NewNRGBA(image.Rect(0, 0, 84, 84))
	for x := 20; x < 60; x++ {
		img.SetNRGBA(x, 40, color.NRGBA{A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return raster.EncodeDataURL(buf.Bytes())
}

func post(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data)))
	return rec
}

func TestJudgeEndpoint(t *testing.T) {
	cfg := testConfig(t)
	trained(t, cfg)
	h := NewApiServer(cfg).routes()
	url := canvas(t)

	rec := post(t, h, "/api/judge", map[string]interface{}{
		"char":    3,
		"strokes": []string{url, url},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data JudgeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Points)
	assert.NotEmpty(t, resp.Data.Submission)
	assert.Len(t, resp.Data.CorrectStrokes, 2-len(resp.Data.IncorrectStrokes))
	assert.Len(t, resp.Data.MistakenFor, len(resp.Data.IncorrectStrokes))

	drawing, err := cfg.Scratch().Load(resp.Data.Submission)
	require.NoError(t, err)
	assert.Len(t, drawing, 2)
}

func TestJudgeEndpointErrors(t *testing.T) {
	cfg := testConfig(t)
	h := NewApiServer(cfg).routes()
	url := canvas(t)

	rec := post(t, h, "/api/judge", map[string]interface{}{"char": 3, "strokes": []string{url}})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = post(t, h, "/api/judge", map[string]interface{}{"char": 99, "strokes": []string{url}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, h, "/api/judge", map[string]interface{}{"char": 3, "strokes": []string{"data:image/png;base64,@@"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/judge", bytes.NewReader([]byte("{"))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/judge", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSamplesEndpoint(t *testing.T) {
	cfg := testConfig(t)
	h := NewApiServer(cfg).routes()
	url := canvas(t)

	rec := post(t, h, "/api/samples", map[string]interface{}{"user": "hana", "char": 4, "strokes": []string{url, url}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for s := 1; s <= 2; s++ {
		got, err := cfg.Store().Load(s, dataset.Train)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
}

func TestCharactersEndpoint(t *testing.T) {
	h := NewApiServer(testConfig(t)).routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/characters", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, kana.Count)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/characters?level=1", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 6)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "OK", rec.Body.String())
}
