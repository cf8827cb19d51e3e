// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cropwise/internal/history"
	"github.com/tomtom215/cropwise/internal/imaging"
	"github.com/tomtom215/cropwise/internal/inference"
	"github.com/tomtom215/cropwise/internal/logging"
	"github.com/tomtom215/cropwise/internal/predict"
	"github.com/tomtom215/cropwise/internal/region"
)

// testForestJSON splits on N: N <= 60 is rice, otherwise mostly maize.
const testForestJSON = `{
	"n_features": 7,
	"n_classes": 3,
	"trees": [{
		"children_left":  [1, -1, -1],
		"children_right": [2, -1, -1],
		"feature":        [0, -2, -2],
		"threshold":      [60, -2, -2],
		"value":          [[0, 0, 0], [4, 0, 0], [0, 3, 1]]
	}]
}`

type stubImageClassifier struct {
	scores []float32
}

func (s *stubImageClassifier) Classify(context.Context, imaging.Tensor) ([]float32, error) {
	return s.scores, nil
}

func testRegions() *region.Store {
	return region.NewStore(region.NewIndex([]region.Record{
		{State: "Punjab", District: "Ludhiana", Crop: "Wheat", Production: 1000, Area: 100, Yield: 10},
		{State: "Punjab", District: "Ludhiana", Crop: "Rice", Production: 800, Area: 50, Yield: 16},
		{State: "Punjab", District: "Amritsar", Crop: "Cotton", Production: 300, Area: 30, Yield: 10},
		{State: "Kerala", District: "Idukki", Crop: "Tea", Production: 400, Area: 80, Yield: 5},
	}))
}

type testEnv struct {
	handler *Handler
	history *history.Store
	server  http.Handler
}

// setupTestEnv builds a handler over a fully loaded service. With
// withHistory, predictions are recorded in an in-memory DuckDB store.
func setupTestEnv(t *testing.T, withHistory bool, cfg predict.Config) *testEnv {
	t.Helper()

	forest, err := inference.DecodeForest(strings.NewReader(testForestJSON))
	if err != nil {
		t.Fatalf("DecodeForest: %v", err)
	}
	labels := inference.NewLabelEncoder([]string{"rice", "maize", "chickpea"})

	opts := []predict.Option{
		predict.WithSoilModel(forest, labels),
		predict.WithImageModel(&stubImageClassifier{scores: []float32{0.05, 0.05, 0.7, 0.1, 0.05, 0.05}}),
		predict.WithRegions(testRegions()),
	}

	env := &testEnv{}
	var store HistoryStore
	if withHistory {
		hs, err := history.Open(context.Background(), history.MemoryPath)
		if err != nil {
			t.Fatalf("history.Open: %v", err)
		}
		t.Cleanup(func() { _ = hs.Close() })
		env.history = hs
		store = hs
		opts = append(opts, predict.WithHistory(hs))
	}

	svc := predict.New(cfg, testLogger(), opts...)
	env.handler = NewHandler(svc, store, "test")

	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{"GET", "POST", "PATCH"},
		RateLimitDisabled:  true,
	})
	env.server = NewRouter(env.handler, mw).SetupChi()
	return env
}

func testLogger() zerolog.Logger {
	return logging.NewTestLogger(io.Discard)
}

func serve(h http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func (e *testEnv) do(t *testing.T, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	return serve(e.server, method, path, r, contentType)
}

func (e *testEnv) postJSON(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, path, []byte(body), "application/json")
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	resp := decodeBody[ErrorResponse](t, w)
	if resp.Status != status {
		t.Errorf("body status = %d, want %d", resp.Status, status)
	}
	if resp.Code != code {
		t.Errorf("code = %q, want %q", resp.Code, code)
	}
	if resp.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}
