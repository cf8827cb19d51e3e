// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/cropwise/internal/history"
	"github.com/tomtom215/cropwise/internal/predict"
)

func TestHistory_RecordListAndFeedback(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, true, predict.Config{})

	w := env.postJSON(t, "/predict/soil-params", `{"N": 100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("predict status = %d, body %s", w.Code, w.Body.String())
	}
	res := decodeBody[predict.Result](t, w)
	if res.HistoryID == "" {
		t.Fatal("history_id should be set when history is enabled")
	}

	w = env.postJSON(t, "/predict/region", `{"region": "Kerala"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("region status = %d, body %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/history?limit=10", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", w.Code, w.Body.String())
	}
	list := decodeBody[HistoryResponse](t, w)
	if list.Count != 2 || list.Limit != 10 || list.Offset != 0 {
		t.Fatalf("list = %+v, want 2 entries with limit 10", list)
	}
	for _, e := range list.Recommendations {
		if e.Status != history.StatusPending {
			t.Errorf("entry %s status = %q, want pending", e.ID, e.Status)
		}
	}

	w = env.do(t, http.MethodPatch, "/history/"+res.HistoryID, []byte(`{"status": "success", "feedback": "good harvest"}`), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("feedback status = %d, body %s", w.Code, w.Body.String())
	}
	entry := decodeBody[history.Entry](t, w)
	if entry.Status != history.StatusSuccess || entry.Feedback != "good harvest" {
		t.Errorf("entry = %+v, want success with feedback", entry)
	}
	if entry.Method != predict.MethodSoilParams {
		t.Errorf("method = %q", entry.Method)
	}
}

func TestHistory_FeedbackErrors(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, true, predict.Config{})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown id", "/history/does-not-exist", `{"status": "failure"}`, http.StatusNotFound, ErrCodeNotFound},
		{"pending is not an outcome", "/history/x", `{"status": "pending"}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"missing status", "/history/x", `{"feedback": "meh"}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"empty body", "/history/x", ``, http.StatusBadRequest, ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPatch, tt.path, []byte(tt.body), "application/json")
			assertError(t, w, tt.status, tt.code)
		})
	}
}

func TestHistory_ListValidation(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, true, predict.Config{})

	for _, path := range []string{"/history?limit=0", "/history?limit=101", "/history?offset=-1", "/history?limit=abc"} {
		t.Run(path, func(t *testing.T) {
			w := env.do(t, http.MethodGet, path, nil, "")
			assertError(t, w, http.StatusBadRequest, ErrCodeValidationFailed)
		})
	}
}

func TestHistory_Disabled(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, false, predict.Config{})

	tests := []struct {
		method string
		path   string
		body   []byte
	}{
		{http.MethodGet, "/history", nil},
		{http.MethodPatch, "/history/abc", []byte(`{"status": "success"}`)},
		{http.MethodGet, "/analytics/summary", nil},
		{http.MethodGet, "/analytics/methods", nil},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.body, "application/json")
			assertError(t, w, http.StatusNotFound, ErrCodeNotFound)
		})
	}
}

func TestAnalytics(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, true, predict.Config{})

	var ids []string
	for _, body := range []string{`{"N": 100}`, `{"N": 10}`, `{"N": 120}`} {
		w := env.postJSON(t, "/predict/soil-params", body)
		if w.Code != http.StatusOK {
			t.Fatalf("predict status = %d", w.Code)
		}
		ids = append(ids, decodeBody[predict.Result](t, w).HistoryID)
	}

	summary := decodeBody[history.Summary](t, env.do(t, http.MethodGet, "/analytics/summary", nil, ""))
	if summary.Overview.Total != 3 || summary.Overview.Pending != 3 {
		t.Errorf("overview = %+v, want 3 pending", summary.Overview)
	}
	if summary.Overview.SuccessRate != 0 {
		t.Errorf("successRate with no outcomes = %d, want 0", summary.Overview.SuccessRate)
	}

	for i, status := range []string{"success", "success", "failure"} {
		w := env.do(t, http.MethodPatch, "/history/"+ids[i], []byte(`{"status": "`+status+`"}`), "application/json")
		if w.Code != http.StatusOK {
			t.Fatalf("feedback status = %d, body %s", w.Code, w.Body.String())
		}
	}

	// Feedback invalidates the cached summary.
	w := env.do(t, http.MethodGet, "/analytics/summary", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("summary status = %d, body %s", w.Code, w.Body.String())
	}
	summary = decodeBody[history.Summary](t, w)
	if summary.Overview.Success != 2 || summary.Overview.Failure != 1 || summary.Overview.SuccessRate != 67 {
		t.Errorf("overview = %+v, want 2 success, 1 failure, 67%%", summary.Overview)
	}
	if len(summary.MethodDistribution) != 1 || summary.MethodDistribution[0].Method != predict.MethodSoilParams {
		t.Errorf("methodDistribution = %+v", summary.MethodDistribution)
	}
	if len(summary.TopCrops) == 0 {
		t.Error("topCrops should not be empty")
	}

	w = env.do(t, http.MethodGet, "/analytics/methods", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("methods status = %d", w.Code)
	}
	methods := decodeBody[struct {
		Methods []history.MethodRate `json:"methods"`
		Count   int                  `json:"count"`
	}](t, w)
	if methods.Count != 1 || methods.Methods[0].SuccessRate != 67 {
		t.Errorf("methods = %+v", methods)
	}
}
