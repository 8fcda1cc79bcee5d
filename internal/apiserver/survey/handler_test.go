package survey

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"survey-admin/internal/shared/model"
)

func newTestHandler(t *testing.T) *http.ServeMux {
	t.Helper()
	svc, _ := newTestService(t)
	mux := http.NewServeMux()
	NewHandler(svc).RegisterRoutes(mux)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreateAndList(t *testing.T) {
	mux := newTestHandler(t)

	rec := doJSON(t, mux, "POST", "/api/survey-responses", model.SurveyResponse{Location: "Mitte"})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created["id"] == "" {
		t.Error("create response missing id")
	}

	rec = doJSON(t, mux, "GET", "/api/survey-responses", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed []model.SurveyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created["id"] {
		t.Errorf("list = %+v, want single record %s", listed, created["id"])
	}
}

func TestHandlerCreate_BadBody(t *testing.T) {
	mux := newTestHandler(t)

	req := httptest.NewRequest("POST", "/api/survey-responses", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlerUpdateDelete_NotFound(t *testing.T) {
	mux := newTestHandler(t)

	tests := []struct {
		method string
		body   interface{}
	}{
		{"PUT", model.SurveyResponse{Location: "Mitte"}},
		{"DELETE", nil},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := doJSON(t, mux, tt.method, "/api/survey-responses/resp-missing", tt.body)
			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
			}
		})
	}
}

func TestHandlerImportCSV(t *testing.T) {
	mux := newTestHandler(t)

	csvData := "Q00. In welchem Kiez wohnen Sie?;Q001. Wie alt sind Sie?\nMitte;25-34\nN/A;35-44\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "umfrage.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte(csvData))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/import-csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Successfully imported 1 survey responses") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandlerImportCSV_WrongExtension(t *testing.T) {
	mux := newTestHandler(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "umfrage.txt")
	fw.Write([]byte("data"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/import-csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlerExportCSV(t *testing.T) {
	mux := newTestHandler(t)

	// 空库导出返回 404
	rec := doJSON(t, mux, "GET", "/api/export-csv", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("empty export status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	doJSON(t, mux, "POST", "/api/survey-responses", model.SurveyResponse{Location: "Mitte"})

	rec = doJSON(t, mux, "GET", "/api/export-csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=survey_export.csv" {
		t.Errorf("Content-Disposition = %q", got)
	}
	var out map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode export response: %v", err)
	}
	if !strings.Contains(out["csv_data"], "Mitte") {
		t.Errorf("csv_data missing record: %q", out["csv_data"])
	}
}

func TestHandlerStats(t *testing.T) {
	mux := newTestHandler(t)

	doJSON(t, mux, "POST", "/api/survey-responses", model.SurveyResponse{Location: "Mitte", AgeGroup: "25-34"})
	doJSON(t, mux, "POST", "/api/survey-responses", model.SurveyResponse{Location: "Mitte", AgeGroup: "35-44"})

	rec := doJSON(t, mux, "GET", "/api/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var stats Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalResponses != 2 {
		t.Errorf("total_responses = %d, want 2", stats.TotalResponses)
	}
	if len(stats.LocationDistribution) != 1 || stats.LocationDistribution[0].Location != "Mitte" {
		t.Errorf("location_distribution = %+v", stats.LocationDistribution)
	}
	if len(stats.AgeDistribution) != 2 {
		t.Errorf("age_distribution = %+v", stats.AgeDistribution)
	}
}
