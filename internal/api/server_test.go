package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docnorm/internal/blankline"
	"github.com/dgallion1/docnorm/internal/config"
	"github.com/dgallion1/docnorm/internal/pipeline"
	"github.com/dgallion1/docnorm/internal/report"
)

const testAPIKey = "test-api-key"

func newTestServer(t *testing.T) (*Server, *pipeline.Orchestrator) {
	t.Helper()
	cfg := config.Config{
		APIKey:         testAPIKey,
		WorkerCount:    1,
		MaxQueueSize:   4,
		MaxUploadBytes: 1 << 20,
		JobTTL:         time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	stats := report.NewStats(time.Hour)
	orch := pipeline.NewOrchestrator(cfg, blankline.DefaultOptions(), nil, stats, log)
	return NewServer(orch, stats, log, cfg, blankline.DefaultOptions()), orch
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	return req
}

func TestHealth_NoAuthRequired(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"ok"`)) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestAuth_MissingToken(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_WrongToken(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	rec := doRequest(s, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestStats(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(s, authed(httptest.NewRequest(http.MethodGet, "/api/stats", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := body["queue_depth"]; !ok {
		t.Error("expected queue_depth in stats response")
	}
	if _, ok := body["stats"]; !ok {
		t.Error("expected stats in stats response")
	}
}

func TestJobStatus_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(s, authed(httptest.NewRequest(http.MethodGet, "/api/normalize/unknown/status", nil)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestJobStatus_Queued(t *testing.T) {
	s, orch := newTestServer(t)

	// Submit without starting workers; the job stays queued.
	job := pipeline.NewJob("doc.docx", []byte("data"))
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	rec := doRequest(s, authed(httptest.NewRequest(http.MethodGet, "/api/normalize/"+job.ID+"/status", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var snap pipeline.JobSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if snap.ID != job.ID || snap.Status != pipeline.StatusQueued {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestJobReport_NotReady(t *testing.T) {
	s, orch := newTestServer(t)
	job := pipeline.NewJob("doc.docx", []byte("data"))
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	rec := doRequest(s, authed(httptest.NewRequest(http.MethodGet, "/api/normalize/"+job.ID+"/report", nil)))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 before the report exists, got %d", rec.Code)
	}
}

func TestJobReport_RendersHTML(t *testing.T) {
	s, orch := newTestServer(t)
	job := pipeline.NewJob("doc.docx", []byte("data"))
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	job.SetReport("# Normalization report: doc.docx")

	rec := doRequest(s, authed(httptest.NewRequest(http.MethodGet, "/api/normalize/"+job.ID+"/report", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("<h1")) {
		t.Errorf("expected rendered HTML, got %s", rec.Body.String())
	}
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestNormalize_UnsupportedExtension(t *testing.T) {
	s, _ := newTestServer(t)
	body, contentType := multipartUpload(t, "file", "notes.txt", []byte("plain text"))

	req := authed(httptest.NewRequest(http.MethodPost, "/api/normalize", body))
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(s, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNormalize_MissingFile(t *testing.T) {
	s, _ := newTestServer(t)
	body, contentType := multipartUpload(t, "wrongfield", "doc.docx", []byte("x"))

	req := authed(httptest.NewRequest(http.MethodPost, "/api/normalize", body))
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(s, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNormalize_MalformedDocx(t *testing.T) {
	s, _ := newTestServer(t)
	body, contentType := multipartUpload(t, "file", "doc.docx", []byte("not a zip container"))

	req := authed(httptest.NewRequest(http.MethodPost, "/api/normalize", body))
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(s, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBatchNormalize_RejectsEmpty(t *testing.T) {
	s, _ := newTestServer(t)
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.Close()

	req := authed(httptest.NewRequest(http.MethodPost, "/api/normalize/batch", &buf))
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := doRequest(s, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBatchNormalize_QueuesJobs(t *testing.T) {
	s, orch := newTestServer(t)
	body, contentType := multipartUpload(t, "files", "doc.docx", []byte("raw bytes"))

	req := authed(httptest.NewRequest(http.MethodPost, "/api/normalize/batch", body))
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(s, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Jobs []struct {
			JobID   string `json:"job_id"`
			DocID   string `json:"doc_id"`
			PollURL string `json:"poll_url"`
		} `json:"jobs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Jobs) != 1 {
		t.Fatalf("expected 1 queued job, got %d", len(resp.Jobs))
	}
	if resp.Jobs[0].JobID == "" || resp.Jobs[0].PollURL == "" {
		t.Errorf("unexpected job entry %+v", resp.Jobs[0])
	}
	if orch.GetJob(resp.Jobs[0].JobID) == nil {
		t.Error("expected queued job retrievable from the orchestrator")
	}
}

func TestRequestLogger_RecordsUploadSize(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	h := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/normalize", strings.NewReader("payload"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	if !strings.Contains(line, `"upload_bytes":7`) {
		t.Errorf("expected upload_bytes in log line: %s", line)
	}
	if !strings.Contains(line, `"status":202`) {
		t.Errorf("expected response status in log line: %s", line)
	}
}

func TestRequestLogger_SkipsSizeForBodylessRequest(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	h := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if strings.Contains(buf.String(), "upload_bytes") {
		t.Errorf("unexpected upload_bytes for a bodyless request: %s", buf.String())
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"report.docx", "report.docx"},
		{"../../etc/passwd", "passwd"},
		{"dir/report.docx", "report.docx"},
		{"", "unnamed"},
		{".", "unnamed"},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
