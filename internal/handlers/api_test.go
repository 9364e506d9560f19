package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"examtrack/internal/catalog"
	"examtrack/internal/database"
	"examtrack/internal/models"
	"examtrack/internal/repository"
	"examtrack/internal/service"
)

func newTestTracker(t *testing.T) *service.TrackerService {
	t.Helper()

	kv := database.NewMemoryKV()
	t.Cleanup(func() { kv.Close() })

	repo := repository.NewStoreRepository(kv, "study-statistics", 10)
	tracker, err := service.NewTrackerService(repo, nil)
	if err != nil {
		t.Fatalf("failed to build tracker: %v", err)
	}
	return tracker
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	return httptest.NewRequest(method, target, &buf)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func startSessionForTest(t *testing.T, h *SessionHandler, code string) *models.Session {
	t.Helper()

	rec := httptest.NewRecorder()
	h.StartSession(rec, jsonRequest(t, http.MethodPost, "/api/sessions/start", startSessionRequest{ExamCode: code}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 starting session, got %d", rec.Code)
	}

	var session models.Session
	decodeResponse(t, rec, &session)
	return &session
}

func boolPtr(v bool) *bool { return &v }

func TestStartSessionEndpoint(t *testing.T) {
	tracker := newTestTracker(t)
	h := NewSessionHandler(tracker)

	rec := httptest.NewRecorder()
	h.StartSession(rec, jsonRequest(t, http.MethodPost, "/api/sessions/start",
		startSessionRequest{ExamCode: "cad", ExamName: "Certified Application Developer"}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	var session models.Session
	decodeResponse(t, rec, &session)
	if session.ID == "" {
		t.Fatal("expected a session ID")
	}
	if session.ExamCode != "CAD" {
		t.Fatalf("expected exam code CAD, got %q", session.ExamCode)
	}
	if !session.Active() {
		t.Fatal("expected the new session to be active")
	}
}

func TestStartSessionRejectsBadRequests(t *testing.T) {
	tracker := newTestTracker(t)
	h := NewSessionHandler(tracker)

	tests := []struct {
		name string
		body string
	}{
		{"MalformedJSON", `{"examCode": `},
		{"EmptyExamCode", `{"examCode": ""}`},
		{"InvalidExamCode", `{"examCode": "bad code!"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/sessions/start", strings.NewReader(tt.body))
			h.StartSession(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestEndSessionEndpoint(t *testing.T) {
	tracker := newTestTracker(t)
	h := NewSessionHandler(tracker)

	// Nothing active yet
	rec := httptest.NewRecorder()
	h.EndSession(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/end", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 with no active session, got %d", rec.Code)
	}

	startSessionForTest(t, h, "CAD")

	rec = httptest.NewRecorder()
	h.EndSession(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/end", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var ended models.Session
	decodeResponse(t, rec, &ended)
	if !ended.Completed || ended.EndTime == nil {
		t.Fatal("expected the returned session to be finalized")
	}
}

func TestRecordAttemptEndpoint(t *testing.T) {
	tracker := newTestTracker(t)
	sessions := NewSessionHandler(tracker)
	attempts := NewAttemptHandler(tracker)

	startSessionForTest(t, sessions, "CAD")

	tests := []struct {
		name        string
		body        recordAttemptRequest
		wantCorrect bool
	}{
		{
			name: "ClientJudged",
			body: recordAttemptRequest{
				QuestionNumber:  1,
				CorrectLetters:  []string{"A", "C"},
				SelectedLetters: []string{"A"},
				IsCorrect:       boolPtr(false),
			},
			wantCorrect: false,
		},
		{
			name: "ServerJudgedCorrect",
			body: recordAttemptRequest{
				QuestionNumber:  2,
				CorrectLetters:  []string{"c", "a"},
				SelectedLetters: []string{"A", "C"},
			},
			wantCorrect: true,
		},
		{
			name: "ServerJudgedIncorrect",
			body: recordAttemptRequest{
				QuestionNumber:  3,
				CorrectLetters:  []string{"A", "C"},
				SelectedLetters: []string{"A", "B"},
			},
			wantCorrect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			attempts.RecordAttempt(rec, jsonRequest(t, http.MethodPost, "/api/attempts", tt.body))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}

			var snapshot models.Session
			decodeResponse(t, rec, &snapshot)
			q := snapshot.Question(tt.body.QuestionNumber)
			if q == nil {
				t.Fatalf("question %d missing from snapshot", tt.body.QuestionNumber)
			}
			if q.IsCorrect != tt.wantCorrect {
				t.Fatalf("expected isCorrect=%v, got %v", tt.wantCorrect, q.IsCorrect)
			}
		})
	}
}

func TestRecordAttemptWithoutSession(t *testing.T) {
	tracker := newTestTracker(t)
	h := NewAttemptHandler(tracker)

	rec := httptest.NewRecorder()
	h.RecordAttempt(rec, jsonRequest(t, http.MethodPost, "/api/attempts", recordAttemptRequest{
		QuestionNumber:  1,
		CorrectLetters:  []string{"A"},
		SelectedLetters: []string{"A"},
	}))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
}

func TestAttemptEndpointsValidateQuestionNumber(t *testing.T) {
	tracker := newTestTracker(t)
	h := NewAttemptHandler(tracker)

	endpoints := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"Reset", h.ResetAttempt},
		{"HighlightView", h.HighlightView},
		{"HighlightClick", h.HighlightClick},
	}

	for _, ep := range endpoints {
		t.Run(ep.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ep.handler(rec, jsonRequest(t, http.MethodPost, "/", questionRequest{QuestionNumber: 0}))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
		})
	}

	rec := httptest.NewRecorder()
	h.RecordAttempt(rec, jsonRequest(t, http.MethodPost, "/api/attempts", recordAttemptRequest{QuestionNumber: -1}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestResetAttemptEndpoint(t *testing.T) {
	tracker := newTestTracker(t)
	sessions := NewSessionHandler(tracker)
	attempts := NewAttemptHandler(tracker)

	// No session yet: reset is a silent no-op
	rec := httptest.NewRecorder()
	attempts.ResetAttempt(rec, jsonRequest(t, http.MethodPost, "/api/attempts/reset", questionRequest{QuestionNumber: 1}))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 with no active session, got %d", rec.Code)
	}

	startSessionForTest(t, sessions, "CAD")

	rec = httptest.NewRecorder()
	attempts.RecordAttempt(rec, jsonRequest(t, http.MethodPost, "/api/attempts", recordAttemptRequest{
		QuestionNumber:  7,
		CorrectLetters:  []string{"B"},
		SelectedLetters: []string{"B"},
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 recording attempt, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	attempts.ResetAttempt(rec, jsonRequest(t, http.MethodPost, "/api/attempts/reset", questionRequest{QuestionNumber: 7}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var snapshot models.Session
	decodeResponse(t, rec, &snapshot)
	q := snapshot.Question(7)
	if q == nil {
		t.Fatal("question 7 missing from snapshot")
	}
	if len(q.Attempts) != 0 {
		t.Fatalf("expected the attempt to be dropped, got %d left", len(q.Attempts))
	}
	if q.ResetCount != 1 {
		t.Fatalf("expected reset count 1, got %d", q.ResetCount)
	}
}

func TestHighlightEndpoints(t *testing.T) {
	tracker := newTestTracker(t)
	sessions := NewSessionHandler(tracker)
	attempts := NewAttemptHandler(tracker)
	stats := NewStatsHandler(tracker)

	startSessionForTest(t, sessions, "CAD")

	for _, handler := range []http.HandlerFunc{attempts.HighlightView, attempts.HighlightView, attempts.HighlightClick} {
		rec := httptest.NewRecorder()
		handler(rec, jsonRequest(t, http.MethodPost, "/", questionRequest{QuestionNumber: 4}))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	stats.CurrentStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats/current", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var snapshot models.Session
	decodeResponse(t, rec, &snapshot)
	if snapshot.TotalHighlights != 3 {
		t.Fatalf("expected 3 highlights in the live rollup, got %d", snapshot.TotalHighlights)
	}
	q := snapshot.Question(4)
	if q == nil || q.FirstActionType != models.FirstActionPreview {
		t.Fatal("expected question 4 to be classified as preview")
	}
}

func TestCurrentStatsWithoutSession(t *testing.T) {
	tracker := newTestTracker(t)
	h := NewStatsHandler(tracker)

	rec := httptest.NewRecorder()
	h.CurrentStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats/current", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "No active session" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestGlobalAndCombinedStatsEndpoints(t *testing.T) {
	tracker := newTestTracker(t)
	sessions := NewSessionHandler(tracker)
	attempts := NewAttemptHandler(tracker)
	stats := NewStatsHandler(tracker)

	startSessionForTest(t, sessions, "CAD")
	rec := httptest.NewRecorder()
	attempts.RecordAttempt(rec, jsonRequest(t, http.MethodPost, "/api/attempts", recordAttemptRequest{
		QuestionNumber:  1,
		CorrectLetters:  []string{"A"},
		SelectedLetters: []string{"A"},
	}))
	rec = httptest.NewRecorder()
	sessions.EndSession(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/end", nil))

	// Second session still running
	startSessionForTest(t, sessions, "CSA")
	rec = httptest.NewRecorder()
	attempts.RecordAttempt(rec, jsonRequest(t, http.MethodPost, "/api/attempts", recordAttemptRequest{
		QuestionNumber:  1,
		CorrectLetters:  []string{"B"},
		SelectedLetters: []string{"C"},
	}))

	rec = httptest.NewRecorder()
	stats.GlobalStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats/global", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var global globalStatsResponse
	decodeResponse(t, rec, &global)
	if global.Totals.TotalQuestions != 1 || global.Totals.TotalCorrect != 1 {
		t.Fatalf("expected historical totals of one correct question, got %+v", global.Totals)
	}
	if _, ok := global.Exams["CAD"]; !ok {
		t.Fatal("expected a CAD exam bucket")
	}

	rec = httptest.NewRecorder()
	stats.CombinedStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats/combined", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var combined models.GlobalStats
	decodeResponse(t, rec, &combined)
	if combined.TotalQuestions != 2 || combined.TotalIncorrect != 1 {
		t.Fatalf("expected combined totals to include the live session, got %+v", combined)
	}
}

func TestExamStatsEndpoint(t *testing.T) {
	tracker := newTestTracker(t)
	sessions := NewSessionHandler(tracker)
	attempts := NewAttemptHandler(tracker)
	stats := NewStatsHandler(tracker)

	startSessionForTest(t, sessions, "CAD")
	rec := httptest.NewRecorder()
	attempts.RecordAttempt(rec, jsonRequest(t, http.MethodPost, "/api/attempts", recordAttemptRequest{
		QuestionNumber:  1,
		CorrectLetters:  []string{"A"},
		SelectedLetters: []string{"A"},
	}))
	rec = httptest.NewRecorder()
	sessions.EndSession(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/end", nil))

	// Lookup is case-insensitive
	req := httptest.NewRequest(http.MethodGet, "/api/stats/exams/cad", nil)
	req.SetPathValue("code", "cad")
	rec = httptest.NewRecorder()
	stats.ExamStats(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var exam models.ExamStats
	decodeResponse(t, rec, &exam)
	if exam.SessionCount != 1 || exam.CorrectAnswers != 1 {
		t.Fatalf("unexpected CAD bucket: %+v", exam)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/stats/exams/XYZ", nil)
	req.SetPathValue("code", "XYZ")
	rec = httptest.NewRecorder()
	stats.ExamStats(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for an unknown exam, got %d", rec.Code)
	}
}

func TestResetStatsEndpoint(t *testing.T) {
	tracker := newTestTracker(t)
	sessions := NewSessionHandler(tracker)
	attempts := NewAttemptHandler(tracker)
	stats := NewStatsHandler(tracker)

	startSessionForTest(t, sessions, "CAD")
	rec := httptest.NewRecorder()
	attempts.RecordAttempt(rec, jsonRequest(t, http.MethodPost, "/api/attempts", recordAttemptRequest{
		QuestionNumber:  1,
		CorrectLetters:  []string{"A"},
		SelectedLetters: []string{"A"},
	}))

	rec = httptest.NewRecorder()
	stats.ResetStats(rec, httptest.NewRequest(http.MethodDelete, "/api/stats", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	stats.CurrentStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats/current", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected the active session to be wiped, got status %d", rec.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	tracker := newTestTracker(t)
	sessions := NewSessionHandler(tracker)
	stats := NewStatsHandler(tracker)

	startSessionForTest(t, sessions, "CAD")

	rec := httptest.NewRecorder()
	stats.Export(rec, httptest.NewRequest(http.MethodGet, "/api/export", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, key := range []string{`"statistics"`, `"exportDate"`, `"currentSession"`} {
		if !strings.Contains(body, key) {
			t.Fatalf("expected export document to contain %s", key)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := NewHealthHandler("memory")

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body map[string]string
	decodeResponse(t, rec, &body)
	if body["status"] != "ok" || body["backend"] != "memory" {
		t.Fatalf("unexpected health payload: %v", body)
	}
}

func TestExamCatalogEndpoints(t *testing.T) {
	manifest := `{
		"version": "3.0",
		"generated": "2025-01-15T10:30:00",
		"totalExams": 1,
		"totalQuestions": 200,
		"exams": [
			{"code": "CAD", "name": "Certified Application Developer", "questionCount": 200, "lastUpdated": "2025-01-15"}
		]
	}`
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte(manifest), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	cat, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	h := NewExamHandler(cat)

	rec := httptest.NewRecorder()
	h.ListExams(rec, httptest.NewRequest(http.MethodGet, "/api/exams", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var exams []catalog.Exam
	decodeResponse(t, rec, &exams)
	if len(exams) != 1 || exams[0].Code != "CAD" {
		t.Fatalf("unexpected exam list: %+v", exams)
	}

	// Path value is normalized before lookup
	req := httptest.NewRequest(http.MethodGet, "/api/exams/cad", nil)
	req.SetPathValue("code", "cad")
	rec = httptest.NewRecorder()
	h.GetExam(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var exam catalog.Exam
	decodeResponse(t, rec, &exam)
	if exam.QuestionCount != 200 {
		t.Fatalf("expected 200 questions, got %d", exam.QuestionCount)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/exams/XYZ", nil)
	req.SetPathValue("code", "XYZ")
	rec = httptest.NewRecorder()
	h.GetExam(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
