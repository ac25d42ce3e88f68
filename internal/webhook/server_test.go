package webhook

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer() *Server {
	return NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleFeishu_Challenge(t *testing.T) {
	// Arrange
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/webhook/feishu", strings.NewReader(`{"challenge":"abc123","type":"url_verification"}`))
	rec := httptest.NewRecorder()

	// Act
	server.Handler().ServeHTTP(rec, req)

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["challenge"] != "abc123" {
		t.Errorf("expected challenge echoed back, got %v", body)
	}
}

func TestHandleFeishu_Event(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/webhook/feishu", strings.NewReader(`{"event":{"type":"record.created"}}`))
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["code"] != float64(0) {
		t.Errorf("expected code 0, got %v", body)
	}
}

func TestHandleFeishu_RejectsGet(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/webhook/feishu", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestHandleFeishu_BadJSON(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/webhook/feishu", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
