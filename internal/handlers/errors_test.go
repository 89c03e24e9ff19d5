package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON body, got %q", recorder.Body.String())
	}
	if body["error"] != "Teapot" {
		t.Fatalf("expected error 'Teapot', got %q", body["error"])
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, 500, "Internal server error", "", err)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Internal server error") {
		t.Fatalf("expected log to include user message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
}

func TestRespondJSONEncodesPayload(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSON(recorder, 201, map[string]int{"count": 3})

	if recorder.Code != 201 {
		t.Fatalf("expected status 201, got %d", recorder.Code)
	}

	var body map[string]int
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON body, got %q", recorder.Body.String())
	}
	if body["count"] != 3 {
		t.Fatalf("expected count 3, got %d", body["count"])
	}
}
