package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Info("request handled", Fields{"path": "/timetable", "status": 200})

	var e map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if e["level"] != "INFO" {
		t.Errorf("expected level INFO, got %v", e["level"])
	}
	if e["message"] != "request handled" {
		t.Errorf("expected message, got %v", e["message"])
	}
	fields, ok := e["fields"].(map[string]interface{})
	if !ok || fields["path"] != "/timetable" {
		t.Errorf("expected structured fields, got %v", e["fields"])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("dropped", nil)
	l.Info("dropped", nil)
	if buf.Len() != 0 {
		t.Errorf("expected debug/info to be discarded, got %q", buf.String())
	}

	l.Error("kept", nil, errors.New("boom"))
	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Errorf("expected error field, got %q", buf.String())
	}
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("http.requests")
	m.IncrCounter("http.requests")
	m.RecordTiming("scrape.fetch", 100*time.Millisecond)
	m.RecordTiming("scrape.fetch", 300*time.Millisecond)

	snapshot := m.Snapshot()

	counters := snapshot["counters"].(map[string]int64)
	if counters["http.requests"] != 2 {
		t.Errorf("expected counter 2, got %d", counters["http.requests"])
	}

	timings := snapshot["timings"].(map[string]map[string]interface{})
	fetch, ok := timings["scrape.fetch"]
	if !ok {
		t.Fatal("expected scrape.fetch timing")
	}
	if fetch["count"] != 2 {
		t.Errorf("expected timing count 2, got %v", fetch["count"])
	}
	if fetch["average"] != (200 * time.Millisecond).String() {
		t.Errorf("expected average 200ms, got %v", fetch["average"])
	}
}
