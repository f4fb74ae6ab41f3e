package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "autotune.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogMeasurement("grid", "8,O0", 1.5, []float64{1, 2})
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "[GRID] config=8,O0 mean=1.5s samples=[1 2]") {
		t.Fatalf("expected LogMeasurement content, got: %s", content)
	}
}

func TestBuildMeasurementMessageDefaults(t *testing.T) {
	msg := buildMeasurementMessage(" random ", " ", 0.25, nil)
	if !strings.Contains(msg, "[RANDOM]") {
		t.Fatalf("expected uppercased strategy, got: %s", msg)
	}
	if !strings.Contains(msg, "config=unknown") {
		t.Fatalf("expected default key, got: %s", msg)
	}
	if !strings.Contains(msg, "samples=[]") {
		t.Fatalf("expected empty samples, got: %s", msg)
	}
	if !strings.Contains(buildMeasurementMessage("", "k", 0, nil), "[UNKNOWN]") {
		t.Fatalf("expected default strategy")
	}
}

func TestDebugfRespectsToggle(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		SetDebug(false)
	})

	Debugf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("expected no output with debug off, got: %s", buf.String())
	}

	SetDebug(true)
	Debugf("shown %d", 2)
	if !strings.Contains(buf.String(), "[DEBUG] shown 2") {
		t.Fatalf("expected debug output, got: %s", buf.String())
	}
}

func TestCloseWithoutFile(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
