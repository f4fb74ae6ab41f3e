package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	debug   bool
)

// Init sends the standard logger to stdout and, when logPath is set, to an
// append-mode log file as well.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	writers = append(writers, os.Stdout)

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Close releases the log file and points the standard logger back at stderr.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// SetDebug toggles Debugf output.
func SetDebug(enabled bool) {
	mu.Lock()
	debug = enabled
	mu.Unlock()
}

func debugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return debug
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// Debugf logs only when debug output is enabled.
func Debugf(format string, args ...any) {
	if !debugEnabled() {
		return
	}
	log.Println("[DEBUG] " + fmt.Sprintf(format, args...))
}

// LogMeasurement records one averaged configuration.
func LogMeasurement(strategy, key string, mean float64, samples []float64) {
	log.Println(buildMeasurementMessage(strategy, key, mean, samples))
}

func buildMeasurementMessage(strategy, key string, mean float64, samples []float64) string {
	name := strings.ToUpper(strings.TrimSpace(strategy))
	if name == "" {
		name = "UNKNOWN"
	}
	keyValue := strings.TrimSpace(key)
	if keyValue == "" {
		keyValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", name)}
	parts = append(parts, fmt.Sprintf("config=%s", keyValue))
	parts = append(parts, fmt.Sprintf("mean=%ss", formatSeconds(mean)))
	parts = append(parts, fmt.Sprintf("samples=%s", formatSamples(samples)))
	return strings.Join(parts, " ")
}

func formatSamples(samples []float64) string {
	if len(samples) == 0 {
		return "[]"
	}
	vals := make([]string, len(samples))
	for i, s := range samples {
		vals[i] = formatSeconds(s)
	}
	return "[" + strings.Join(vals, " ") + "]"
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
