package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mwiater/autotune/internal/util"
	"go.yaml.in/yaml/v3"
)

// WriteJSON writes the full report, run metadata included, as indented JSON.
func (r *Report) WriteJSON(path string) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("encode report json: %w", err)
	}
	return util.WriteFile(path, buf.Bytes())
}

// WriteYAML writes the full report as YAML.
func (r *Report) WriteYAML(path string) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("encode report yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encode report yaml: %w", err)
	}
	return util.WriteFile(path, buf.Bytes())
}
