package appconfig

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema describes a valid, normalized Config in its JSON form.
func Schema() map[string]any {
	tokenList := map[string]any{
		"type":        "array",
		"minItems":    1,
		"uniqueItems": true,
		"items": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "source file compiled once per optimization level",
			},
			"blk": tokenList,
			"opt": tokenList,
			"alg": map[string]any{
				"type":        "array",
				"minItems":    1,
				"uniqueItems": true,
				"items": map[string]any{
					"type": "string",
					"enum": []string{"grid", "random"},
				},
			},
			"repeat":     map[string]any{"type": "integer", "minimum": 1},
			"iterations": map[string]any{"type": "integer", "minimum": 1},
			"seed":       map[string]any{"type": "integer", "minimum": 0},
			"cflags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"file", "blk", "opt", "alg"},
	}
}

// Validate checks cfg against Schema and reports every violation at once.
func Validate(cfg Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(Schema()), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
}
