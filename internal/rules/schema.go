package rules

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// packSchema returns the JSON-Schema (draft 2020-12 subset) for a rule
// pack, as a generic map. Loading validates against it before compiling
// so a malformed override pack fails fast with a field-level message.
func packSchema() map[string]any {
	tierEnum := []string{"CRITICAL", "HIGH", "MEDIUM", "LOW", "LOWEST"}
	familyEnum := []string{"TABULAR", "LIST", "PAIRED"}

	rangeProp := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"min": map[string]any{"type": "number"},
			"max": map[string]any{"type": "number"},
		},
		"required": []string{"min", "max"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"version": map[string]any{"type": "integer", "minimum": 1},
			"hour_rules": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"tier":    map[string]any{"type": "string", "enum": tierEnum},
						"label":   map[string]any{"type": "string", "minLength": 1},
						"pattern": map[string]any{"type": "string", "minLength": 1},
						"pair":    map[string]any{"type": "boolean"},
					},
					"required": []string{"tier", "label", "pattern", "pair"},
				},
			},
			"name_rules": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"label":   map[string]any{"type": "string", "minLength": 1},
						"pattern": map[string]any{"type": "string", "minLength": 1},
					},
					"required": []string{"label", "pattern"},
				},
			},
			"table_rules": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"family":  map[string]any{"type": "string", "enum": familyEnum},
						"pattern": map[string]any{"type": "string", "minLength": 1},
					},
					"required": []string{"family", "pattern"},
				},
			},
			"name_stoplist": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "minLength": 1},
			},
			"ranges": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"pair":          rangeProp,
					"critical_high": rangeProp,
					"medium_low":    rangeProp,
					"table":         rangeProp,
				},
				"required": []string{"pair", "critical_high", "medium_low", "table"},
			},
		},
		"required": []string{"version", "hour_rules", "name_rules", "table_rules", "name_stoplist", "ranges"},
	}
}

// validatePack validates pack JSON against packSchema.
func validatePack(data []byte) error {
	b, err := json.Marshal(packSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rules-schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("rules-schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parse rules.json: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("rules.json does not match schema: %w", err)
	}
	return nil
}
