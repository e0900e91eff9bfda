package codec

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/bloomclimb/internal/engine"
)

const schemaURL = "schema://bloomclimb/session-state.json"

var levelEnum = []any{"remember", "understand", "apply", "analyze", "evaluate", "create"}

// recordSchema describes Record. Timestamps are checked separately by
// FromRecord so the error can name the offending entry.
var recordSchema = map[string]any{
	"type":     "object",
	"required": []any{"version", "current_level", "streak_correct_any", "streak_correct_slow", "streak_wrong_at_level", "history"},
	"properties": map[string]any{
		"version":               map[string]any{"type": "integer", "minimum": 1},
		"current_level":         map[string]any{"enum": levelEnum},
		"streak_correct_any":    map[string]any{"type": "integer", "minimum": 0},
		"streak_correct_slow":   map[string]any{"type": "integer", "minimum": 0},
		"streak_wrong_at_level": map[string]any{"type": "integer", "minimum": 0},
		"history": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"required": []any{
					"timestamp", "question_id", "correct", "elapsed", "speed",
					"presented_level", "previous_level", "resulting_level",
					"streak_correct_any", "streak_correct_slow", "streak_wrong_at_level",
				},
				"properties": map[string]any{
					"timestamp":             map[string]any{"type": "string", "minLength": 1},
					"question_id":           map[string]any{"type": "string"},
					"correct":               map[string]any{"type": "boolean"},
					"elapsed":               map[string]any{"type": "number", "minimum": 0},
					"speed":                 map[string]any{"enum": []any{"fast", "moderate", "slow"}},
					"presented_level":       map[string]any{"enum": levelEnum},
					"previous_level":        map[string]any{"enum": levelEnum},
					"resulting_level":       map[string]any{"enum": levelEnum},
					"rule":                  map[string]any{"type": "string"},
					"streak_correct_any":    map[string]any{"type": "integer", "minimum": 0},
					"streak_correct_slow":   map[string]any{"type": "integer", "minimum": 0},
					"streak_wrong_at_level": map[string]any{"type": "integer", "minimum": 0},
				},
			},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler expects a plain decoded JSON value.
		raw, err := json.Marshal(recordSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Validate checks raw JSON against the record schema.
func Validate(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &DecodeError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	sch, err := schema()
	if err != nil {
		return fmt.Errorf("compile session state schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return &DecodeError{Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

// Marshal encodes a state as JSON.
func Marshal(s engine.State) ([]byte, error) {
	b, err := json.Marshal(ToRecord(s))
	if err != nil {
		return nil, fmt.Errorf("encode session state: %w", err)
	}
	return b, nil
}

// MarshalRecord encodes an already converted record.
func MarshalRecord(rec Record) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode session state: %w", err)
	}
	return b, nil
}

// UnmarshalRecord validates raw JSON and decodes it into a Record.
func UnmarshalRecord(raw []byte) (Record, error) {
	if err := Validate(raw); err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, &DecodeError{Err: err}
	}
	return rec, nil
}

// Unmarshal validates and decodes raw JSON into a state.
func Unmarshal(raw []byte) (engine.State, error) {
	rec, err := UnmarshalRecord(raw)
	if err != nil {
		return engine.State{}, err
	}
	return FromRecord(rec)
}
