package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/missionctl/internal/config"
)

// emit writes v in the configured output format. Text output is produced
// by text.
func (a *app) emit(v any, text func(w io.Writer)) error {
	switch a.cfg.Output {
	case config.OutputJSON:
		return writeJSON(a.stdout, v)
	case config.OutputYAML:
		return writeYAML(a.stdout, v)
	default:
		text(a.stdout)
		return nil
	}
}

// structured reports whether output is machine readable.
func (a *app) structured() bool {
	return a.cfg.Output == config.OutputJSON || a.cfg.Output == config.OutputYAML
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// writeYAML renders v through its JSON form so field names and timestamp
// encodings match the JSON output.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plainNumbers(doc)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// plainNumbers replaces json.Number values with int64 or float64.
func plainNumbers(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = plainNumbers(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = plainNumbers(item)
		}
		return val
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	default:
		return v
	}
}
