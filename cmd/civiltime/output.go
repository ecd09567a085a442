package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/tzlist/civiltime/temporal"
)

// result is what every arithmetic command prints.
type result struct {
	Kind   string         `json:"kind" yaml:"kind"`
	Value  string         `json:"value" yaml:"value"`
	Fields map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// stringOptions is how values are written back out.
func (a *app) stringOptions() temporal.StringOptions {
	return temporal.StringOptions{CalendarName: a.defaults.CalendarName}
}

func (a *app) valueResult(v value) (result, error) {
	s, err := v.format(a.stringOptions())
	if err != nil {
		return result{}, err
	}
	return result{Kind: v.kind.String(), Value: s}, nil
}

// write prints v as JSON or YAML, or calls text for the text format.
func (a *app) write(w io.Writer, v any, text func(io.Writer) error) error {
	switch a.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return text(w)
}

func (a *app) writeResult(w io.Writer, r result) error {
	return a.write(w, r, func(w io.Writer) error {
		if _, err := fmt.Fprintln(w, r.Value); err != nil {
			return err
		}
		for _, k := range slices.Sorted(maps.Keys(r.Fields)) {
			if _, err := fmt.Fprintf(w, "  %s: %v\n", k, r.Fields[k]); err != nil {
				return err
			}
		}
		return nil
	})
}
