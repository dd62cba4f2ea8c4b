package catalog

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToList returns v as a list of strings so that fields authored as a single
// value or as several values are handled the same way.
//
// nil yields an empty list, a []string is returned as is (callers must not
// mutate it), a []any has each non-nil element rendered with fmt.Sprint and
// any other value becomes a one-element list.
func ToList(v any) []string {
	switch x := v.(type) {
	case nil:
		return []string{}
	case []string:
		return x
	case string:
		return []string{x}
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(x)}
	}
}

// StringList is a catalog field that may be written as one string or a list
// of strings.
type StringList []string

// UnmarshalYAML accepts a scalar or a sequence.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("decode list: %w", err)
	}
	*l = ToList(raw)
	return nil
}

// UnmarshalJSON accepts a scalar or an array.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode list: %w", err)
	}
	*l = ToList(raw)
	return nil
}

// MarshalJSON always writes an array, never null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}
