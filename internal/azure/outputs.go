package azure

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	apperrors "github.com/chiptune-stack/chiptune/internal/errors"
)

// Outputs maps deployment output names to their values.
// Lookups ignore case and underscores so ARM names (webUrl) and azd environment keys (WEB_URL, WEBURL) match.
type Outputs map[string]any

// ParseOutputs extracts outputs from a deployment payload. It accepts
// {"outputs": {...}}, {"properties": {"outputs": {...}}} and a flat map,
// and unwraps ARM {"type": ..., "value": ...} entries.
func ParseOutputs(payload any) (Outputs, error) {
	root, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("deployment payload is %T, not an object", payload)
	}

	body := root
	if props, ok := root["properties"].(map[string]any); ok {
		if o, ok := props["outputs"].(map[string]any); ok {
			body = o
		} else {
			body = map[string]any{}
		}
	} else if o, ok := root["outputs"].(map[string]any); ok {
		body = o
	}

	out := make(Outputs, len(body))
	for k, v := range body {
		out[k] = unwrap(v)
	}
	return out, nil
}

func unwrap(v any) any {
	entry, ok := v.(map[string]any)
	if !ok {
		return v
	}
	if value, ok := entry["value"]; ok {
		if _, typed := entry["type"]; typed || len(entry) == 1 {
			return value
		}
	}
	return v
}

// Get returns the value for key.
func (o Outputs) Get(key string) (any, bool) {
	if v, ok := o[key]; ok {
		return v, true
	}
	want := normalizeKey(key)
	for _, k := range o.Keys() {
		if normalizeKey(k) == want {
			return o[k], true
		}
	}
	return nil, false
}

// String returns the non-empty string value for key, or a MissingOutput error.
func (o Outputs) String(key string) (string, error) {
	v, ok := o.Get(key)
	if !ok {
		return "", apperrors.ErrMissingOutput(key)
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", apperrors.ErrMissingOutput(key)
	}
	return s, nil
}

// Lookup returns the string value for key, or "" when it is absent.
func (o Outputs) Lookup(key string) string {
	s, _ := o.String(key)
	return s
}

// Keys returns the output names in sorted order.
func (o Outputs) Keys() []string {
	return slices.Sorted(maps.Keys(o))
}

// Strings renders every output as text, for logging.
func (o Outputs) Strings() map[string]string {
	out := make(map[string]string, len(o))
	for k, v := range o {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.ReplaceAll(k, "_", ""))
}
