package urlstate

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
)

// SerializeFlat writes each top-level field of state as its own query
// parameter. Booleans become "1" or "0" and arrays are flattened, nested
// arrays included, into comma-separated lists. Fields that serialize to
// nothing are left out.
func SerializeFlat(state *orderedmap.OrderedMap) url.Values {
	params := url.Values{}
	for _, k := range state.Keys() {
		v, _ := state.Get(k)
		if s, ok := flatValue(v); ok {
			params.Set(k, s)
		}
	}
	return params
}

// FlatQuery is SerializeFlat encoded as a query string, with parameters
// in field order.
func FlatQuery(state *orderedmap.OrderedMap) string {
	var sb strings.Builder
	for _, k := range state.Keys() {
		v, _ := state.Get(k)
		s, ok := flatValue(v)
		if !ok {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(s))
	}
	return sb.String()
}

func flatValue(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case []any:
		elems := flatten(v, nil)
		return strings.Join(elems, ","), len(elems) > 0
	default:
		return scalarString(v)
	}
}

func flatten(arr []any, out []string) []string {
	for _, e := range arr {
		switch e := e.(type) {
		case nil:
		case []any:
			out = flatten(e, out)
		default:
			if s, ok := scalarString(e); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case bool:
		if v {
			return "1", true
		}
		return "0", true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	default:
		// Objects have no flat form; they travel as JSON text.
		b, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// DeserializeFlat rebuilds state from params, using initial as the shape
// and type hint. Only fields present in initial are read; fields missing
// from params keep their initial values. initial is not modified.
//
// Arrays come back one-dimensional: a nested array in initial receives
// the flattened elements.
func DeserializeFlat(params url.Values, initial *orderedmap.OrderedMap) *orderedmap.OrderedMap {
	result := orderedmap.New()
	for _, k := range initial.Keys() {
		hint, _ := initial.Get(k)
		values, ok := params[k]
		if !ok || len(values) == 0 {
			result.Set(k, cloneValue(hint))
			continue
		}
		result.Set(k, typedValue(values[len(values)-1], hint))
	}
	return result
}

func typedValue(s string, hint any) any {
	switch h := hint.(type) {
	case []any:
		parts := strings.Split(s, ",")
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = typedElement(p, elementHint(h, i))
		}
		return out
	case bool:
		return s == "1"
	case float64, int:
		f, ok := parseNumber(s)
		if !ok {
			return cloneValue(hint)
		}
		return f
	default:
		return s
	}
}

// elementHint returns hint[i], or the first non-nil element when hint is
// shorter or has a nil there.
func elementHint(hint []any, i int) any {
	if i < len(hint) && hint[i] != nil {
		return hint[i]
	}
	for _, h := range hint {
		if h != nil {
			return h
		}
	}
	return nil
}

func typedElement(s string, hint any) any {
	switch hint.(type) {
	case string:
		return s
	case bool:
		return s == "1"
	case float64, int:
		f, ok := parseNumber(s)
		if !ok {
			return cloneValue(hint)
		}
		return f
	}
	if f, ok := parseNumber(s); ok {
		return f
	}
	return s
}

// parseNumber parses a decimal number. Blank text is zero.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case *orderedmap.OrderedMap:
		return cloneObject(v)
	case orderedmap.OrderedMap:
		return *cloneObject(&v)
	default:
		return v
	}
}

func cloneObject(om *orderedmap.OrderedMap) *orderedmap.OrderedMap {
	out := orderedmap.New()
	for _, k := range om.Keys() {
		e, _ := om.Get(k)
		out.Set(k, cloneValue(e))
	}
	return out
}
