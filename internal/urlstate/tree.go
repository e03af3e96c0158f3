// Package urlstate encodes form state into URL query text and back.
//
// The tree codec carries a whole JSON-like state tree in one query
// parameter. The flat codec writes one parameter per top-level field and
// rebuilds typed values from an initial state used as a type hint.
package urlstate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/iancoleman/orderedmap"

	"go.ngs.io/perf-worksheet/internal/log"
)

// Param is the query parameter that carries tree-encoded state.
const Param = "data"

// Codec serializes state trees. Decode failures are reported to its
// logger rather than returned.
type Codec struct {
	lg *log.Logger
}

func NewCodec(lg *log.Logger) *Codec {
	return &Codec{lg: lg}
}

// Serialize strips empty values from state and returns the remainder as
// percent-escaped JSON. A state that strips to nothing yields "".
func (c *Codec) Serialize(state any) (string, error) {
	tree, err := normalize(state)
	if err != nil {
		return "", fmt.Errorf("failed to serialize state: %w", err)
	}
	tree, ok := strip(tree)
	if !ok {
		return "", nil
	}
	b, err := json.Marshal(tree)
	if err != nil {
		return "", fmt.Errorf("failed to serialize state: %w", err)
	}
	return url.QueryEscape(string(b)), nil
}

// Deserialize parses text produced by Serialize. It returns false for
// empty input and for input that cannot be parsed; the latter is logged.
// Text that a URL parser has already unescaped is accepted as well.
func (c *Codec) Deserialize(s string) (any, bool) {
	b, ok := c.decode(s)
	if !ok {
		return nil, false
	}
	if bytes.HasPrefix(bytes.TrimSpace(b), []byte("{")) {
		om := orderedmap.New()
		if err := json.Unmarshal(b, om); err != nil {
			c.lg.Warn("failed to parse url state", slog.Any("error", err))
			return nil, false
		}
		return om, true
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		c.lg.Warn("failed to parse url state", slog.Any("error", err))
		return nil, false
	}
	return v, true
}

// DeserializeInto parses s into out, which must be a pointer. Fields of
// out that the state does not mention keep their current values. It
// returns false if there is no usable state.
func (c *Codec) DeserializeInto(s string, out any) bool {
	b, ok := c.decode(s)
	if !ok {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		c.lg.Warn("failed to parse url state", slog.Any("error", err))
		return false
	}
	return true
}

func (c *Codec) decode(s string) ([]byte, bool) {
	if s == "" {
		return nil, false
	}
	if json.Valid([]byte(s)) {
		return []byte(s), true
	}
	raw, err := url.QueryUnescape(s)
	if err != nil {
		c.lg.Warn("failed to unescape url state", slog.Any("error", err))
		return nil, false
	}
	if !json.Valid([]byte(raw)) {
		c.lg.Warn("url state is not valid JSON", slog.Int("length", len(raw)))
		return nil, false
	}
	return []byte(raw), true
}

// normalize converts state to plain JSON values, with objects as ordered
// maps so that field order survives stripping.
func normalize(state any) (any, error) {
	b, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(b, []byte("{")) {
		om := orderedmap.New()
		if err := json.Unmarshal(b, om); err != nil {
			return nil, err
		}
		return om, nil
	}
	var v any
	err = json.Unmarshal(b, &v)
	return v, err
}

// strip removes null and "" values, then arrays and objects left empty.
// It reports false if v itself should be omitted.
func strip(v any) (any, bool) {
	switch v := v.(type) {
	case nil:
		return nil, false
	case string:
		return v, v != ""
	case []any:
		out := make([]any, 0, len(v))
		for _, e := range v {
			if e, ok := strip(e); ok {
				out = append(out, e)
			}
		}
		return out, len(out) > 0
	case *orderedmap.OrderedMap:
		return stripObject(v)
	case orderedmap.OrderedMap:
		return stripObject(&v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			if e, ok := strip(e); ok {
				out[k] = e
			}
		}
		return out, len(out) > 0
	default:
		return v, true
	}
}

func stripObject(om *orderedmap.OrderedMap) (any, bool) {
	out := orderedmap.New()
	for _, k := range om.Keys() {
		e, _ := om.Get(k)
		if e, ok := strip(e); ok {
			out.Set(k, e)
		}
	}
	return out, len(out.Keys()) > 0
}
