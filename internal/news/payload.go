package news

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// maxDepth bounds nesting of decoded arrays and objects
const maxDepth = 512

var (
	ErrTrailingData   = errors.New("unexpected data after JSON value")
	ErrPayloadTooDeep = errors.New("payload nesting exceeds limit")
)

// Object is a JSON object that remembers the order its keys appeared in.
// Backend payloads are scanned in document order, which a plain map can't give us.
type Object struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewObject creates an empty ordered object
func NewObject() *Object {
	return &Object{m: orderedmap.New[string, any]()}
}

// Set stores value under key, keeping the position of an existing key
func (o *Object) Set(key string, value any) {
	o.m.Set(key, value)
}

func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	return o.m.Get(key)
}

func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, 0, o.m.Len())
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return o.m.Len()
}

// MarshalJSON writes keys in insertion order
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	return o.m.MarshalJSON()
}

// DecodePayload parses a JSON document into nil, bool, string, json.Number,
// []any or *Object values. An empty body decodes to nil.
func DecodePayload(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := decodeValue(dec, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	return value, nil
}

func decodeValue(dec *json.Decoder, depth int) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	if depth >= maxDepth {
		return nil, ErrPayloadTooDeep
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not string", keyTok)
			}
			value, err := decodeValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		list := []any{}
		for dec.More() {
			value, err := decodeValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	}

	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

// asObject accepts both ordered objects and maps produced by encoding/json.
// Map keys are sorted so the scan order stays deterministic.
func asObject(v any) (*Object, bool) {
	switch t := v.(type) {
	case *Object:
		return t, t != nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, t[k])
		}
		return obj, true
	}
	return nil, false
}

// text renders a scalar the way a loosely typed client would, with zero values
// counting as empty.
func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		if f == 0 {
			return ""
		}
		return formatNumber(f)
	case float64:
		if t == 0 {
			return ""
		}
		return formatNumber(t)
	case int:
		if t == 0 {
			return ""
		}
		return strconv.Itoa(t)
	case int64:
		if t == 0 {
			return ""
		}
		return strconv.FormatInt(t, 10)
	case bool:
		if t {
			return "true"
		}
	}
	return ""
}

// formatNumber renders f with the shortest round-trip digits, switching to
// exponent form outside [1e-6, 1e21) like JavaScript's Number#toString.
func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if abs := math.Abs(f); abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		return strings.NewReplacer("e+0", "e+", "e-0", "e-").Replace(s)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// number reads a numeric field, returning 0 for anything that is not a number
func number(v any) int {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return int(f)
		}
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	}
	return 0
}

// firstNonEmpty returns the first key of rec whose value renders non-empty
func firstNonEmpty(rec *Object, keys ...string) string {
	for _, key := range keys {
		v, ok := rec.Get(key)
		if !ok {
			continue
		}
		if s := text(v); s != "" {
			return s
		}
	}
	return ""
}

func firstOr(rec *Object, fallback string, keys ...string) string {
	if s := firstNonEmpty(rec, keys...); s != "" {
		return s
	}
	return fallback
}
