package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Well-known metadata keys.
const (
	MetaName      = "name"
	MetaMatNumber = "mat_number"
)

// Metadata holds the free-form scalar attributes of a material.
type Metadata map[string]any

// Clone returns a shallow copy. Values are scalars, so this is a full copy in practice.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Has reports whether key is set to a non-nil value.
func (m Metadata) Has(key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

// String renders the value stored under key as text. Integral numbers print
// without a fractional part regardless of the numeric type the decoder chose.
func (m Metadata) String(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false
	}
	return FormatScalar(v), true
}

// FormatScalar renders a metadata value the way it should appear in an input deck.
func FormatScalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64, bits int) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}
