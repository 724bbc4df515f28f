package pagination

import (
	"cmp"
	"reflect"
	"strconv"
	"time"

	"golang.org/x/text/collate"
)

// compare orders two field values. Pairs of different or unsupported kinds
// compare equal so the stable sort leaves them in place.
func compare(coll *collate.Collator, a any, b any) int {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return coll.CompareString(x, y)
		}
		return 0
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
		return 0
	case bool:
		if y, ok := b.(bool); ok {
			return cmp.Compare(boolRank(x), boolRank(y))
		}
		return 0
	}

	x, okA := toFloat(a)
	y, okB := toFloat(b)
	if okA && okB {
		return cmp.Compare(x, y)
	}

	return 0
}

// equal is strict equality with two relaxations: numbers of any Go kind
// compare by value, and a string filter value is parsed into the field's kind.
func equal(field any, want any) bool {
	if s, ok := want.(string); ok {
		if _, isString := field.(string); !isString {
			coerced, ok := coerce(field, s)
			if !ok {
				return false
			}
			want = coerced
		}
	}

	if x, ok := toFloat(field); ok {
		y, ok := toFloat(want)
		return ok && x == y
	}

	if t, ok := field.(time.Time); ok {
		w, ok := want.(time.Time)
		return ok && t.Equal(w)
	}

	if field == nil || want == nil {
		return field == want
	}
	if !reflect.TypeOf(field).Comparable() || !reflect.TypeOf(want).Comparable() {
		return false
	}

	return field == want
}

func coerce(field any, raw string) (any, bool) {
	switch field.(type) {
	case bool:
		v, err := strconv.ParseBool(raw)
		return v, err == nil
	case time.Time:
		v, err := time.Parse(time.RFC3339, raw)
		return v, err == nil
	}

	if _, ok := toFloat(field); ok {
		v, err := strconv.ParseFloat(raw, 64)
		return v, err == nil
	}

	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
