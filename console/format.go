package console

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

const indentUnit = "  "

// Format renders values the way the playground output shows them, joined by a
// single space.
func Format(values ...any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatValue(v)
	}
	return strings.Join(parts, " ")
}

// FormatValue renders a single value.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case undefined:
		return "undefined"
	case string:
		return `"` + val + `"`
	case float64:
		return FormatNumber(val)
	case float32:
		return FormatNumber(float64(val))
	case Object, []any, map[string]any:
		var b strings.Builder
		writeJSON(&b, val, "")
		return b.String()
	}
	if isStructured(v) {
		var b strings.Builder
		writeJSON(&b, v, "")
		return b.String()
	}
	return fmt.Sprint(v)
}

// FormatNumber renders f using ECMAScript Number::toString rules.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

func isStructured(v any) bool {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// writeJSON mirrors JSON.stringify(v, null, 2): undefined members are dropped
// from records and become null inside arrays.
func writeJSON(b *strings.Builder, v any, indent string) {
	switch val := v.(type) {
	case nil, undefined:
		b.WriteString("null")
	case string:
		writeQuoted(b, val)
	case bool:
		b.WriteString(strconv.FormatBool(val))
	case float64:
		writeJSONNumber(b, val)
	case float32:
		writeJSONNumber(b, float64(val))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		fmt.Fprint(b, val)
	case Object:
		fields := make([]Field, 0, len(val))
		for _, f := range val {
			if !IsUndefined(f.Value) {
				fields = append(fields, f)
			}
		}
		writeRecord(b, fields, indent)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			if !IsUndefined(val[k]) {
				fields = append(fields, Field{Key: k, Value: val[k]})
			}
		}
		writeRecord(b, fields, indent)
	case []any:
		if len(val) == 0 {
			b.WriteString("[]")
			return
		}
		inner := indent + indentUnit
		b.WriteString("[\n")
		for i, item := range val {
			b.WriteString(inner)
			writeJSON(b, item, inner)
			if i < len(val)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(indent)
		b.WriteByte(']')
	default:
		data, err := json.MarshalIndent(val, indent, indentUnit)
		if err != nil {
			writeQuoted(b, fmt.Sprint(val))
			return
		}
		b.Write(data)
	}
}

func writeRecord(b *strings.Builder, fields []Field, indent string) {
	if len(fields) == 0 {
		b.WriteString("{}")
		return
	}
	inner := indent + indentUnit
	b.WriteString("{\n")
	for i, f := range fields {
		b.WriteString(inner)
		writeQuoted(b, f.Key)
		b.WriteString(": ")
		writeJSON(b, f.Value, inner)
		if i < len(fields)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(indent)
	b.WriteByte('}')
}

func writeJSONNumber(b *strings.Builder, f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		b.WriteString("null")
		return
	}
	b.WriteString(FormatNumber(f))
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
