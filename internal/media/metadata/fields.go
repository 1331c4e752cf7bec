package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"mediaprobe/internal/rational"
)

// ErrMissingField reports a required probe field that was absent.
var ErrMissingField = errors.New("missing field")

// FieldError names the probe field that stopped a stream record from being built.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// fields wraps one object of the probe tree. Lookups never fail: absent or
// malformed numbers coerce to zero, matching how ffprobe leaves out values it
// could not determine.
type fields map[string]any

func asFields(value any) fields {
	switch typed := value.(type) {
	case map[string]any:
		return fields(typed)
	case fields:
		return typed
	default:
		return nil
	}
}

func (f fields) has(key string) bool {
	if f == nil {
		return false
	}
	value, ok := f[key]
	return ok && value != nil
}

func (f fields) sub(key string) fields {
	if f == nil {
		return nil
	}
	return asFields(f[key])
}

func (f fields) list(key string) []any {
	if f == nil {
		return nil
	}
	items, _ := f[key].([]any)
	return items
}

func (f fields) stringField(key string) string {
	if f == nil {
		return ""
	}
	switch typed := f[key].(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return ""
	}
}

func (f fields) int64Field(key string) int64 {
	if f == nil {
		return 0
	}
	return toInt64(f[key])
}

func (f fields) intField(key string) int {
	return int(f.int64Field(key))
}

// countField is intField for counts and sizes; negative values read as 0.
func (f fields) countField(key string) int {
	return int(nonNegative(f.int64Field(key)))
}

func (f fields) floatField(key string) float64 {
	if f == nil {
		return 0
	}
	return toFloat64(f[key])
}

// requiredRational reads a required fraction. Absent values and values that do not
// parse fail the whole record.
func (f fields) requiredRational(key string) (rational.Rational, error) {
	if !f.has(key) {
		return rational.Rational{}, &FieldError{Field: key, Err: ErrMissingField}
	}
	r, err := rational.Parse(f.stringField(key))
	if err != nil {
		return rational.Rational{}, &FieldError{Field: key, Err: err}
	}
	return r, nil
}

// optionalRational is requiredRational for fields newer ffprobe builds omit: absence
// yields 0/1, but a value that is present must still parse.
func (f fields) optionalRational(key string) (rational.Rational, error) {
	if !f.has(key) {
		return rational.Zero, nil
	}
	return f.requiredRational(key)
}

func toInt64(value any) int64 {
	switch typed := value.(type) {
	case int:
		return int64(typed)
	case int64:
		return typed
	case float64:
		return truncate(typed)
	case json.Number:
		if n, err := typed.Int64(); err == nil {
			return n
		}
		return parseIntText(typed.String())
	case string:
		return parseIntText(typed)
	default:
		return 0
	}
}

func toFloat64(value any) float64 {
	switch typed := value.(type) {
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return 0
		}
		return typed
	case json.Number:
		return parseFloatText(typed.String())
	case string:
		return parseFloatText(typed)
	default:
		return 0
	}
}

func parseIntText(text string) int64 {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return 0
	}
	if n, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return n
	}
	return truncate(parseFloatText(cleaned))
}

func parseFloatText(text string) float64 {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	return parsed
}

func truncate(value float64) int64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	if value > math.MaxInt64 || value < math.MinInt64 {
		return 0
	}
	return int64(value)
}
