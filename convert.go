package sqlmodel

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// toInt coerces a driver value to an integer. Floats are truncated toward
// zero; strings are parsed as a base-10 integer first, then as a float.
func toInt(v any) (sql.NullInt64, error) {
	switch x := v.(type) {
	case nil:
		return sql.NullInt64{}, nil
	case int:
		return validInt(int64(x)), nil
	case int8:
		return validInt(int64(x)), nil
	case int16:
		return validInt(int64(x)), nil
	case int32:
		return validInt(int64(x)), nil
	case int64:
		return validInt(x), nil
	case uint:
		return uintToInt(uint64(x))
	case uint8:
		return validInt(int64(x)), nil
	case uint16:
		return validInt(int64(x)), nil
	case uint32:
		return validInt(int64(x)), nil
	case uint64:
		return uintToInt(x)
	case float32:
		return floatToInt(float64(x))
	case float64:
		return floatToInt(x)
	case bool:
		if x {
			return validInt(1), nil
		}
		return validInt(0), nil
	case []byte:
		return stringToInt(string(x))
	case string:
		return stringToInt(x)
	default:
		return sql.NullInt64{}, conversionError(v, "integer")
	}
}

func validInt(i int64) sql.NullInt64 {
	return sql.NullInt64{Int64: i, Valid: true}
}

func uintToInt(u uint64) (sql.NullInt64, error) {
	if u > math.MaxInt64 {
		return sql.NullInt64{}, conversionError(u, "integer")
	}
	return validInt(int64(u)), nil
}

func floatToInt(f float64) (sql.NullInt64, error) {
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return sql.NullInt64{}, conversionError(f, "integer")
	}
	return validInt(int64(f)), nil
}

func stringToInt(s string) (sql.NullInt64, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return validInt(i), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return floatToInt(f)
	}
	return sql.NullInt64{}, conversionError(s, "integer")
}

// toFloat coerces a driver value to a float
func toFloat(v any) (sql.NullFloat64, error) {
	switch x := v.(type) {
	case nil:
		return sql.NullFloat64{}, nil
	case float32:
		return validFloat(float64(x)), nil
	case float64:
		return validFloat(x), nil
	case bool:
		if x {
			return validFloat(1), nil
		}
		return validFloat(0), nil
	case []byte:
		return stringToFloat(string(x))
	case string:
		return stringToFloat(x)
	}

	if i, ok := asInt64(v); ok {
		return validFloat(float64(i)), nil
	}
	if u, ok := asUint64(v); ok {
		return validFloat(float64(u)), nil
	}
	return sql.NullFloat64{}, conversionError(v, "float")
}

func validFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}

func stringToFloat(s string) (sql.NullFloat64, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}, conversionError(s, "float")
	}
	return validFloat(f), nil
}

// toBool coerces a driver value to a boolean. Numbers are true when non-zero;
// strings accept strconv.ParseBool forms, then numbers, and "" is false.
func toBool(v any) (sql.NullBool, error) {
	switch x := v.(type) {
	case nil:
		return sql.NullBool{}, nil
	case bool:
		return validBool(x), nil
	case float32:
		return validBool(x != 0), nil
	case float64:
		return validBool(x != 0), nil
	case []byte:
		return stringToBool(string(x))
	case string:
		return stringToBool(x)
	}

	if i, ok := asInt64(v); ok {
		return validBool(i != 0), nil
	}
	if u, ok := asUint64(v); ok {
		return validBool(u != 0), nil
	}
	return sql.NullBool{}, conversionError(v, "boolean")
}

func validBool(b bool) sql.NullBool {
	return sql.NullBool{Bool: b, Valid: true}
}

func stringToBool(s string) (sql.NullBool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return validBool(false), nil
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return validBool(b), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return validBool(f != 0), nil
	}
	return sql.NullBool{}, conversionError(s, "boolean")
}

// toString renders a driver value as text
func toString(v any) (sql.NullString, error) {
	switch x := v.(type) {
	case nil:
		return sql.NullString{}, nil
	case string:
		return validString(x), nil
	case []byte:
		return validString(string(x)), nil
	case bool:
		if x {
			return validString("1"), nil
		}
		return validString("0"), nil
	case float32:
		return validString(strconv.FormatFloat(float64(x), 'f', -1, 32)), nil
	case float64:
		return validString(strconv.FormatFloat(x, 'f', -1, 64)), nil
	case time.Time:
		return validString(x.Format(time.RFC3339Nano)), nil
	case fmt.Stringer:
		return validString(x.String()), nil
	}

	if i, ok := asInt64(v); ok {
		return validString(strconv.FormatInt(i, 10)), nil
	}
	if u, ok := asUint64(v); ok {
		return validString(strconv.FormatUint(u, 10)), nil
	}
	return sql.NullString{}, conversionError(v, "string")
}

func validString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// asInt64 widens every signed integer kind and the unsigned kinds that always fit
func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	default:
		return 0, false
	}
}

func asUint64(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint:
		return uint64(x), true
	case uint64:
		return x, true
	default:
		return 0, false
	}
}

func conversionError(v any, target string) error {
	return fmt.Errorf("%w: cannot convert %T(%v) to %s", ErrConversion, v, v, target)
}
