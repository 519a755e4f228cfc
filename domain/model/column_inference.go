// Package model provides domain model for sqlmodel
package model

import (
	"regexp"
	"strings"
	"time"
)

// ColumnInfo describes one result column
type ColumnInfo struct {
	Name string
	Type DataType
}

// Common datetime patterns to detect in text columns
var datetimePatterns = []struct {
	pattern *regexp.Regexp
	formats []string
}{
	// ISO8601 formats with timezone
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),
		[]string{time.RFC3339, time.RFC3339Nano},
	},
	// ISO8601 formats without timezone
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.999999999"},
	},
	// SQL DATETIME / TIMESTAMP text
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02 15:04:05", "2006-01-02 15:04:05.999999999"},
	},
	// SQL DATE text
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		[]string{"2006-01-02"},
	},
	// SQL TIME text
	{
		regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"15:04:05", "15:04:05.999999999"},
	},
}

// isDatetime checks if a string value represents a date, time or timestamp
func isDatetime(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	for _, dp := range datetimePatterns {
		if !dp.pattern.MatchString(value) {
			continue
		}
		for _, format := range dp.formats {
			if _, err := time.Parse(format, value); err == nil {
				return true
			}
		}
	}
	return false
}

// InferColumnType infers the common data type of a column from the values a
// driver returned for it. NULLs are skipped. Integers mixed with floats widen
// to Float; text made only of SQL date/time literals is reported as Time; any
// other mix falls back to String. A column with no non-NULL value is Null.
func InferColumnType(values []any) DataType {
	result := DataTypeNull

	for _, v := range values {
		dt := DataTypeOf(v)
		if s, ok := v.(string); ok && isDatetime(s) {
			dt = DataTypeTime
		}

		switch {
		case dt == DataTypeNull:
			continue
		case result == DataTypeNull || result == dt:
			result = dt
		case result.IsNumeric() && dt.IsNumeric():
			result = DataTypeFloat
		default:
			return DataTypeString
		}
	}
	return result
}

// InferColumnsInfo infers column information from the column names and rows of a result
func InferColumnsInfo(names []string, rows [][]any) []ColumnInfo {
	if len(names) == 0 {
		return nil
	}

	columns := make([]ColumnInfo, len(names))
	values := make([]any, 0, len(rows))
	for i, name := range names {
		values = values[:0]
		for _, row := range rows {
			if i < len(row) {
				values = append(values, row[i])
			}
		}
		columns[i] = ColumnInfo{Name: name, Type: InferColumnType(values)}
	}
	return columns
}
