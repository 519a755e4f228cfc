package sqlmodel

import (
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		want    sql.NullInt64
		wantErr bool
	}{
		{name: "nil", value: nil, want: sql.NullInt64{}},
		{name: "int64", value: int64(1), want: validInt(1)},
		{name: "numeric string", value: "1", want: validInt(1)},
		{name: "padded string", value: " 12 ", want: validInt(12)},
		{name: "float string truncates", value: "-2.9", want: validInt(-2)},
		{name: "float truncates", value: 2.9, want: validInt(2)},
		{name: "true", value: true, want: validInt(1)},
		{name: "false", value: false, want: validInt(0)},
		{name: "bytes", value: []byte("5"), want: validInt(5)},
		{name: "uint64 in range", value: uint64(9), want: validInt(9)},
		{name: "uint64 overflow", value: uint64(math.MaxUint64), wantErr: true},
		{name: "NaN", value: math.NaN(), wantErr: true},
		{name: "text", value: "abc", wantErr: true},
		{name: "empty string", value: "", wantErr: true},
		{name: "time", value: time.Now(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := toInt(tt.value)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrConversion)
				assert.False(t, got.Valid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		want    sql.NullFloat64
		wantErr bool
	}{
		{name: "nil", value: nil, want: sql.NullFloat64{}},
		{name: "float", value: 1.2, want: validFloat(1.2)},
		{name: "float string", value: "1.2", want: validFloat(1.2)},
		{name: "integer", value: int64(3), want: validFloat(3)},
		{name: "uint", value: uint(4), want: validFloat(4)},
		{name: "bool", value: true, want: validFloat(1)},
		{name: "exponent string", value: "1e3", want: validFloat(1000)},
		{name: "text", value: "one", wantErr: true},
		{name: "time", value: time.Now(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := toFloat(tt.value)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrConversion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		want    sql.NullBool
		wantErr bool
	}{
		{name: "nil", value: nil, want: sql.NullBool{}},
		{name: "true", value: true, want: validBool(true)},
		{name: "string true", value: "true", want: validBool(true)},
		{name: "integer one", value: int64(1), want: validBool(true)},
		{name: "integer zero", value: int64(0), want: validBool(false)},
		{name: "string zero", value: "0", want: validBool(false)},
		{name: "numeric string", value: "2.5", want: validBool(true)},
		{name: "empty string", value: "", want: validBool(false)},
		{name: "float zero", value: 0.0, want: validBool(false)},
		{name: "text", value: "maybe", wantErr: true},
		{name: "time", value: time.Now(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := toBool(tt.value)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrConversion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToString(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 15, 10, 30, 0, 500, time.UTC)
	tests := []struct {
		name    string
		value   any
		want    sql.NullString
		wantErr bool
	}{
		{name: "nil", value: nil, want: sql.NullString{}},
		{name: "string", value: "abc", want: validString("abc")},
		{name: "bytes", value: []byte("raw"), want: validString("raw")},
		{name: "integer", value: int64(-7), want: validString("-7")},
		{name: "uint64", value: uint64(math.MaxUint64), want: validString("18446744073709551615")},
		{name: "float", value: 1.5, want: validString("1.5")},
		{name: "large float has no exponent", value: 1e21, want: validString("1000000000000000000000")},
		{name: "true", value: true, want: validString("1")},
		{name: "false", value: false, want: validString("0")},
		{name: "time", value: ts, want: validString("2024-01-15T10:30:00.0000005Z")},
		{name: "unsupported", value: struct{}{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := toString(tt.value)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrConversion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
