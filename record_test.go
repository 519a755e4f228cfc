package sqlmodel

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord() *Record {
	return NewRecord(
		[]string{"id", "name", "active", "score", "note"},
		[]any{int64(1), "alice", int64(1), 1.2, nil},
	)
}

func TestNewRecord(t *testing.T) {
	t.Parallel()

	t.Run("Keeps column order", func(t *testing.T) {
		t.Parallel()

		r := newTestRecord()
		assert.Equal(t, []string{"id", "name", "active", "score", "note"}, r.Names())
		assert.Equal(t, 5, r.Count())
		assert.False(t, r.IsEmpty())
	})

	t.Run("Duplicate names keep first position and last value", func(t *testing.T) {
		t.Parallel()

		r := NewRecord([]string{"a", "b", "a"}, []any{int64(1), int64(2), int64(3)})
		assert.Equal(t, []string{"a", "b"}, r.Names())
		assert.Equal(t, int64(3), r.ValueAt(0))
		assert.Equal(t, 0, r.IndexOf("a"))
	})

	t.Run("Missing values are NULL", func(t *testing.T) {
		t.Parallel()

		r := NewRecord([]string{"a", "b"}, []any{int64(1)})
		v, ok := r.Get("b")
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()

		r := NewRecord(nil, nil)
		assert.True(t, r.IsEmpty())
		assert.Equal(t, 0, r.Count())
	})
}

func TestRecordLookup(t *testing.T) {
	t.Parallel()

	r := newTestRecord()

	assert.True(t, r.Contains("name"))
	assert.False(t, r.Contains("Name"), "names are case-sensitive")
	assert.Equal(t, 1, r.IndexOf("name"))
	assert.Equal(t, -1, r.IndexOf("NAME"))
	assert.Equal(t, -1, r.IndexOf("missing"))

	name, ok := r.FieldName(1)
	assert.True(t, ok)
	assert.Equal(t, "name", name)
	_, ok = r.FieldName(5)
	assert.False(t, ok)
	_, ok = r.FieldName(-1)
	assert.False(t, ok)

	assert.Equal(t, "alice", r.Value("name"))
	assert.Nil(t, r.Value("missing"))
	assert.Equal(t, "alice", r.ValueAt(1))
	assert.Nil(t, r.ValueAt(9))

	v, ok := r.GetAt(0)
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)
	_, ok = r.GetAt(9)
	assert.False(t, ok)
	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRecordField(t *testing.T) {
	t.Parallel()

	r := newTestRecord()

	f, ok := r.Field("score")
	require.True(t, ok)
	assert.Equal(t, "score", f.Name())
	assert.Equal(t, DataTypeFloat, f.Type())
	assert.Equal(t, 1.2, f.Value())
	assert.Equal(t, -1, f.Length())
	assert.False(t, f.IsNull())

	f, ok = r.Field("note")
	require.True(t, ok)
	assert.Equal(t, DataTypeNull, f.Type())
	assert.True(t, f.IsNull())

	_, ok = r.Field("missing")
	assert.False(t, ok)
}

func TestRecordTypedGetters(t *testing.T) {
	t.Parallel()

	r := NewRecord(
		[]string{"int_text", "int", "bool_text", "bool", "one", "zero", "float_text", "float", "null", "word"},
		[]any{"1", int64(1), "true", true, int64(1), int64(0), "1.2", 1.2, nil, "abc"},
	)

	t.Run("Int", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"int_text", "int"} {
			got, err := r.Int(name)
			require.NoError(t, err)
			assert.Equal(t, sql.NullInt64{Int64: 1, Valid: true}, got, name)
		}

		got, err := r.IntAt(1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Int64)

		_, err = r.Int("word")
		assert.ErrorIs(t, err, ErrConversion)
	})

	t.Run("Bool", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"bool_text", "bool", "one"} {
			got, err := r.Bool(name)
			require.NoError(t, err)
			assert.Equal(t, sql.NullBool{Bool: true, Valid: true}, got, name)
		}

		got, err := r.Bool("zero")
		require.NoError(t, err)
		assert.Equal(t, sql.NullBool{Bool: false, Valid: true}, got)

		got, err = r.BoolAt(3)
		require.NoError(t, err)
		assert.True(t, got.Bool)
	})

	t.Run("Float", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"float_text", "float"} {
			got, err := r.Float(name)
			require.NoError(t, err)
			assert.Equal(t, sql.NullFloat64{Float64: 1.2, Valid: true}, got, name)
		}

		got, err := r.FloatAt(7)
		require.NoError(t, err)
		assert.InDelta(t, 1.2, got.Float64, 1e-9)
	})

	t.Run("String", func(t *testing.T) {
		t.Parallel()

		got, err := r.String("int")
		require.NoError(t, err)
		assert.Equal(t, sql.NullString{String: "1", Valid: true}, got)

		got, err = r.StringAt(3)
		require.NoError(t, err)
		assert.Equal(t, "1", got.String)
	})

	t.Run("NULL and absent columns are NULL", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"null", "missing"} {
			i, err := r.Int(name)
			require.NoError(t, err)
			assert.False(t, i.Valid)

			s, err := r.String(name)
			require.NoError(t, err)
			assert.False(t, s.Valid)

			assert.True(t, r.IsNull(name))
		}

		b, err := r.BoolAt(42)
		require.NoError(t, err)
		assert.False(t, b.Valid)
	})
}

func TestRecordMutators(t *testing.T) {
	t.Parallel()

	t.Run("SetNull", func(t *testing.T) {
		t.Parallel()

		r := newTestRecord()
		r.SetNull("name")
		assert.True(t, r.IsNull("name"))
		assert.True(t, r.Contains("name"))

		r.SetNull("missing")
		assert.False(t, r.Contains("missing"))
	})

	t.Run("Remove", func(t *testing.T) {
		t.Parallel()

		r := newTestRecord()
		r.Remove("name")
		assert.Equal(t, []string{"id", "active", "score", "note"}, r.Names())
		assert.False(t, r.Contains("name"))
		assert.Equal(t, 1, r.IndexOf("active"))

		r.Remove("missing")
		assert.Equal(t, 4, r.Count())
	})

	t.Run("Clear", func(t *testing.T) {
		t.Parallel()

		r := newTestRecord()
		r.Clear()
		assert.True(t, r.IsEmpty())
		assert.False(t, r.Contains("id"))
	})

	t.Run("ClearValues", func(t *testing.T) {
		t.Parallel()

		r := newTestRecord()
		r.ClearValues()
		assert.Equal(t, 5, r.Count())
		for name, v := range r.All() {
			assert.Nil(t, v, name)
		}
	})
}

func TestRecordAll(t *testing.T) {
	t.Parallel()

	r := newTestRecord()

	var names []string
	var values []any
	for name, v := range r.All() {
		names = append(names, name)
		values = append(values, v)
	}
	assert.Equal(t, r.Names(), names)
	assert.Equal(t, []any{int64(1), "alice", int64(1), 1.2, nil}, values)

	count := 0
	for range r.All() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
