package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mtoolkit/sqlmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()

	conn, err := sqlmodel.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)

	registry := sqlmodel.NewRegistry()
	registry.Register("", conn)
	t.Cleanup(func() { assert.NoError(t, registry.Close()) })

	var out bytes.Buffer
	return &shell{out: &out, model: sqlmodel.NewQueryModel(registry)}, &out
}

func TestShellRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, out := newTestShell(t)

	require.NoError(t, s.run(ctx, "CREATE TABLE t (a INTEGER, b TEXT);"))
	assert.Contains(t, out.String(), "ok,")

	out.Reset()
	require.NoError(t, s.run(ctx, "INSERT INTO t VALUES (1, 'x'), (2, NULL)"))
	assert.Equal(t, "ok, 2 row(s) affected\n", out.String())

	out.Reset()
	require.NoError(t, s.run(ctx, "SELECT a, b FROM t ORDER BY a"))
	assert.Equal(t, "a  b\n1  x\n2  NULL\n(2 row(s))\n", out.String())

	out.Reset()
	require.NoError(t, s.run(ctx, ".fields"))
	assert.Equal(t, "a  integer\nb  string\n", out.String())

	assert.Error(t, s.run(ctx, "SELECT nope FROM t"))
	assert.ErrorIs(t, s.run(ctx, ".quit"), errQuit)
	assert.Error(t, s.run(ctx, ".unknown"))
}

func TestShellExport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("Format from the path", func(t *testing.T) {
		t.Parallel()

		s, out := newTestShell(t)
		require.NoError(t, s.run(ctx, "SELECT 1 AS one"))

		path := filepath.Join(t.TempDir(), "one.tsv")
		require.NoError(t, s.run(ctx, ".export "+path))
		assert.Contains(t, out.String(), "exported 1 row(s) as tsv")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "one\n1\n", string(data))
	})

	t.Run("Explicit format and compression", func(t *testing.T) {
		t.Parallel()

		s, _ := newTestShell(t)
		require.NoError(t, s.run(ctx, "SELECT 1 AS one"))

		dir := t.TempDir()
		require.NoError(t, s.run(ctx, ".export "+filepath.Join(dir, "one")+" csv gz"))

		_, err := os.Stat(filepath.Join(dir, "one.csv.gz"))
		assert.NoError(t, err)
	})

	t.Run("Errors", func(t *testing.T) {
		t.Parallel()

		s, _ := newTestShell(t)
		assert.Error(t, s.run(ctx, ".export out.csv"), "no result yet")

		require.NoError(t, s.run(ctx, "SELECT 1 AS one"))
		assert.Error(t, s.run(ctx, ".export"))
		assert.Error(t, s.run(ctx, ".export "+filepath.Join(t.TempDir(), "noext")))
		assert.ErrorIs(t, s.run(ctx, ".export out yaml"), sqlmodel.ErrUnsupportedFormat)
	})
}

// writeScript writes script to path, compressed according to its extension
func writeScript(t *testing.T, path, script string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	w, flush, err := sqlmodel.NewCompressionHandler(sqlmodel.DetectCompressionType(path)).CreateWriter(f)
	require.NoError(t, err)
	_, err = io.WriteString(w, script)
	require.NoError(t, err)
	require.NoError(t, flush())
	require.NoError(t, f.Close())
}

func TestShellRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("Compressed script", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "seed.sql.gz")
		writeScript(t, path, "-- seed data\n"+
			"CREATE TABLE t (a INTEGER);\n\n"+
			"INSERT INTO t VALUES (1),\n  (2);\n"+
			"SELECT a FROM t ORDER BY a;\n")

		s, out := newTestShell(t)
		require.NoError(t, s.run(ctx, ".read "+path))
		assert.Equal(t, "a\n1\n2\n(2 row(s))\n", out.String())
	})

	t.Run("Last statement without semicolon", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "one.sql")
		writeScript(t, path, "SELECT 1 AS one")

		s, out := newTestShell(t)
		require.NoError(t, s.run(ctx, ".read "+path))
		assert.Equal(t, "one\n1\n(1 row(s))\n", out.String())
	})

	t.Run("Failure stops the script", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "broken.sql.zst")
		writeScript(t, path, "CREATE TABLE t (a INTEGER);\nSELECT nope FROM t;\nINSERT INTO t VALUES (1);\n")

		s, out := newTestShell(t)
		err := s.run(ctx, ".read "+path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "statement 2")
		assert.Empty(t, out.String())

		require.NoError(t, s.run(ctx, "SELECT COUNT(*) AS n FROM t"))
		assert.Equal(t, "n\n0\n(1 row(s))\n", out.String())
	})

	t.Run("Errors", func(t *testing.T) {
		t.Parallel()

		s, _ := newTestShell(t)
		assert.Error(t, s.run(ctx, ".read"))
		assert.Error(t, s.run(ctx, ".read "+filepath.Join(t.TempDir(), "missing.sql")))
	})
}
