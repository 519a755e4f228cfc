package sqlmodel

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	sqldriver "github.com/mtoolkit/sqlmodel/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryModelDefaultConnection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("Uses the registry default", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.Register("", openFixture(t))

		m := NewQueryModel(r)
		require.NoError(t, m.SetQuery(ctx, "SELECT id, name FROM users ORDER BY id", nil))
		assert.Equal(t, 3, m.RowCount())
		assert.Equal(t, 2, m.ColumnCount())
		assert.Equal(t, "bob", m.Data(1, 1))
		assert.NoError(t, m.Close())
	})

	t.Run("Missing default", func(t *testing.T) {
		t.Parallel()

		m := NewQueryModel(NewRegistry())
		assert.ErrorIs(t, m.SetQuery(ctx, "SELECT 1", nil), ErrNoConnection)
		assert.Nil(t, m.Result())
		assert.Equal(t, 0, m.RowCount())
	})

	t.Run("No registry", func(t *testing.T) {
		t.Parallel()

		m := NewQueryModel(nil)
		assert.ErrorIs(t, m.SetQuery(ctx, "SELECT 1", nil), ErrNoConnection)
	})
}

func TestQueryModelHandles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("Conn is borrowed", func(t *testing.T) {
		t.Parallel()

		conn := &closingConn{}
		m := NewQueryModel(nil)
		require.NoError(t, m.SetQuery(ctx, "SELECT 1", conn))
		require.NoError(t, m.Close())
		assert.Equal(t, 0, conn.closed)
	})

	t.Run("sql.DB", func(t *testing.T) {
		t.Parallel()

		db, err := sql.Open(sqldriver.SQLiteDriverName, ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { assert.NoError(t, db.Close()) })

		m := NewQueryModel(nil)
		require.NoError(t, m.SetQuery(ctx, "SELECT 1 AS one, 'x' AS two", db))
		assert.Equal(t, "one", m.HeaderData(0, Horizontal))
		assert.Equal(t, int64(1), m.Data(0, 0))

		conn, ok := m.Query().Conn().(*sqldriver.Connection)
		require.True(t, ok)
		assert.Equal(t, "sqlite", conn.Dialect().Name)
		require.NoError(t, m.Close())

		require.NoError(t, db.PingContext(ctx), "the borrowed pool stays open")
	})

	t.Run("sqlx.DB", func(t *testing.T) {
		t.Parallel()

		db, err := sqlx.Open(sqldriver.SQLiteDriverName, ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { assert.NoError(t, db.Close()) })

		m := NewQueryModel(nil)
		require.NoError(t, m.SetQuery(ctx, "SELECT 1 AS one", db))
		assert.Equal(t, 1, m.RowCount())

		require.NoError(t, m.SetQuery(ctx, "SELECT 2 AS two", db), "replacing the query releases the previous connection")
		assert.Equal(t, int64(2), m.Data(0, 0))
		require.NoError(t, m.Close())
	})

	t.Run("sqlx.Conn", func(t *testing.T) {
		t.Parallel()

		db, err := sqlx.Open(sqldriver.SQLiteDriverName, ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { assert.NoError(t, db.Close()) })

		pinned, err := db.Connx(ctx)
		require.NoError(t, err)

		m := NewQueryModel(nil)
		require.NoError(t, m.SetQuery(ctx, "SELECT 1 AS one", pinned))
		require.NoError(t, m.SetQuery(ctx, "SELECT 2 AS two", pinned), "the conn survives replacing the query")
		assert.Equal(t, int64(2), m.Data(0, 0))
		require.NoError(t, m.Close())

		require.NoError(t, pinned.PingContext(ctx), "the borrowed conn stays open")
		assert.NoError(t, pinned.Close())
	})

	t.Run("Unsupported handle", func(t *testing.T) {
		t.Parallel()

		m := NewQueryModel(nil)
		err := m.SetQuery(ctx, "SELECT 1", "not a connection")
		assert.ErrorIs(t, err, ErrUnsupportedConnection)
		assert.Nil(t, m.Query())
	})
}

func TestQueryModelTableContract(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewQueryModel(nil)
	require.NoError(t, m.SetQuery(ctx, "SELECT name, age FROM users ORDER BY id", openFixture(t)))

	var table TableModel = m
	assert.Equal(t, 3, table.RowCount())

	t.Run("Headers", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "name", m.HeaderData(0, Horizontal))
		assert.Equal(t, "age", m.HeaderData(1, Horizontal))
		assert.Nil(t, m.HeaderData(2, Horizontal))
		assert.Equal(t, 2, m.HeaderData(2, Vertical))
		assert.Nil(t, m.HeaderData(3, Vertical))
		assert.Nil(t, m.HeaderData(-1, Horizontal))
		assert.Nil(t, m.HeaderData(0, Orientation(9)))
		assert.False(t, m.SetHeaderData(0, Horizontal, "renamed"))
		assert.Equal(t, "name", m.HeaderData(0, Horizontal))
	})

	t.Run("Data", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "carol", m.Data(2, 0))
		assert.Equal(t, int64(41), m.Data(2, 1))
		assert.Nil(t, m.Data(3, 0))
		assert.Nil(t, m.Data(0, 2))
		assert.False(t, m.HasChildren(0, 0))
	})

	t.Run("Read only", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, m.SetData(0, 0, "mallory"), ErrReadOnly)
		assert.Equal(t, "alice", m.Data(0, 0))
	})
}

func TestQueryModelFailedQuery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewQueryModel(nil)
	conn := openFixture(t)

	require.NoError(t, m.SetQuery(ctx, "SELECT name FROM users", conn))
	require.Equal(t, 3, m.RowCount())

	err := m.SetQuery(ctx, "SELECT nope FROM users", conn)
	require.Error(t, err)
	assert.True(t, m.LastError().HasError())
	assert.Equal(t, 0, m.RowCount())
	assert.Equal(t, 0, m.ColumnCount())
	assert.Nil(t, m.HeaderData(0, Horizontal))
	assert.Nil(t, m.Data(0, 0))

	require.NoError(t, m.SetQuery(ctx, "SELECT name FROM users WHERE id = 1", conn))
	assert.False(t, m.LastError().HasError())
	assert.Equal(t, "alice", m.Data(0, 0))
}

func TestQueryModelBeforeSetQuery(t *testing.T) {
	t.Parallel()

	m := NewQueryModel(nil)
	assert.Nil(t, m.Query())
	assert.Nil(t, m.Result())
	assert.False(t, m.LastError().HasError())
	assert.Equal(t, 0, m.RowCount())
	assert.Equal(t, 0, m.ColumnCount())
	assert.Nil(t, m.Data(0, 0))
	assert.Nil(t, m.HeaderData(0, Horizontal))
	assert.NoError(t, m.Close())
}
