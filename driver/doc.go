// Package driver provides the connection handle used by sqlmodel queries.
//
// A Connection wraps a database/sql pool through jmoiron/sqlx and pins one
// physical connection, so that connection-scoped state such as the last
// inserted row id (or an in-memory SQLite database) stays consistent across
// statements. SQLite is supported out of the box through modernc.org/sqlite.
//
// Usage:
//
//	conn, err := driver.OpenSQLite(ctx, ":memory:")
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	stmt, err := conn.Prepare(ctx, "SELECT * FROM users WHERE id = ?")
package driver
