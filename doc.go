// Package sqlmodel executes parameterized SQL against a connection and exposes
// the fully materialized result as a cursor of typed records.
//
// A Query holds the SQL text, its bound parameters and the connection it runs
// on. Exec prepares the statement, binds every parameter in order, executes it
// and buffers the whole result set into a Result. Failures never panic: they
// are classified (connection, binding, statement), captured as an SQLError and
// returned, and the Query is left with an empty Result carrying the same error.
//
// # Features
//
//   - Typed parameters (integer, boolean, NULL, string) with strict validation
//   - Random-access cursor over buffered rows with BeforeFirstRow/AfterLastRow sentinels
//   - Records with coercing getters returning sql.Null* values
//   - Struct projection of rows using sqlx's db tag mapping
//   - A read-only TableModel adapter for tabular views (QueryModel)
//   - A named connection Registry replacing a global default connection
//   - Result export to CSV, TSV, LTSV, XLSX and Parquet with gzip, xz or zstd compression
//
// # Basic Usage
//
//	conn, err := sqlmodel.OpenSQLite(ctx, ":memory:")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	q := sqlmodel.NewQuery(conn, "SELECT id, name FROM users WHERE age > ?")
//	if err := q.BindValue(25); err != nil {
//	    log.Fatal(err)
//	}
//	if err := q.Exec(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, rec := range q.Result().All() {
//	    name, _ := rec.String("name")
//	    fmt.Println(name.String)
//	}
//
// # Named Connections
//
// A Registry maps names to connections. The connection registered under
// DefaultConnectionName is used by QueryModel when no handle is given:
//
//	registry := sqlmodel.NewRegistry()
//	registry.Register(sqlmodel.DefaultConnectionName, conn)
//
//	m := sqlmodel.NewQueryModel(registry)
//	if err := m.SetQuery(ctx, "SELECT * FROM users", nil); err != nil {
//	    log.Fatal(err)
//	}
//
// # Placeholders
//
// Statements are written with '?' placeholders. They are rebound to the
// placeholder style of the underlying driver before preparation.
package sqlmodel
