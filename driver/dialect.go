package driver

import "github.com/jmoiron/sqlx"

// Dialect holds the backend-specific queries a Connection relies on.
type Dialect struct {
	// Name is the database/sql driver name the dialect was resolved from
	Name string
	// BindType is the sqlx placeholder style
	BindType int
	// RowsAffectedQuery returns the change count of the previous statement
	RowsAffectedQuery string
	// LastInsertIDQuery returns the id of the most recent insert
	LastInsertIDQuery string
}

// DialectFor resolves the dialect of a database/sql driver name.
// Unknown drivers report -1 affected rows and no last insert id.
func DialectFor(driverName string) Dialect {
	d := Dialect{Name: driverName, BindType: sqlx.BindType(driverName)}

	switch driverName {
	case SQLiteDriverName, "sqlite3":
		d.RowsAffectedQuery = "SELECT changes()"
		d.LastInsertIDQuery = "SELECT last_insert_rowid()"
	case "mysql":
		d.RowsAffectedQuery = "SELECT ROW_COUNT()"
		d.LastInsertIDQuery = "SELECT LAST_INSERT_ID()"
	}
	return d
}

func init() {
	// modernc.org/sqlite registers as "sqlite", which sqlx does not know by default
	sqlx.BindDriver(SQLiteDriverName, sqlx.QUESTION)
}
