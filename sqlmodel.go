package sqlmodel

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mtoolkit/sqlmodel/domain/model"
	sqldriver "github.com/mtoolkit/sqlmodel/driver"
)

// Type aliases for the domain model
type (
	// Conn is a database connection handle a Query executes against
	Conn = model.Conn
	// Stmt is a prepared statement produced by Conn.Prepare
	Stmt = model.Stmt
	// DataType represents the scalar kind of a value
	DataType = model.DataType
	// ColumnInfo describes one result column
	ColumnInfo = model.ColumnInfo
	// TableModel is the row/column data contract implemented by QueryModel
	TableModel = model.TableModel
	// Orientation selects the header a section index refers to
	Orientation = model.Orientation
	// ExportOptions represents options for exporting a result
	ExportOptions = model.ExportOptions
	// OutputFormat represents the export file format
	OutputFormat = model.OutputFormat
	// CompressionType represents the compression type
	CompressionType = model.CompressionType
)

// Re-export constants for easier use
const (
	// DataTypeUnknown represents a value whose kind cannot be determined
	DataTypeUnknown = model.DataTypeUnknown
	// DataTypeNull represents SQL NULL
	DataTypeNull = model.DataTypeNull
	// DataTypeInteger represents any integer
	DataTypeInteger = model.DataTypeInteger
	// DataTypeFloat represents a floating point number
	DataTypeFloat = model.DataTypeFloat
	// DataTypeBoolean represents a boolean
	DataTypeBoolean = model.DataTypeBoolean
	// DataTypeString represents text
	DataTypeString = model.DataTypeString
	// DataTypeBytes represents a BLOB
	DataTypeBytes = model.DataTypeBytes
	// DataTypeTime represents a date, time or timestamp
	DataTypeTime = model.DataTypeTime

	// Horizontal addresses column headers
	Horizontal = model.Horizontal
	// Vertical addresses row headers
	Vertical = model.Vertical

	// OutputFormatCSV represents CSV output format
	OutputFormatCSV = model.OutputFormatCSV
	// OutputFormatTSV represents TSV output format
	OutputFormatTSV = model.OutputFormatTSV
	// OutputFormatLTSV represents LTSV output format
	OutputFormatLTSV = model.OutputFormatLTSV
	// OutputFormatParquet represents Parquet output format
	OutputFormatParquet = model.OutputFormatParquet
	// OutputFormatXLSX represents Excel XLSX output format
	OutputFormatXLSX = model.OutputFormatXLSX

	// CompressionNone represents no compression
	CompressionNone = model.CompressionNone
	// CompressionGZ represents gzip compression
	CompressionGZ = model.CompressionGZ
	// CompressionBZ2 represents bzip2 compression
	CompressionBZ2 = model.CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ = model.CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD = model.CompressionZSTD
)

// NewExportOptions creates new ExportOptions with default values (CSV format, no compression)
var NewExportOptions = model.NewExportOptions

// Open opens a database with a database/sql driver name and DSN.
// The returned connection owns the pool; close it when done.
func Open(ctx context.Context, driverName, dsn string) (*sqldriver.Connection, error) {
	return sqldriver.Open(ctx, driverName, dsn)
}

// OpenSQLite opens an SQLite database. Use ":memory:" for a private in-memory database.
func OpenSQLite(ctx context.Context, dsn string) (*sqldriver.Connection, error) {
	return sqldriver.OpenSQLite(ctx, dsn)
}

// Wrap converts a connection handle into a Conn. Supported handles are Conn
// implementations, *sql.DB, *sqlx.DB and *sqlx.Conn; a pool is pinned to one
// connection that is released by closing the returned Conn, if it implements
// io.Closer. Any other handle returns ErrUnsupportedConnection.
func Wrap(ctx context.Context, handle any) (Conn, error) {
	var (
		conn *sqldriver.Connection
		err  error
	)
	switch h := handle.(type) {
	case Conn:
		return h, nil
	case *sqlx.DB:
		conn, err = sqldriver.New(ctx, h)
	case *sql.DB:
		conn, err = sqldriver.NewFromDB(ctx, h)
	case *sqlx.Conn:
		conn = sqldriver.FromConn(h, "")
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedConnection, handle)
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}
