package sqlmodel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/mtoolkit/sqlmodel/domain/model"
	sqldriver "github.com/mtoolkit/sqlmodel/driver"
	"github.com/xuri/excelize/v2"
)

// Export writes the result to w in the format and compression of opts.
// Values are rendered as text with the same rules as Record.String; NULL is
// written as an empty cell (or a Parquet null).
func (r *Result) Export(w io.Writer, opts ExportOptions) error {
	writer, closeCompressor, err := NewCompressionHandler(opts.Compression).CreateWriter(w)
	if err != nil {
		return NewErrorContext("export", "").WithDetails(opts.FileExtension()).Error(err)
	}

	if err := r.writeFormat(writer, opts); err != nil {
		return errors.Join(err, closeCompressor())
	}
	if err := closeCompressor(); err != nil {
		return NewErrorContext("export", "").WithDetails("flush compressor").Error(err)
	}
	return nil
}

// ExportFile writes the result to path. The extension of opts is appended
// when path does not already end with it.
func (r *Result) ExportFile(path string, opts ExportOptions) error {
	if !strings.HasSuffix(strings.ToLower(path), opts.FileExtension()) {
		path += opts.FileExtension()
	}
	if err := sqldriver.ValidateOutputPath(path); err != nil {
		return NewErrorContext("export", path).Error(err)
	}

	writer, closeFile, err := createWriterForFile(path, opts.Compression)
	if err != nil {
		return NewErrorContext("export", path).Error(err)
	}

	if err := r.writeFormat(writer, opts); err != nil {
		return NewErrorContext("export", path).Error(errors.Join(err, closeFile()))
	}
	if err := closeFile(); err != nil {
		return NewErrorContext("export", path).WithDetails("close file").Error(err)
	}
	return nil
}

func (r *Result) writeFormat(w io.Writer, opts ExportOptions) error {
	switch opts.Format {
	case model.OutputFormatCSV:
		return r.writeDelimited(w, ',')
	case model.OutputFormatTSV:
		return r.writeDelimited(w, '\t')
	case model.OutputFormatLTSV:
		return r.writeLTSV(w)
	case model.OutputFormatXLSX:
		return r.writeXLSX(w, opts.SheetName)
	case model.OutputFormatParquet:
		return r.writeParquet(w)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, opts.Format)
	}
}

// cellText renders a value for text formats
func (r *Result) cellText(row, col int) (string, error) {
	v, err := r.DataAt(row, col)
	if err != nil {
		return "", err
	}
	s, err := toString(v)
	if err != nil {
		return "", NewErrorContext("export", "").WithColumn(r.fields[col]).Error(err)
	}
	return s.String, nil
}

func (r *Result) writeDelimited(w io.Writer, comma rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = comma

	if err := writer.Write(r.fields); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(r.fields))
	for row := range r.rows {
		for col := range r.fields {
			text, err := r.cellText(row, col)
			if err != nil {
				return err
			}
			record[col] = text
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ltsvEscaper keeps each record on one line and labels free of separators
var ltsvEscaper = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func (r *Result) writeLTSV(w io.Writer) error {
	var b strings.Builder
	for row := range r.rows {
		b.Reset()
		for col, name := range r.fields {
			text, err := r.cellText(row, col)
			if err != nil {
				return err
			}
			if col > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(strings.ReplaceAll(ltsvEscaper.Replace(name), ":", "_"))
			b.WriteByte(':')
			b.WriteString(ltsvEscaper.Replace(text))
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}
	return nil
}

func (r *Result) writeXLSX(w io.Writer, sheet string) (err error) {
	if sheet == "" {
		sheet = model.DefaultSheetName
	}

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if sheet != model.DefaultSheetName {
		if err := f.SetSheetName(model.DefaultSheetName, sheet); err != nil {
			return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
	}

	header := make([]any, len(r.fields))
	for i, name := range r.fields {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for row := range r.rows {
		cells := make([]any, len(r.fields))
		for col := range r.fields {
			v, err := r.DataAt(row, col)
			if err != nil {
				return err
			}
			cells[col] = xlsxValue(v)
		}

		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// xlsxValue keeps values excelize stores natively and renders the rest as text
func xlsxValue(v any) any {
	switch x := v.(type) {
	case nil, bool, string, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return x
	default:
		s, err := toString(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return s.String
	}
}

// parquetSink hides Close so the Parquet writer cannot close the compressor or file
type parquetSink struct {
	io.Writer
}

func (r *Result) writeParquet(w io.Writer) error {
	columns := r.ColumnInfo()
	if len(columns) == 0 {
		return fmt.Errorf("%w: parquet needs at least one column", ErrUnsupportedFormat)
	}
	fields := make([]arrow.Field, len(columns))
	for i, c := range columns {
		fields[i] = arrow.Field{Name: c.Name, Type: arrowType(c.Type), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	for col, c := range columns {
		if err := r.appendParquetColumn(builder.Field(col), col, c.Type); err != nil {
			return err
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	table := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer table.Release()

	props := parquet.NewWriterProperties()
	if err := pqarrow.WriteTable(table, parquetSink{w}, max(int64(len(r.rows)), 1), props, pqarrow.DefaultWriterProps()); err != nil {
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	return nil
}

// arrowType maps a column type to the Arrow type it is stored as
func arrowType(dt DataType) arrow.DataType {
	switch dt {
	case model.DataTypeInteger:
		return arrow.PrimitiveTypes.Int64
	case model.DataTypeFloat:
		return arrow.PrimitiveTypes.Float64
	case model.DataTypeBoolean:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

func (r *Result) appendParquetColumn(b array.Builder, col int, dt DataType) error {
	for row := range r.rows {
		v, err := r.DataAt(row, col)
		if err != nil {
			return err
		}
		if v == nil {
			b.AppendNull()
			continue
		}

		switch builder := b.(type) {
		case *array.Int64Builder:
			n, err := toInt(v)
			if err != nil {
				return NewErrorContext("export", "").WithColumn(r.fields[col]).Error(err)
			}
			builder.Append(n.Int64)
		case *array.Float64Builder:
			n, err := toFloat(v)
			if err != nil {
				return NewErrorContext("export", "").WithColumn(r.fields[col]).Error(err)
			}
			builder.Append(n.Float64)
		case *array.BooleanBuilder:
			n, err := toBool(v)
			if err != nil {
				return NewErrorContext("export", "").WithColumn(r.fields[col]).Error(err)
			}
			builder.Append(n.Bool)
		case *array.StringBuilder:
			text, err := r.cellText(row, col)
			if err != nil {
				return err
			}
			builder.Append(text)
		default:
			return fmt.Errorf("%w: arrow type %v", ErrUnsupportedFormat, dt)
		}
	}
	return nil
}
