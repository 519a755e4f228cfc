// Command sqlmodel is an interactive SQL shell. Each line is run as a query
// and its result is printed as a table. Lines starting with '.' are commands:
//
//	.export <path> [format] [compression]  write the last result to a file
//	.fields                                list the columns of the last result
//	.read <path>                           run the statements of an SQL script
//	.quit                                  leave the shell
//
// Scripts may be compressed; the codec is chosen by the file extension.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"
	"github.com/mtoolkit/sqlmodel"
	"github.com/mtoolkit/sqlmodel/domain/model"
	sqldriver "github.com/mtoolkit/sqlmodel/driver"
)

var errQuit = errors.New("quit")

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))

	driverName := getEnvOrDefault("SQLMODEL_DRIVER", sqldriver.SQLiteDriverName)
	dsn := getEnvOrDefault("SQLMODEL_DSN", ":memory:")

	ctx := context.Background()
	conn, err := sqlmodel.Open(ctx, driverName, dsn)
	if err != nil {
		logger.Error("failed to open database", "driver", driverName, "dsn", sqldriver.RedactDSN(dsn), "error", err)
		os.Exit(1)
	}

	registry := sqlmodel.NewRegistry()
	registry.Register(sqlmodel.DefaultConnectionName, conn)
	defer func() {
		if err := registry.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	logger.Info("connected", "driver", driverName, "dsn", sqldriver.RedactDSN(dsn))

	home, _ := os.UserHomeDir()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "sql> ",
		HistoryFile: getEnvOrDefault("SQLMODEL_HISTORY", filepath.Join(home, ".sqlmodel_history")),
	})
	if err != nil {
		logger.Error("failed to create readline", "error", err)
		return
	}
	defer rl.Close()

	s := &shell{
		out:   rl.Stdout(),
		model: sqlmodel.NewQueryModel(registry, sqlmodel.WithLogger(logger)),
	}
	defer s.model.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				break
			}
			logger.Error("reading input", "error", err)
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := s.run(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			fmt.Fprintf(rl.Stderr(), "error: %v\n", err)
		}
	}
}

// shell executes input lines against the default connection
type shell struct {
	out   io.Writer
	model *sqlmodel.QueryModel
}

func (s *shell) run(ctx context.Context, line string) error {
	if !strings.HasPrefix(line, ".") {
		if err := s.model.SetQuery(ctx, strings.TrimSuffix(line, ";"), nil); err != nil {
			return err
		}
		return s.printResult()
	}

	args := strings.Fields(line)
	switch args[0] {
	case ".quit", ".exit":
		return errQuit
	case ".fields":
		return s.printFields()
	case ".export":
		return s.export(args[1:])
	case ".read":
		return s.read(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (s *shell) printResult() error {
	m := s.model
	if m.ColumnCount() == 0 {
		_, err := fmt.Fprintf(s.out, "ok, %d row(s) affected\n", m.Query().NumRowsAffected())
		return err
	}

	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for col := range m.ColumnCount() {
		if col > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, m.HeaderData(col, sqlmodel.Horizontal))
	}
	fmt.Fprintln(w)

	for row := range m.RowCount() {
		for col := range m.ColumnCount() {
			if col > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cellText(m.Data(row, col)))
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(s.out, "(%d row(s))\n", m.RowCount())
	return err
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

func (s *shell) printFields() error {
	r := s.model.Result()
	if r == nil {
		return errors.New("no result")
	}

	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for _, c := range r.ColumnInfo() {
		fmt.Fprintf(w, "%s\t%s\n", c.Name, c.Type)
	}
	return w.Flush()
}

// export handles ".export <path> [format] [compression]". Without explicit
// arguments the format and compression come from the path's extensions.
func (s *shell) export(args []string) error {
	r := s.model.Result()
	if r == nil {
		return errors.New("no result")
	}
	if len(args) == 0 || len(args) > 3 {
		return errors.New("usage: .export <path> [format] [compression]")
	}

	path := args[0]
	opts, ok := sqlmodel.ExportOptionsForPath(path)
	if len(args) > 1 {
		format, known := model.ParseOutputFormat(args[1])
		if !known {
			return fmt.Errorf("%w: %s", sqlmodel.ErrUnsupportedFormat, args[1])
		}
		opts = opts.WithFormat(format)
		ok = true
	}
	if len(args) > 2 {
		compression, known := model.ParseCompressionType(args[2])
		if !known {
			return fmt.Errorf("%w: %s", sqlmodel.ErrUnsupportedFormat, args[2])
		}
		opts = opts.WithCompression(compression)
	}
	if !ok {
		return fmt.Errorf("cannot infer the format of %q, pass it explicitly", path)
	}

	if err := r.ExportFile(path, opts); err != nil {
		return err
	}
	_, err := fmt.Fprintf(s.out, "exported %d row(s) as %s\n", r.RowCount(), opts.Format)
	return err
}

// read handles ".read <path>". Statements run in order and the first failure
// stops the script. The result of the last statement is printed.
func (s *shell) read(ctx context.Context, args []string) (err error) {
	if len(args) != 1 {
		return errors.New("usage: .read <path>")
	}

	r, closeReader, err := sqlmodel.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeReader())
	}()

	statements, err := splitStatements(r)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	if len(statements) == 0 {
		return nil
	}

	for i, stmt := range statements {
		if err := s.model.SetQuery(ctx, stmt, nil); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return s.printResult()
}

// splitStatements groups lines into statements ending with ';'. Blank lines
// and "--" comment lines are skipped.
func splitStatements(r io.Reader) ([]string, error) {
	var (
		statements []string
		current    strings.Builder
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
		if strings.HasSuffix(line, ";") {
			statements = append(statements, strings.TrimSuffix(current.String(), ";"))
			current.Reset()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if current.Len() > 0 {
		statements = append(statements, current.String())
	}
	return statements, nil
}

func logLevel() slog.Level {
	if os.Getenv("SQLMODEL_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func getEnvOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
