package sqlmodel

import (
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/mtoolkit/sqlmodel/domain/model"
	"github.com/ulikunitz/xz"
)

// CompressionHandler wraps readers and writers with a compression codec
type CompressionHandler interface {
	// CreateReader returns a reader that decompresses r and a function releasing the decoder
	CreateReader(r io.Reader) (io.Reader, func() error, error)
	// CreateWriter returns a writer that compresses into w and a function that
	// flushes the encoder. The flush function does not close w.
	CreateWriter(w io.Writer) (io.Writer, func() error, error)
	// Extension returns the file extension of the codec, e.g. ".gz"
	Extension() string
}

type (
	openReader func(io.Reader) (io.Reader, func() error, error)
	openWriter func(io.Writer) (io.Writer, func() error, error)
)

// codec pairs the decoder and encoder of one compression type. A nil
// newWriter means the type can be read but not written.
type codec struct {
	compression CompressionType
	newReader   openReader
	newWriter   openWriter
}

func noopClose() error { return nil }

// codecs holds every supported compression type
var codecs = map[CompressionType]codec{
	CompressionNone: {
		compression: CompressionNone,
		newReader: func(r io.Reader) (io.Reader, func() error, error) {
			return r, noopClose, nil
		},
		newWriter: func(w io.Writer) (io.Writer, func() error, error) {
			return w, noopClose, nil
		},
	},
	CompressionGZ: {
		compression: CompressionGZ,
		newReader: func(r io.Reader) (io.Reader, func() error, error) {
			dec, err := gzip.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return dec, dec.Close, nil
		},
		newWriter: func(w io.Writer) (io.Writer, func() error, error) {
			enc := gzip.NewWriter(w)
			return enc, enc.Close, nil
		},
	},
	CompressionBZ2: {
		compression: CompressionBZ2,
		newReader: func(r io.Reader) (io.Reader, func() error, error) {
			return bzip2.NewReader(r), noopClose, nil
		},
	},
	CompressionXZ: {
		compression: CompressionXZ,
		newReader: func(r io.Reader) (io.Reader, func() error, error) {
			dec, err := xz.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return dec, noopClose, nil
		},
		newWriter: func(w io.Writer) (io.Writer, func() error, error) {
			enc, err := xz.NewWriter(w)
			if err != nil {
				return nil, nil, err
			}
			return enc, enc.Close, nil
		},
	},
	CompressionZSTD: {
		compression: CompressionZSTD,
		newReader: func(r io.Reader) (io.Reader, func() error, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return dec, func() error {
				dec.Close()
				return nil
			}, nil
		},
		newWriter: func(w io.Writer) (io.Writer, func() error, error) {
			enc, err := zstd.NewWriter(w)
			if err != nil {
				return nil, nil, err
			}
			return enc, enc.Close, nil
		},
	},
}

// NewCompressionHandler returns the handler of compression. Handlers of
// unknown types fail on every Create call with ErrUnsupportedFormat.
func NewCompressionHandler(compression CompressionType) CompressionHandler {
	if c, ok := codecs[compression]; ok {
		return c
	}
	return codec{compression: compression}
}

func (c codec) CreateReader(r io.Reader) (io.Reader, func() error, error) {
	if c.newReader == nil {
		return nil, nil, fmt.Errorf("%w: compression %v", ErrUnsupportedFormat, c.compression)
	}
	dec, closeDec, err := c.newReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %v reader: %w", c.compression, err)
	}
	return dec, closeDec, nil
}

func (c codec) CreateWriter(w io.Writer) (io.Writer, func() error, error) {
	if c.newWriter == nil {
		return nil, nil, fmt.Errorf("%w: cannot write %v compression", ErrUnsupportedFormat, c.compression)
	}
	enc, flush, err := c.newWriter(w)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %v writer: %w", c.compression, err)
	}
	return enc, flush, nil
}

func (c codec) Extension() string {
	return c.compression.Extension()
}

// DetectCompressionType returns the compression named by the last extension of path
func DetectCompressionType(path string) CompressionType {
	lower := strings.ToLower(path)
	for _, c := range []CompressionType{CompressionGZ, CompressionBZ2, CompressionXZ, CompressionZSTD} {
		if strings.HasSuffix(lower, c.Extension()) {
			return c
		}
	}
	return CompressionNone
}

// RemoveCompressionExtension strips a trailing compression extension from path
func RemoveCompressionExtension(path string) string {
	ext := DetectCompressionType(path).Extension()
	return path[:len(path)-len(ext)]
}

// ExportOptionsForPath derives the export format and compression from the
// extensions of path, e.g. "out.tsv.zst". It returns false when the format
// extension is missing or unknown.
func ExportOptionsForPath(path string) (ExportOptions, bool) {
	compression := DetectCompressionType(path)
	ext := strings.ToLower(filepath.Ext(RemoveCompressionExtension(path)))

	format, ok := model.ParseOutputFormat(ext)
	if !ok || ext == "" {
		return NewExportOptions(), false
	}
	return NewExportOptions().WithFormat(format).WithCompression(compression), true
}

// createWriterForFile creates path and returns a writer compressing into it.
// The returned function flushes the encoder, syncs and closes the file. The
// file is removed when no encoder can be created.
func createWriterForFile(path string, compression CompressionType) (io.Writer, func() error, error) {
	f, err := os.Create(path) //nolint:gosec // exporting to a caller-chosen path is the purpose
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file: %w", err)
	}

	w, flush, err := NewCompressionHandler(compression).CreateWriter(f)
	if err != nil {
		return nil, nil, errors.Join(err, f.Close(), os.Remove(path))
	}

	return w, func() error {
		flushErr := flush()
		syncErr := f.Sync()
		return errors.Join(flushErr, syncErr, f.Close())
	}, nil
}

// OpenFile opens path and returns a reader decompressing it according to its extension
func OpenFile(path string) (io.Reader, func() error, error) {
	f, err := os.Open(path) //nolint:gosec // reading a caller-chosen path is the purpose
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	r, closeDec, err := NewCompressionHandler(DetectCompressionType(path)).CreateReader(f)
	if err != nil {
		return nil, nil, errors.Join(err, f.Close())
	}

	return r, func() error {
		return errors.Join(closeDec(), f.Close())
	}, nil
}
