package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	disruptdb "github.com/gendx/disruptdb"
	"github.com/gendx/disruptdb/codec"
)

// FormatResult describes one serialized database file, with the encoded
// bytes kept around so compression benchmarks can reuse them.
type FormatResult struct {
	Name       string
	Filename   string
	Data       []byte
	EncodeTime time.Duration
	DecodeTime time.Duration
}

// Options configures SaveAll.
type Options struct {
	Logger   *disruptdb.Logger
	Compress bool
}

// Option modifies Options.
type Option func(*Options)

// WithLogger sets the logger used during saving.
func WithLogger(logger *disruptdb.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithCompression enables zstd compression of the binary file's payload.
func WithCompression(compress bool) Option {
	return func(o *Options) { o.Compress = compress }
}

// formats returns the codec list with output filenames, binary first.
func formats(compress bool) []struct {
	filename string
	codec    codec.Codec
} {
	return []struct {
		filename string
		codec    codec.Codec
	}{
		{"binary.db", BinaryCodec{Compress: compress}},
		{"json.db", codec.GoJSON{}},
		{"json_pretty.db", codec.PrettyJSON{}},
		{"cbor.db", codec.CBOR{}},
		{"msgpack.db", codec.Msgpack{}},
	}
}

// SaveAll serializes the database into dir once per supported format and
// verifies every file by decoding it back and comparing against db. A
// verification failure means a codec bug and fails the whole save.
func SaveAll(ctx context.Context, db *disruptdb.Database, dir string, opts ...Option) ([]FormatResult, error) {
	options := Options{Logger: disruptdb.NoopLogger()}
	for _, opt := range opts {
		opt(&options)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("persist: create output dir: %w", err)
	}

	results := make([]FormatResult, 0, 5)
	for _, f := range formats(options.Compress) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := saveOne(db, dir, f.filename, f.codec)
		options.Logger.LogSave(ctx, f.codec.Name(), f.filename, len(result.Data), err)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func saveOne(db *disruptdb.Database, dir, filename string, c codec.Codec) (FormatResult, error) {
	start := time.Now()
	data, err := c.Marshal(db)
	encodeTime := time.Since(start)
	if err != nil {
		return FormatResult{}, fmt.Errorf("persist: encode %s: %w", c.Name(), err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return FormatResult{}, fmt.Errorf("persist: write %s: %w", path, err)
	}

	start = time.Now()
	decoded := disruptdb.New()
	if err := c.Unmarshal(data, decoded); err != nil {
		return FormatResult{}, fmt.Errorf("persist: decode %s: %w", c.Name(), err)
	}
	decodeTime := time.Since(start)

	if !db.Equal(decoded) {
		return FormatResult{}, fmt.Errorf("persist: %s: %w", c.Name(), disruptdb.ErrRoundTrip)
	}

	return FormatResult{
		Name:       c.Name(),
		Filename:   filename,
		Data:       data,
		EncodeTime: encodeTime,
		DecodeTime: decodeTime,
	}, nil
}

// Load reads one serialized database file back, selecting the codec by name.
func Load(path, codecName string) (*disruptdb.Database, error) {
	var c codec.Codec
	if codecName == "binary" {
		c = BinaryCodec{}
	} else {
		byName, ok := codec.ByName(codecName)
		if !ok {
			return nil, fmt.Errorf("persist: unknown codec %q", codecName)
		}
		c = byName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("persist: read %s: %w", path, err)
	}

	db := disruptdb.New()
	if err := c.Unmarshal(data, db); err != nil {
		return nil, err
	}
	return db, nil
}
