package bench

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/gendx/disruptdb/persist"
)

var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// CodecStats holds the measured size and timings of one encoding pass.
type CodecStats struct {
	Bytes      int
	EncodeTime time.Duration
	DecodeTime time.Duration
}

// Result holds one serialized format's stats plus its compressed variants.
type Result struct {
	Name       string
	Serialized CodecStats
	Gzip       CodecStats
	Zstd       CodecStats
	LZ4        CodecStats
}

// Run compresses every serialized format with each compressor, verifying
// each round trip byte for byte.
func Run(formats []persist.FormatResult) ([]Result, error) {
	results := make([]Result, 0, len(formats))
	for _, f := range formats {
		gzipStats, err := roundTrip(f.Data, gzipCompress, gzipDecompress)
		if err != nil {
			return nil, fmt.Errorf("bench: gzip %s: %w", f.Name, err)
		}
		zstdStats, err := roundTrip(f.Data, zstdCompress, zstdDecompress)
		if err != nil {
			return nil, fmt.Errorf("bench: zstd %s: %w", f.Name, err)
		}
		lz4Stats, err := roundTrip(f.Data, lz4Compress, lz4Decompress)
		if err != nil {
			return nil, fmt.Errorf("bench: lz4 %s: %w", f.Name, err)
		}

		results = append(results, Result{
			Name: f.Name,
			Serialized: CodecStats{
				Bytes:      len(f.Data),
				EncodeTime: f.EncodeTime,
				DecodeTime: f.DecodeTime,
			},
			Gzip: gzipStats,
			Zstd: zstdStats,
			LZ4:  lz4Stats,
		})
	}
	return results, nil
}

func roundTrip(data []byte, compress, decompress func([]byte) ([]byte, error)) (CodecStats, error) {
	start := time.Now()
	compressed, err := compress(data)
	encodeTime := time.Since(start)
	if err != nil {
		return CodecStats{}, err
	}

	start = time.Now()
	decompressed, err := decompress(compressed)
	decodeTime := time.Since(start)
	if err != nil {
		return CodecStats{}, err
	}

	if !bytes.Equal(decompressed, data) {
		return CodecStats{}, fmt.Errorf("decompressed bytes differ from input")
	}

	return CodecStats{
		Bytes:      len(compressed),
		EncodeTime: encodeTime,
		DecodeTime: decodeTime,
	}, nil
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, 6)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func zstdCompress(data []byte) ([]byte, error) {
	return zstdEncoder.EncodeAll(data, nil), nil
}

func zstdDecompress(data []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(data, nil)
}

func lz4Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lz4Decompress(data []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
}
