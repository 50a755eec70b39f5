package bench

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gendx/disruptdb/persist"
)

func testFormats() []persist.FormatResult {
	// Repetitive payloads so every compressor actually shrinks them.
	payload := bytes.Repeat([]byte(`{"cause":"TRAVAUX","severity":"BLOQUANTE"}`), 200)
	return []persist.FormatResult{
		{Name: "binary", Filename: "binary.db", Data: payload},
		{Name: "go-json", Filename: "json.db", Data: payload},
	}
}

func TestRun_RoundTrips(t *testing.T) {
	results, err := Run(testFormats())
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		require.Positive(t, r.Serialized.Bytes)
		require.Less(t, r.Gzip.Bytes, r.Serialized.Bytes)
		require.Less(t, r.Zstd.Bytes, r.Serialized.Bytes)
		require.Less(t, r.LZ4.Bytes, r.Serialized.Bytes)
	}
}

func TestCompressors_RoundTrip(t *testing.T) {
	data := []byte("disruptdb compresses transit disruption corpora, corpora, corpora")

	tests := []struct {
		name       string
		compress   func([]byte) ([]byte, error)
		decompress func([]byte) ([]byte, error)
	}{
		{"gzip", gzipCompress, gzipDecompress},
		{"zstd", zstdCompress, zstdDecompress},
		{"lz4", lz4Compress, lz4Decompress},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			compressed, err := tc.compress(data)
			require.NoError(t, err)
			decompressed, err := tc.decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, data, decompressed)
		})
	}
}

func TestWriteTables(t *testing.T) {
	results, err := Run(testFormats())
	require.NoError(t, err)

	var sizes strings.Builder
	WriteSizeTable(&sizes, results, 100000)
	require.Contains(t, sizes.String(), "| Binary ")
	require.Contains(t, sizes.String(), "| JSON ")
	require.Contains(t, sizes.String(), "gzip -6")

	var times strings.Builder
	WriteTimeTable(&times, results)
	require.Contains(t, times.String(), " ms |")
	// Both tables keep the 13-character title column aligned.
	for _, line := range strings.Split(strings.TrimSpace(times.String()), "\n") {
		require.Len(t, line, 97)
	}
}
