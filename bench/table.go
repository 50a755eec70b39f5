package bench

import (
	"fmt"
	"io"
)

// displayName maps codec names to table row titles.
func displayName(name string) string {
	switch name {
	case "binary":
		return "Binary"
	case "go-json", "json":
		return "JSON"
	case "json-pretty":
		return "JSON (pretty)"
	case "cbor":
		return "CBOR"
	case "msgpack":
		return "MessagePack"
	default:
		return name
	}
}

// WriteSizeTable writes one row per format with the serialized and
// compressed sizes, each as absolute bytes and as a percentage of the raw
// input corpus.
func WriteSizeTable(w io.Writer, results []Result, totalInputBytes int) {
	fmt.Fprintln(w, "+---------------+-------------------+-------------------+-------------------+-------------------+")
	fmt.Fprintln(w, "|    Format     |       Bytes       |      gzip -6      |       zstd        |        lz4        |")
	fmt.Fprintln(w, "+---------------+-----------+-------+-----------+-------+-----------+-------+-----------+-------+")
	for _, r := range results {
		fmt.Fprintf(w, "| %-13s | %9d | %.02f%% | %9d | %.02f%% | %9d | %.02f%% | %9d | %.02f%% |\n",
			displayName(r.Name),
			r.Serialized.Bytes, percent(r.Serialized.Bytes, totalInputBytes),
			r.Gzip.Bytes, percent(r.Gzip.Bytes, totalInputBytes),
			r.Zstd.Bytes, percent(r.Zstd.Bytes, totalInputBytes),
			r.LZ4.Bytes, percent(r.LZ4.Bytes, totalInputBytes),
		)
	}
	fmt.Fprintln(w, "+---------------+-----------+-------+-----------+-------+-----------+-------+-----------+-------+")
}

// WriteTimeTable writes one row per format with encode and decode times for
// the serialization itself and for each compressor.
func WriteTimeTable(w io.Writer, results []Result) {
	fmt.Fprintln(w, "+---------------+---------+---------+---------+---------+---------+---------+---------+---------+")
	fmt.Fprintln(w, "|               |   enc   |   dec   |   enc   |   dec   |   enc   |   dec   |   enc   |   dec   |")
	fmt.Fprintln(w, "+---------------+---------+---------+---------+---------+---------+---------+---------+---------+")
	for _, r := range results {
		fmt.Fprintf(w, "| %-13s |%5d ms |%5d ms |%5d ms |%5d ms |%5d ms |%5d ms |%5d ms |%5d ms |\n",
			displayName(r.Name),
			r.Serialized.EncodeTime.Milliseconds(), r.Serialized.DecodeTime.Milliseconds(),
			r.Gzip.EncodeTime.Milliseconds(), r.Gzip.DecodeTime.Milliseconds(),
			r.Zstd.EncodeTime.Milliseconds(), r.Zstd.DecodeTime.Milliseconds(),
			r.LZ4.EncodeTime.Milliseconds(), r.LZ4.DecodeTime.Milliseconds(),
		)
	}
	fmt.Fprintln(w, "+---------------+---------+---------+---------+---------+---------+---------+---------+---------+")
}

func percent(part, total int) float64 {
	return float64(part) * 100.0 / float64(total)
}
