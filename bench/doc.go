// Package bench measures how well each serialized database format
// compresses. Every format's bytes are run through gzip, zstd and lz4
// in-process, decompressed back and verified, and the sizes and timings are
// rendered as ASCII tables.
package bench
