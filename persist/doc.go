// Package persist writes a compacted database to disk in every supported
// format and proves each file decodes back to the database that was written.
//
// The hand-rolled binary format is the densest of the formats: a fixed
// header (magic, version, flags), a little-endian payload with optional zstd
// compression, and a CRC32-Castagnoli trailer over everything before it.
// The remaining formats delegate to the codec package.
package persist
