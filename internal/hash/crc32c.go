package hash

import (
	"hash"
	"hash/crc32"
)

// The Castagnoli table is built once at init; MakeTable per checksum would
// dominate the cost for small payloads.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data in one shot.
// The stdlib dispatches to SSE4.2 / ARM CRC instructions when present.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a streaming CRC32-Castagnoli hash.Hash32 for callers
// that checksum data in chunks.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}
