// Package hash provides fast, hardware-accelerated hashing utilities for
// data integrity.
//
// All file checksums use CRC32-Castagnoli (CRC32C): hardware accelerated on
// x86 (SSE4.2) and ARM (CRC extension), with better error detection than
// CRC32-IEEE, and the same polynomial used by iSCSI, Btrfs and RocksDB.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
package hash
