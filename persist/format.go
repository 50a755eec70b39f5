package persist

import "errors"

const (
	// MagicNumber identifies disruptdb binary files (ASCII: "DDB0")
	MagicNumber = 0x44444230
	// Version is the current file format version (v1.0)
	Version = 0x00010000

	// FlagZstd marks a zstd-compressed payload.
	FlagZstd = 1 << 0

	// headerSize is magic + version + flags, trailerSize the CRC32C.
	headerSize  = 12
	trailerSize = 4
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrChecksum       = errors.New("checksum mismatch")
	ErrTruncated      = errors.New("truncated file")
	ErrInvalidValue   = errors.New("value is not a database")
)
