package wflz

import "errors"

var (
	// ErrNoStream indicates the data does not start with a chunk or block header.
	ErrNoStream = errors.New("no compressed stream header")
	// ErrTruncated indicates a header or payload runs past the end of the data.
	ErrTruncated = errors.New("compressed stream truncated")
	// ErrMissingBlock indicates the chunk header promised more blocks than were found.
	ErrMissingBlock = errors.New("chunk block not found")
	// ErrUnknownBlockMagic indicates an unknown block magic.
	ErrUnknownBlockMagic = errors.New("unknown block magic")
	// ErrBadDistance indicates a match refers to data before the block start.
	ErrBadDistance = errors.New("match distance out of range")
	// ErrDecodeOverrun indicates decoded data overruns the declared size.
	ErrDecodeOverrun = errors.New("decoded data overruns declared size")
	// ErrDecodedSizeMismatch indicates decoded size differs from the declared size.
	ErrDecodedSizeMismatch = errors.New("decoded size mismatch")
	// ErrLZ4Decode indicates LZ4 block decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
)
