package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"golang.org/x/text/encoding/charmap"
)

// Buffer is the immutable contents of one input file.
// All offsets are absolute positions into it and all integers are little-endian.
type Buffer struct {
	name string
	data []byte
}

// Open reads a whole file into a Buffer.
func Open(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewError(ErrFileIO, path, 0, "", err)
	}
	return &Buffer{name: path, data: data}, nil
}

// New wraps data already in memory. data must not be modified afterwards.
func New(name string, data []byte) *Buffer {
	return &Buffer{name: name, data: data}
}

// Name returns the file name the buffer was loaded from.
func (b *Buffer) Name() string { return b.name }

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int64 { return int64(len(b.data)) }

// Fail builds an *Error for this file.
func (b *Buffer) Fail(kind error, off int64, record string, err error) *Error {
	return NewError(kind, b.name, off, record, err)
}

// Check reports ErrOutOfBounds unless [off, off+n) lies inside the buffer.
func (b *Buffer) Check(off, n int64, record string) error {
	if off < 0 || n < 0 || off > b.Len() || n > b.Len()-off {
		return b.Fail(ErrOutOfBounds, off, record, fmt.Errorf("need %d bytes, have %d", n, max(b.Len()-off, 0)))
	}
	return nil
}

// Slice returns n bytes at off without copying.
func (b *Buffer) Slice(off, n int64, record string) ([]byte, error) {
	if err := b.Check(off, n, record); err != nil {
		return nil, err
	}
	return b.data[off : off+n : off+n], nil
}

// Tail returns everything from off to the end of the buffer.
func (b *Buffer) Tail(off int64, record string) ([]byte, error) {
	return b.Slice(off, b.Len()-off, record)
}

// Read copies the packed record at off into rec, which must be a pointer to a
// fixed-size value. The record name is used for diagnostics.
func (b *Buffer) Read(off int64, record string, rec any) error {
	size := binary.Size(rec)
	if size < 0 {
		return fmt.Errorf("container: %s is not a fixed-size record", record)
	}
	raw, err := b.Slice(off, int64(size), record)
	if err != nil {
		return err
	}
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, rec); err != nil {
		return b.Fail(ErrOutOfBounds, off, record, err)
	}
	return nil
}

// Uint32 reads a little-endian uint32 at off.
func (b *Buffer) Uint32(off int64, record string) (uint32, error) {
	raw, err := b.Slice(off, 4, record)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(raw), nil
}

// Uint64 reads a little-endian uint64 at off.
func (b *Buffer) Uint64(off int64, record string) (uint64, error) {
	raw, err := b.Slice(off, 8, record)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(raw), nil
}

// Offset converts an unsigned offset field into a checked absolute position.
func (b *Buffer) Offset(v uint64, record string) (int64, error) {
	if v > math.MaxInt64 || int64(v) > b.Len() {
		return 0, b.Fail(ErrOutOfBounds, int64(min(v, math.MaxInt64)), record, fmt.Errorf("offset 0x%x past end 0x%x", v, b.Len()))
	}
	return int64(v), nil
}

// OffsetTable reads count consecutive u64 offsets starting at off.
func (b *Buffer) OffsetTable(off int64, count uint64, record string) ([]int64, error) {
	if count > uint64(b.Len())/8 {
		return nil, b.Fail(ErrOutOfBounds, off, record, fmt.Errorf("%d offsets cannot fit", count))
	}
	if err := b.Check(off, int64(count)*8, record); err != nil {
		return nil, err
	}
	out := make([]int64, count)
	for i := range out {
		v := binary.LittleEndian.Uint64(b.data[off+int64(i)*8:])
		abs, err := b.Offset(v, record)
		if err != nil {
			return nil, err
		}
		out[i] = abs
	}
	return out, nil
}

// CString reads a NUL-terminated Windows-1252 string at off and returns it as UTF-8.
// A string running to the end of the buffer without a terminator is accepted.
func (b *Buffer) CString(off int64, record string) (string, error) {
	raw, err := b.Tail(off, record)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", b.Fail(ErrDecodeFailure, off, record, err)
	}
	return string(decoded), nil
}

// HasPrefix reports whether the buffer starts with sig.
func (b *Buffer) HasPrefix(sig string) bool {
	return bytes.HasPrefix(b.data, []byte(sig))
}
