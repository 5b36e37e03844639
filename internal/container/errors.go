package container

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFileIO indicates the input could not be read.
	ErrFileIO = errors.New("file io")
	// ErrBadSignature indicates an unrecognized container.
	ErrBadSignature = errors.New("bad signature")
	// ErrOutOfBounds indicates offset arithmetic past the end of the buffer.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrUnknownRecordType indicates an unrecognized texture or node type tag.
	ErrUnknownRecordType = errors.New("unknown record type")
	// ErrMalformedTree indicates the node tree exceeds the recursion limit.
	ErrMalformedTree = errors.New("malformed tree")
	// ErrDecodeFailure indicates a decompression or block-decode collaborator failed.
	ErrDecodeFailure = errors.New("decode failure")
)

// Error describes a failure at one record of one file.
type Error struct {
	Kind   error
	File   string
	Offset int64
	Record string
	Tag    uint32
	HasTag bool
	Err    error
}

// NewError builds an *Error of the given kind. err may be nil.
func NewError(kind error, file string, offset int64, record string, err error) *Error {
	return &Error{Kind: kind, File: file, Offset: offset, Record: record, Err: err}
}

// WithTag records the type tag that was being decoded.
func (e *Error) WithTag(tag uint32) *Error {
	e.Tag = tag
	e.HasTag = true
	return e
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.Error())
	fmt.Fprintf(&sb, " at 0x%x", e.Offset)
	if e.Record != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Record)
		if e.HasTag {
			fmt.Fprintf(&sb, " tag %d", e.Tag)
		}
		sb.WriteString(")")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Recoverable reports whether err only affects a single record, so the
// caller may skip that record and keep going with the rest of the file.
func Recoverable(err error) bool {
	return errors.Is(err, ErrUnknownRecordType) || errors.Is(err, ErrDecodeFailure)
}
