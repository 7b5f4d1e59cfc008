package peheader

import (
	"errors"
	"fmt"

	"github.com/ianatha/go-peheader/internal/cursor"
)

var (
	// ErrUnexpectedEnd indicates the input ended inside a structure.
	ErrUnexpectedEnd = cursor.ErrUnexpectedEnd
	// ErrInvalidMagic indicates the DOS header does not start with "MZ".
	ErrInvalidMagic = errors.New("invalid magic")
	// ErrCorruptLayout indicates e_lfanew points inside or before the DOS header.
	ErrCorruptLayout = errors.New("corrupt layout")
	// ErrInvalidSignature indicates the NT headers do not start with "PE\0\0".
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrUnsupportedOptionalHeader indicates an optional header magic other
	// than PE32 or PE32+.
	ErrUnsupportedOptionalHeader = errors.New("unsupported optional header format")
	// ErrDirectoryCountOutOfRange indicates NumberOfRvaAndSizes exceeds
	// IMAGE_NUMBEROF_DIRECTORY_ENTRIES.
	ErrDirectoryCountOutOfRange = errors.New("directory count out of range")
	// ErrTooLarge indicates the input exceeds the caller's size limit.
	ErrTooLarge = errors.New("input exceeds size limit")
)

// DecodeError records which stage failed and the buffer offset it failed at.
type DecodeError struct {
	Stage  string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("pe: %s at offset 0x%x: %v", e.Stage, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var kinds = []struct {
	err  error
	name string
}{
	{ErrUnexpectedEnd, "UnexpectedEnd"},
	{ErrInvalidMagic, "InvalidMagic"},
	{ErrCorruptLayout, "CorruptLayout"},
	{ErrInvalidSignature, "InvalidSignature"},
	{ErrUnsupportedOptionalHeader, "UnsupportedOptionalHeaderFormat"},
	{ErrDirectoryCountOutOfRange, "DirectoryCountOutOfRange"},
	{ErrTooLarge, "TooLarge"},
}

// Kind returns a stable name for the failure class of err, or "" when err
// is not one of this package's errors.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}

func decodeErr(stage string, offset int, err error) error {
	return &DecodeError{Stage: stage, Offset: offset, Err: err}
}
