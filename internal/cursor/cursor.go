// Package cursor provides a bounds-checked, position-tracking reader over an
// in-memory buffer. All multi-byte reads are little-endian.
package cursor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/lunixbochs/struc"
)

var (
	// ErrUnexpectedEnd indicates fewer bytes remain than a read requires.
	ErrUnexpectedEnd = errors.New("unexpected end of data")
	// ErrNegativeLength indicates a read of a negative number of bytes.
	ErrNegativeLength = errors.New("negative read length")
)

var littleEndian = &struc.Options{Order: binary.LittleEndian}

// Cursor reads from buf starting at off. off never exceeds len(buf), and a
// failed read leaves off unchanged.
type Cursor struct {
	buf []byte
	off int
}

// New returns a Cursor positioned at the start of b.
func New(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int { return c.off }

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return len(c.buf) - c.off }

// take returns the next n bytes without copying and advances past them.
func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}
	if n > c.Len() {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrUnexpectedEnd, n, c.Len())
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// ReadU16 reads a little-endian uint16.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadI32 reads a little-endian two's-complement int32.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// ReadBytes returns a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadU16s fills dst with len(dst) consecutive words. Either all of dst is
// filled or the cursor does not move.
func (c *Cursor) ReadU16s(dst []uint16) error {
	b, err := c.take(2 * len(dst))
	if err != nil {
		return err
	}
	for i := range dst {
		dst[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return nil
}

// Unpack decodes a fixed-size struc record into v. The record size is checked
// against the remaining input before anything is consumed.
func (c *Cursor) Unpack(v interface{}) error {
	size, err := struc.Sizeof(v)
	if err != nil {
		return err
	}
	b, err := c.take(size)
	if err != nil {
		return err
	}
	if err := struc.UnpackWithOptions(bytes.NewReader(b), v, littleEndian); err != nil {
		c.off -= size
		return err
	}
	return nil
}
