package peheader

import (
	"fmt"

	"github.com/ianatha/go-peheader/internal/cursor"
)

const (
	stageDOSHeader      = "dos header"
	stageDOSStub        = "dos stub"
	stageNTHeaders      = "nt headers"
	stageFileHeader     = "file header"
	stageOptionalHeader = "optional header"
	stageDataDirectory  = "data directory"
)

// fieldReader reads consecutive fields of one structure. After the first
// failure every further call is a no-op and err holds the failure.
type fieldReader struct {
	c     *cursor.Cursor
	stage string
	err   error
}

func (r *fieldReader) fail(off int, err error) {
	r.err = decodeErr(r.stage, off, err)
}

func (r *fieldReader) u16(dst ...*uint16) {
	for _, p := range dst {
		if r.err != nil {
			return
		}
		off := r.c.Offset()
		v, err := r.c.ReadU16()
		if err != nil {
			r.fail(off, err)
			return
		}
		*p = v
	}
}

func (r *fieldReader) u16s(dst []uint16) {
	if r.err != nil {
		return
	}
	off := r.c.Offset()
	if err := r.c.ReadU16s(dst); err != nil {
		r.fail(off, err)
	}
}

func (r *fieldReader) i32(dst *int32) {
	if r.err != nil {
		return
	}
	off := r.c.Offset()
	v, err := r.c.ReadI32()
	if err != nil {
		r.fail(off, err)
		return
	}
	*dst = v
}

func (r *fieldReader) record(v interface{}) {
	if r.err != nil {
		return
	}
	off := r.c.Offset()
	if err := r.c.Unpack(v); err != nil {
		r.fail(off, err)
	}
}

// readDOSHeader decodes the 64-byte MS-DOS header. The magic is checked
// before anything else is read.
func readDOSHeader(c *cursor.Cursor) (*DOSHeader, error) {
	var h DOSHeader
	r := &fieldReader{c: c, stage: stageDOSHeader}

	start := c.Offset()
	r.u16(&h.Magic)
	if r.err != nil {
		return nil, r.err
	}
	if h.Magic != IMAGE_DOS_SIGNATURE {
		return nil, decodeErr(stageDOSHeader, start, fmt.Errorf("%w: got 0x%04x", ErrInvalidMagic, h.Magic))
	}

	r.u16(&h.Cblp, &h.Cp, &h.Crlc, &h.Cparhdr, &h.Minalloc, &h.Maxalloc, &h.Ss,
		&h.Sp, &h.Csum, &h.Ip, &h.Cs, &h.Lfarlc, &h.Ovno)
	r.u16s(h.Res[:])
	r.u16(&h.Oemid, &h.Oeminfo)
	r.u16s(h.Res2[:])
	r.i32(&h.Lfanew)
	if r.err != nil {
		return nil, r.err
	}
	return &h, nil
}

// readDOSStub copies the bytes between the end of the DOS header and
// e_lfanew. An e_lfanew pointing into the DOS header is a CorruptLayout.
func readDOSStub(c *cursor.Cursor, h *DOSHeader) ([]byte, error) {
	start := c.Offset()
	n := int64(h.Lfanew) - IMAGE_DOS_HEADER_SIZE
	if n < 0 {
		return nil, decodeErr(stageDOSStub, start,
			fmt.Errorf("%w: e_lfanew 0x%x is inside the %d-byte dos header", ErrCorruptLayout, h.Lfanew, IMAGE_DOS_HEADER_SIZE))
	}
	if n > int64(c.Len()) {
		return nil, decodeErr(stageDOSStub, start,
			fmt.Errorf("%w: stub of %d bytes, have %d", ErrUnexpectedEnd, n, c.Len()))
	}
	stub, err := c.ReadBytes(int(n))
	if err != nil {
		return nil, decodeErr(stageDOSStub, start, err)
	}
	return stub, nil
}

// readNTHeaders decodes the PE signature, the file header and the optional
// header. The cursor must be positioned at e_lfanew.
func readNTHeaders(c *cursor.Cursor) (*NTHeaders, error) {
	var nt NTHeaders

	start := c.Offset()
	sig, err := c.ReadU32()
	if err != nil {
		return nil, decodeErr(stageNTHeaders, start, err)
	}
	if sig != IMAGE_NT_SIGNATURE {
		return nil, decodeErr(stageNTHeaders, start, fmt.Errorf("%w: got 0x%08x", ErrInvalidSignature, sig))
	}
	nt.Signature = sig

	r := &fieldReader{c: c, stage: stageFileHeader}
	r.record(&nt.FileHeader)
	if r.err != nil {
		return nil, r.err
	}

	oh, err := readOptionalHeader(c)
	if err != nil {
		return nil, err
	}
	nt.OptionalHeader = *oh
	return &nt, nil
}

// readOptionalHeader selects the PE32 or PE32+ layout from the magic, reads
// exactly that layout, then reads NumberOfRvaAndSizes data directories.
func readOptionalHeader(c *cursor.Cursor) (*OptionalHeader, error) {
	oh := &OptionalHeader{}
	r := &fieldReader{c: c, stage: stageOptionalHeader}

	start := c.Offset()
	r.u16(&oh.Magic)
	if r.err != nil {
		return nil, r.err
	}
	switch oh.Magic {
	case IMAGE_NT_OPTIONAL_HDR32_MAGIC:
		oh.PE32 = &OptionalHeader32{}
		r.record(oh.PE32)
	case IMAGE_NT_OPTIONAL_HDR64_MAGIC:
		oh.PE32Plus = &OptionalHeader64{}
		r.record(oh.PE32Plus)
	default:
		return nil, decodeErr(stageOptionalHeader, start, fmt.Errorf("%w: magic 0x%04x", ErrUnsupportedOptionalHeader, oh.Magic))
	}
	if r.err != nil {
		return nil, r.err
	}

	count := oh.NumberOfRvaAndSizes()
	if count > IMAGE_NUMBEROF_DIRECTORY_ENTRIES {
		// NumberOfRvaAndSizes is the last field of both layouts.
		return nil, decodeErr(stageDataDirectory, c.Offset()-4,
			fmt.Errorf("%w: %d entries, at most %d", ErrDirectoryCountOutOfRange, count, IMAGE_NUMBEROF_DIRECTORY_ENTRIES))
	}

	oh.DataDirectory = make([]DataDirectory, count)
	r.stage = stageDataDirectory
	for i := range oh.DataDirectory {
		r.record(&oh.DataDirectory[i])
	}
	if r.err != nil {
		return nil, r.err
	}
	return oh, nil
}
