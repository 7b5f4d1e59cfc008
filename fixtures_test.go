package peheader

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/lunixbochs/struc"
	"github.com/stretchr/testify/require"
)

// testImage describes a synthetic PE header chain. build packs it with struc,
// so the encoder used by the tests is independent of the decoder.
type testImage struct {
	dos       DOSHeader
	stub      []byte
	signature uint32
	file      FileHeader
	optMagic  uint16
	opt32     *OptionalHeader32
	opt64     *OptionalHeader64
	dirs      []DataDirectory
}

func newTestImage() *testImage {
	return &testImage{
		dos:       DOSHeader{Magic: IMAGE_DOS_SIGNATURE, Lfanew: IMAGE_DOS_HEADER_SIZE},
		signature: IMAGE_NT_SIGNATURE,
		file: FileHeader{
			Machine:              IMAGE_FILE_MACHINE_I386,
			SizeOfOptionalHeader: IMAGE_OPTIONAL_HEADER32_SIZE + IMAGE_DATA_DIRECTORY_SIZE,
			Characteristics:      0x0102,
		},
		optMagic: IMAGE_NT_OPTIONAL_HDR32_MAGIC,
		opt32: &OptionalHeader32{
			MajorLinkerVersion:  14,
			AddressOfEntryPoint: 0x1234,
			ImageBase:           0x400000,
			SectionAlignment:    0x1000,
			FileAlignment:       0x200,
			Subsystem:           3,
			NumberOfRvaAndSizes: 1,
		},
		dirs: []DataDirectory{{VirtualAddress: 0x1000, Size: 0x200}},
	}
}

func (ti *testImage) withStub(stub []byte) *testImage {
	ti.stub = stub
	ti.dos.Lfanew = int32(IMAGE_DOS_HEADER_SIZE + len(stub))
	return ti
}

func (ti *testImage) as64() *testImage {
	ti.file.Machine = IMAGE_FILE_MACHINE_AMD64
	ti.file.SizeOfOptionalHeader = IMAGE_OPTIONAL_HEADER64_SIZE + IMAGE_DATA_DIRECTORY_SIZE
	ti.optMagic = IMAGE_NT_OPTIONAL_HDR64_MAGIC
	ti.opt32 = nil
	ti.opt64 = &OptionalHeader64{
		MajorLinkerVersion:  14,
		AddressOfEntryPoint: 0x1234,
		ImageBase:           0x140000000,
		SectionAlignment:    0x1000,
		FileAlignment:       0x200,
		Subsystem:           3,
		SizeOfStackReserve:  0x100000,
		NumberOfRvaAndSizes: 1,
	}
	return ti
}

func (ti *testImage) withDirs(n int) *testImage {
	ti.dirs = make([]DataDirectory, n)
	for i := range ti.dirs {
		ti.dirs[i] = DataDirectory{VirtualAddress: uint32(0x1000 * (i + 1)), Size: uint32(0x10 * (i + 1))}
	}
	if ti.opt64 != nil {
		ti.opt64.NumberOfRvaAndSizes = uint32(n)
	} else {
		ti.opt32.NumberOfRvaAndSizes = uint32(n)
	}
	return ti
}

func pack(t *testing.T, buf *bytes.Buffer, v interface{}) {
	t.Helper()
	require.NoError(t, struc.PackWithOptions(buf, v, &struc.Options{Order: binary.LittleEndian}))
}

func (ti *testImage) build(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	pack(t, &buf, &ti.dos)
	buf.Write(ti.stub)
	ti.buildNT(t, &buf)
	return buf.Bytes()
}

// buildNT writes only the NT headers, starting at the signature.
func (ti *testImage) buildNT(t *testing.T, buf *bytes.Buffer) {
	t.Helper()
	require.NoError(t, binary.Write(buf, binary.LittleEndian, ti.signature))
	pack(t, buf, &ti.file)
	require.NoError(t, binary.Write(buf, binary.LittleEndian, ti.optMagic))
	switch {
	case ti.opt32 != nil:
		pack(t, buf, ti.opt32)
	case ti.opt64 != nil:
		pack(t, buf, ti.opt64)
	}
	for i := range ti.dirs {
		pack(t, buf, &ti.dirs[i])
	}
}
