package peheader

// The structures here were taken from "Microsoft Portable Executable and
// Common Object File Format Specification". Every record is little-endian
// and its size follows from the field list below.

const (
	IMAGE_DOS_SIGNATURE              = 0x5A4D     // MZ
	IMAGE_NT_SIGNATURE               = 0x00004550 // PE\0\0
	IMAGE_NT_OPTIONAL_HDR32_MAGIC    = 0x10B
	IMAGE_NT_OPTIONAL_HDR64_MAGIC    = 0x20B
	IMAGE_NUMBEROF_DIRECTORY_ENTRIES = 16
)

const (
	IMAGE_DOS_HEADER_SIZE  = 14*2 + 4*2 + 2*2 + 10*2 + 4
	IMAGE_FILE_HEADER_SIZE = 2 + 2 + 4 + 4 + 4 + 2 + 2

	// Optional header sizes include the magic and exclude the data directories.
	IMAGE_OPTIONAL_HEADER32_SIZE = 2 + 2*1 + 9*4 + 6*2 + 4*4 + 2*2 + 4*4 + 2*4
	IMAGE_OPTIONAL_HEADER64_SIZE = 2 + 2*1 + 5*4 + 8 + 2*4 + 6*2 + 4*4 + 2*2 + 4*8 + 2*4
	IMAGE_DATA_DIRECTORY_SIZE    = 8
)

type ImageFileMachine = uint16

const (
	IMAGE_FILE_MACHINE_UNKNOWN ImageFileMachine = 0x0000
	IMAGE_FILE_MACHINE_I386    ImageFileMachine = 0x014c
	IMAGE_FILE_MACHINE_ARMNT   ImageFileMachine = 0x01c4
	IMAGE_FILE_MACHINE_IA64    ImageFileMachine = 0x0200
	IMAGE_FILE_MACHINE_AMD64   ImageFileMachine = 0x8664
	IMAGE_FILE_MACHINE_ARM64   ImageFileMachine = 0xaa64
)

// DOSHeader represents the IMAGE_DOS_HEADER structure.
type DOSHeader struct {
	Magic    uint16     `struc:"uint16,little"`     // Magic number
	Cblp     uint16     `struc:"uint16,little"`     // Bytes on last page of file
	Cp       uint16     `struc:"uint16,little"`     // Pages in file
	Crlc     uint16     `struc:"uint16,little"`     // Relocations
	Cparhdr  uint16     `struc:"uint16,little"`     // Size of header in paragraphs
	Minalloc uint16     `struc:"uint16,little"`     // Minimum extra paragraphs needed
	Maxalloc uint16     `struc:"uint16,little"`     // Maximum extra paragraphs needed
	Ss       uint16     `struc:"uint16,little"`     // Initial (relative) SS value
	Sp       uint16     `struc:"uint16,little"`     // Initial SP value
	Csum     uint16     `struc:"uint16,little"`     // Checksum
	Ip       uint16     `struc:"uint16,little"`     // Initial IP value
	Cs       uint16     `struc:"uint16,little"`     // Initial (relative) CS value
	Lfarlc   uint16     `struc:"uint16,little"`     // File address of relocation table
	Ovno     uint16     `struc:"uint16,little"`     // Overlay number
	Res      [4]uint16  `struc:"[4]uint16,little"`  // Reserved words
	Oemid    uint16     `struc:"uint16,little"`     // OEM identifier (for e_oeminfo)
	Oeminfo  uint16     `struc:"uint16,little"`     // OEM information; e_oemid specific
	Res2     [10]uint16 `struc:"[10]uint16,little"` // Reserved words
	Lfanew   int32      `struc:"int32,little"`      // File address of new exe header
}

// FileHeader represents the IMAGE_FILE_HEADER structure from
// http://msdn.microsoft.com/en-us/library/windows/desktop/ms680313(v=vs.85).aspx.
type FileHeader struct {
	Machine              ImageFileMachine `struc:"uint16,little"`
	NumberOfSections     uint16           `struc:"uint16,little"`
	TimeDateStamp        uint32           `struc:"uint32,little"`
	PointerToSymbolTable uint32           `struc:"uint32,little"`
	NumberOfSymbols      uint32           `struc:"uint32,little"`
	SizeOfOptionalHeader uint16           `struc:"uint16,little"`
	Characteristics      uint16           `struc:"uint16,little"`
}

// DataDirectory represents the IMAGE_DATA_DIRECTORY structure.
type DataDirectory struct {
	VirtualAddress uint32 `struc:"uint32,little"`
	Size           uint32 `struc:"uint32,little"`
}

// OptionalHeader32 holds the PE32 optional header fields that follow the
// magic, up to and including NumberOfRvaAndSizes.
type OptionalHeader32 struct {
	MajorLinkerVersion          byte   `struc:"byte"`          // Major linker version
	MinorLinkerVersion          byte   `struc:"byte"`          // Minor linker version
	SizeOfCode                  uint32 `struc:"uint32,little"` // Size of code
	SizeOfInitializedData       uint32 `struc:"uint32,little"` // Size of initialized data
	SizeOfUninitializedData     uint32 `struc:"uint32,little"` // Size of uninitialized data
	AddressOfEntryPoint         uint32 `struc:"uint32,little"` // Address of entry point
	BaseOfCode                  uint32 `struc:"uint32,little"` // Base address of code
	BaseOfData                  uint32 `struc:"uint32,little"` // Base address of data
	ImageBase                   uint32 `struc:"uint32,little"` // Image base address
	SectionAlignment            uint32 `struc:"uint32,little"` // Section alignment
	FileAlignment               uint32 `struc:"uint32,little"` // File alignment
	MajorOperatingSystemVersion uint16 `struc:"uint16,little"` // Major operating system version
	MinorOperatingSystemVersion uint16 `struc:"uint16,little"` // Minor operating system version
	MajorImageVersion           uint16 `struc:"uint16,little"` // Major image version
	MinorImageVersion           uint16 `struc:"uint16,little"` // Minor image version
	MajorSubsystemVersion       uint16 `struc:"uint16,little"` // Major subsystem version
	MinorSubsystemVersion       uint16 `struc:"uint16,little"` // Minor subsystem version
	Win32VersionValue           uint32 `struc:"uint32,little"` // Win32 version value
	SizeOfImage                 uint32 `struc:"uint32,little"` // Size of image
	SizeOfHeaders               uint32 `struc:"uint32,little"` // Size of headers
	CheckSum                    uint32 `struc:"uint32,little"` // Checksum
	Subsystem                   uint16 `struc:"uint16,little"` // Subsystem
	DllCharacteristics          uint16 `struc:"uint16,little"` // DLL characteristics
	SizeOfStackReserve          uint32 `struc:"uint32,little"` // Size of stack to reserve
	SizeOfStackCommit           uint32 `struc:"uint32,little"` // Size of stack to commit
	SizeOfHeapReserve           uint32 `struc:"uint32,little"` // Size of heap to reserve
	SizeOfHeapCommit            uint32 `struc:"uint32,little"` // Size of heap to commit
	LoaderFlags                 uint32 `struc:"uint32,little"` // Loader flags
	NumberOfRvaAndSizes         uint32 `struc:"uint32,little"` // Number of data-directory entries
}

// OptionalHeader64 is the PE32+ counterpart of OptionalHeader32. It has no
// BaseOfData and widens the image base and stack/heap fields.
type OptionalHeader64 struct {
	MajorLinkerVersion          byte   `struc:"byte"`          // Major linker version
	MinorLinkerVersion          byte   `struc:"byte"`          // Minor linker version
	SizeOfCode                  uint32 `struc:"uint32,little"` // Size of code
	SizeOfInitializedData       uint32 `struc:"uint32,little"` // Size of initialized data
	SizeOfUninitializedData     uint32 `struc:"uint32,little"` // Size of uninitialized data
	AddressOfEntryPoint         uint32 `struc:"uint32,little"` // Address of entry point
	BaseOfCode                  uint32 `struc:"uint32,little"` // Base address of code
	ImageBase                   uint64 `struc:"uint64,little"` // Image base address
	SectionAlignment            uint32 `struc:"uint32,little"` // Section alignment
	FileAlignment               uint32 `struc:"uint32,little"` // File alignment
	MajorOperatingSystemVersion uint16 `struc:"uint16,little"` // Major operating system version
	MinorOperatingSystemVersion uint16 `struc:"uint16,little"` // Minor operating system version
	MajorImageVersion           uint16 `struc:"uint16,little"` // Major image version
	MinorImageVersion           uint16 `struc:"uint16,little"` // Minor image version
	MajorSubsystemVersion       uint16 `struc:"uint16,little"` // Major subsystem version
	MinorSubsystemVersion       uint16 `struc:"uint16,little"` // Minor subsystem version
	Win32VersionValue           uint32 `struc:"uint32,little"` // Win32 version value
	SizeOfImage                 uint32 `struc:"uint32,little"` // Size of image
	SizeOfHeaders               uint32 `struc:"uint32,little"` // Size of headers
	CheckSum                    uint32 `struc:"uint32,little"` // Checksum
	Subsystem                   uint16 `struc:"uint16,little"` // Subsystem
	DllCharacteristics          uint16 `struc:"uint16,little"` // DLL characteristics
	SizeOfStackReserve          uint64 `struc:"uint64,little"` // Size of stack to reserve
	SizeOfStackCommit           uint64 `struc:"uint64,little"` // Size of stack to commit
	SizeOfHeapReserve           uint64 `struc:"uint64,little"` // Size of heap to reserve
	SizeOfHeapCommit            uint64 `struc:"uint64,little"` // Size of heap to commit
	LoaderFlags                 uint32 `struc:"uint32,little"` // Loader flags
	NumberOfRvaAndSizes         uint32 `struc:"uint32,little"` // Number of data-directory entries
}

// OptionalHeader is one of the two optional header layouts, selected by Magic.
// Exactly one of PE32 and PE32Plus is set.
type OptionalHeader struct {
	Magic         uint16
	PE32          *OptionalHeader32 `json:",omitempty" yaml:",omitempty"`
	PE32Plus      *OptionalHeader64 `json:",omitempty" yaml:",omitempty"`
	DataDirectory []DataDirectory
}

// Is64 reports whether the header uses the PE32+ layout.
func (h *OptionalHeader) Is64() bool { return h.PE32Plus != nil }

// NumberOfRvaAndSizes returns the declared data directory count.
func (h *OptionalHeader) NumberOfRvaAndSizes() uint32 {
	if h.PE32Plus != nil {
		return h.PE32Plus.NumberOfRvaAndSizes
	}
	return h.PE32.NumberOfRvaAndSizes
}

// ImageBase returns the preferred load address, widened to 64 bits for PE32.
func (h *OptionalHeader) ImageBase() uint64 {
	if h.PE32Plus != nil {
		return h.PE32Plus.ImageBase
	}
	return uint64(h.PE32.ImageBase)
}

// AddressOfEntryPoint returns the entry point RVA.
func (h *OptionalHeader) AddressOfEntryPoint() uint32 {
	if h.PE32Plus != nil {
		return h.PE32Plus.AddressOfEntryPoint
	}
	return h.PE32.AddressOfEntryPoint
}

// Subsystem returns the IMAGE_SUBSYSTEM_* value.
func (h *OptionalHeader) Subsystem() uint16 {
	if h.PE32Plus != nil {
		return h.PE32Plus.Subsystem
	}
	return h.PE32.Subsystem
}

// NTHeaders represents the IMAGE_NT_HEADERS structure.
type NTHeaders struct {
	Signature      uint32
	FileHeader     FileHeader
	OptionalHeader OptionalHeader
}

// Image is the decoded header chain of one PE file. It shares no memory with
// the buffer it was decoded from.
type Image struct {
	DOSHeader DOSHeader
	DOSStub   []byte
	NTHeaders NTHeaders
}
