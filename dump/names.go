package dump

import (
	"strings"

	peheader "github.com/ianatha/go-peheader"
	"github.com/samber/lo"
)

var machineNames = map[uint16]string{
	peheader.IMAGE_FILE_MACHINE_UNKNOWN: "unknown",
	peheader.IMAGE_FILE_MACHINE_I386:    "i386",
	0x0166:                              "R4000",
	0x01c0:                              "ARM",
	peheader.IMAGE_FILE_MACHINE_ARMNT:   "ARMNT",
	peheader.IMAGE_FILE_MACHINE_IA64:    "IA64",
	0x5032:                              "RISCV32",
	0x5064:                              "RISCV64",
	0x6264:                              "LOONGARCH64",
	peheader.IMAGE_FILE_MACHINE_AMD64:   "AMD64",
	peheader.IMAGE_FILE_MACHINE_ARM64:   "ARM64",
}

var subsystemNames = map[uint16]string{
	0:  "UNKNOWN",
	1:  "NATIVE",
	2:  "WINDOWS_GUI",
	3:  "WINDOWS_CUI",
	5:  "OS2_CUI",
	7:  "POSIX_CUI",
	8:  "NATIVE_WINDOWS",
	9:  "WINDOWS_CE_GUI",
	10: "EFI_APPLICATION",
	11: "EFI_BOOT_SERVICE_DRIVER",
	12: "EFI_RUNTIME_DRIVER",
	13: "EFI_ROM",
	14: "XBOX",
	16: "WINDOWS_BOOT_APPLICATION",
}

type flag struct {
	bit  uint16
	name string
}

var fileCharacteristics = []flag{
	{0x0001, "RELOCS_STRIPPED"},
	{0x0002, "EXECUTABLE_IMAGE"},
	{0x0004, "LINE_NUMS_STRIPPED"},
	{0x0008, "LOCAL_SYMS_STRIPPED"},
	{0x0010, "AGGRESSIVE_WS_TRIM"},
	{0x0020, "LARGE_ADDRESS_AWARE"},
	{0x0080, "BYTES_REVERSED_LO"},
	{0x0100, "32BIT_MACHINE"},
	{0x0200, "DEBUG_STRIPPED"},
	{0x0400, "REMOVABLE_RUN_FROM_SWAP"},
	{0x0800, "NET_RUN_FROM_SWAP"},
	{0x1000, "SYSTEM"},
	{0x2000, "DLL"},
	{0x4000, "UP_SYSTEM_ONLY"},
	{0x8000, "BYTES_REVERSED_HI"},
}

var dllCharacteristics = []flag{
	{0x0020, "HIGH_ENTROPY_VA"},
	{0x0040, "DYNAMIC_BASE"},
	{0x0080, "FORCE_INTEGRITY"},
	{0x0100, "NX_COMPAT"},
	{0x0200, "NO_ISOLATION"},
	{0x0400, "NO_SEH"},
	{0x0800, "NO_BIND"},
	{0x1000, "APPCONTAINER"},
	{0x2000, "WDM_DRIVER"},
	{0x4000, "GUARD_CF"},
	{0x8000, "TERMINAL_SERVER_AWARE"},
}

var directoryNames = [peheader.IMAGE_NUMBEROF_DIRECTORY_ENTRIES]string{
	"Export", "Import", "Resource", "Exception", "Certificate",
	"Base Relocation", "Debug", "Architecture", "Global Ptr", "TLS",
	"Load Config", "Bound Import", "IAT", "Delay Import", "CLR", "Reserved",
}

func flagNames(flags []flag) func(uint64) string {
	return func(v uint64) string {
		set := lo.Filter(flags, func(f flag, _ int) bool { return v&uint64(f.bit) != 0 })
		return strings.Join(lo.Map(set, func(f flag, _ int) string { return f.name }), "|")
	}
}

func lookup(names map[uint16]string) func(uint64) string {
	return func(v uint64) string { return names[uint16(v)] }
}

// notes annotate selected fields after their hex value.
var notes = map[string]func(uint64) string{
	"Machine":            lookup(machineNames),
	"Characteristics":    flagNames(fileCharacteristics),
	"Subsystem":          lookup(subsystemNames),
	"DllCharacteristics": flagNames(dllCharacteristics),
}
