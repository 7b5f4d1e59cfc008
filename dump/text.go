// Package dump formats decoded PE headers for people: a fixed-width
// hexadecimal listing, or JSON/YAML documents.
package dump

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	peheader "github.com/ianatha/go-peheader"
	"github.com/samber/lo"
)

const (
	labelWidth = 29
	rowWidth   = 16
)

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) field(label, value string) {
	p.printf("  %-*s %s\n", labelWidth, label+":", value)
}

// row prints items space-separated, rowWidth per line, continuation lines
// aligned under the first.
func (p *printer) row(label string, items []string) {
	rows := lo.Chunk(items, rowWidth)
	if len(rows) == 0 {
		p.field(label, "(empty)")
		return
	}
	p.field(label, strings.Join(rows[0], " "))
	for _, r := range rows[1:] {
		p.printf("  %-*s %s\n", labelWidth, "", strings.Join(r, " "))
	}
}

func hexValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Uint8:
		return fmt.Sprintf("0x%02X", v.Uint())
	case reflect.Uint16:
		return fmt.Sprintf("0x%04X", v.Uint())
	case reflect.Uint32:
		return fmt.Sprintf("0x%08X", v.Uint())
	case reflect.Uint64:
		return fmt.Sprintf("0x%016X", v.Uint())
	case reflect.Int32:
		return fmt.Sprintf("0x%08X", uint32(v.Int()))
	}
	return fmt.Sprint(v.Interface())
}

// fields prints every field of the struct v in declaration order.
func (p *printer) fields(v reflect.Value, label func(string) string) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Name
		f := v.Field(i)
		if f.Kind() == reflect.Array {
			words := make([]string, f.Len())
			for j := range words {
				words[j] = hexValue(f.Index(j))
			}
			p.row(label(name), words)
			continue
		}
		s := hexValue(f)
		if note, ok := notes[name]; ok {
			if n := note(f.Uint()); n != "" {
				s += " (" + n + ")"
			}
		}
		p.field(label(name), s)
	}
}

func dosLabel(name string) string { return "e_" + strings.ToLower(name) }

func plainLabel(name string) string { return name }

// Text writes the DOS header, DOS stub and NT headers of img to w, one
// labelled line per field.
func Text(w io.Writer, img *peheader.Image) error {
	p := &printer{w: w}

	p.printf("DOS Header:\n")
	p.fields(reflect.ValueOf(img.DOSHeader), dosLabel)

	p.printf("\nDOS Stub (%d bytes):\n", len(img.DOSStub))
	stub := lo.Map(img.DOSStub, func(b byte, _ int) string { return fmt.Sprintf("%02X", b) })
	for _, r := range lo.Chunk(stub, rowWidth) {
		p.printf("  %s\n", strings.Join(r, " "))
	}

	nt := &img.NTHeaders
	p.printf("\nNT Headers:\n")
	p.field("Signature", hexValue(reflect.ValueOf(nt.Signature)))

	p.printf("\nFile Header:\n")
	p.fields(reflect.ValueOf(nt.FileHeader), plainLabel)

	oh := &nt.OptionalHeader
	var layout reflect.Value
	if oh.Is64() {
		p.printf("\nOptional Header (PE32+):\n")
		layout = reflect.ValueOf(*oh.PE32Plus)
	} else {
		p.printf("\nOptional Header (PE32):\n")
		layout = reflect.ValueOf(*oh.PE32)
	}
	p.field("Magic", hexValue(reflect.ValueOf(oh.Magic)))
	p.fields(layout, plainLabel)

	p.printf("\nData Directories (%d):\n", len(oh.DataDirectory))
	for i, d := range oh.DataDirectory {
		name := "Unknown"
		if i < len(directoryNames) {
			name = directoryNames[i]
		}
		p.printf("  [%2d] %-16s RVA: 0x%08X  Size: 0x%08X\n", i, name, d.VirtualAddress, d.Size)
	}
	return p.err
}
