package peheader

import (
	"github.com/ianatha/go-peheader/internal/cursor"
)

// Parse decodes the DOS header, DOS stub and NT headers at the start of
// contents. On failure it returns a *DecodeError and no Image.
func Parse(contents []byte) (*Image, error) {
	c := cursor.New(contents)

	dosHeader, err := readDOSHeader(c)
	if err != nil {
		return nil, err
	}

	dosStub, err := readDOSStub(c, dosHeader)
	if err != nil {
		return nil, err
	}

	ntHeaders, err := readNTHeaders(c)
	if err != nil {
		return nil, err
	}

	return &Image{
		DOSHeader: *dosHeader,
		DOSStub:   dosStub,
		NTHeaders: *ntHeaders,
	}, nil
}
