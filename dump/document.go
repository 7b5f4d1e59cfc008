package dump

import (
	"encoding/hex"
	"encoding/json"
	"io"

	peheader "github.com/ianatha/go-peheader"
	"gopkg.in/yaml.v3"
)

// Document is the structured form of an Image, with the stub as hex.
type Document struct {
	DOSHeader peheader.DOSHeader `json:"dosHeader" yaml:"dosHeader"`
	DOSStub   string             `json:"dosStub" yaml:"dosStub"`
	NTHeaders peheader.NTHeaders `json:"ntHeaders" yaml:"ntHeaders"`
}

// NewDocument copies the headers of img into a Document.
func NewDocument(img *peheader.Image) *Document {
	return &Document{
		DOSHeader: img.DOSHeader,
		DOSStub:   hex.EncodeToString(img.DOSStub),
		NTHeaders: img.NTHeaders,
	}
}

// JSON writes img to w as an indented JSON Document.
func JSON(w io.Writer, img *peheader.Image) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(img))
}

// YAML writes img to w as a YAML Document.
func YAML(w io.Writer, img *peheader.Image) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(img)); err != nil {
		return err
	}
	return enc.Close()
}
