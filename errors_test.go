package peheader

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeError(t *testing.T) {
	err := decodeErr(stageDOSStub, 0x40, fmt.Errorf("%w: detail", ErrCorruptLayout))
	assert.Equal(t, "pe: dos stub at offset 0x40: corrupt layout: detail", err.Error())
	assert.ErrorIs(t, err, ErrCorruptLayout)

	var de *DecodeError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, 0x40, de.Offset)
}

func TestKind(t *testing.T) {
	for _, tc := range []struct {
		err  error
		kind string
	}{
		{decodeErr(stageDOSHeader, 0, ErrUnexpectedEnd), "UnexpectedEnd"},
		{decodeErr(stageDOSHeader, 0, ErrInvalidMagic), "InvalidMagic"},
		{decodeErr(stageDOSStub, 64, ErrCorruptLayout), "CorruptLayout"},
		{decodeErr(stageNTHeaders, 64, ErrInvalidSignature), "InvalidSignature"},
		{decodeErr(stageOptionalHeader, 88, ErrUnsupportedOptionalHeader), "UnsupportedOptionalHeaderFormat"},
		{decodeErr(stageDataDirectory, 180, ErrDirectoryCountOutOfRange), "DirectoryCountOutOfRange"},
		{ErrTooLarge, "TooLarge"},
		{errors.New("other"), ""},
		{nil, ""},
	} {
		assert.Equal(t, tc.kind, Kind(tc.err))
	}
}
