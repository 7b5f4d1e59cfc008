package peheader

import (
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// DefaultMaxSize is the input limit used by the commands when none is given.
const DefaultMaxSize = 64 << 20

// ReadAll reads r to EOF, failing with ErrTooLarge once more than limit
// bytes have been seen.
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	contents, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	if int64(len(contents)) > limit {
		return nil, errors.Wrapf(ErrTooLarge, "more than %d bytes", limit)
	}
	return contents, nil
}

// Open maps the file at path read-only and parses it. The mapping is
// released before Open returns; the Image does not reference it.
func Open(path string, limit int64) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.Size() > limit {
		return nil, errors.Wrapf(ErrTooLarge, "%s is %d bytes, limit %d", path, info.Size(), limit)
	}
	// Zero-length files cannot be mapped.
	if info.Size() == 0 {
		return Parse(nil)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "map %s", path)
	}
	defer m.Unmap()

	return Parse(m)
}
