package peheader

import (
	"github.com/kardianos/osext"
	"github.com/pkg/errors"
)

// OpenSelf parses the headers of the running executable.
func OpenSelf(limit int64) (*Image, error) {
	exe, err := osext.Executable()
	if err != nil {
		return nil, errors.Wrap(err, "locate executable")
	}
	return Open(exe, limit)
}
