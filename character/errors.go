package character

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalid is the cause of every document validation failure.
	ErrInvalid = errors.New("invalid character document")

	ErrNotFound           = errors.New("not found")
	ErrDuplicateName      = errors.New("name already in use")
	ErrTileInUse          = errors.New("tile is used by an animation")
	ErrMandatoryAnimation = errors.New("mandatory animations cannot be deleted")
	ErrInvertedBox        = errors.New("box edges would be inverted")
)

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalid, format, args...)
}
