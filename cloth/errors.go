package cloth

import "github.com/pkg/errors"

//ErrInvalidConfig is the cause of every setup rejection in this package
var ErrInvalidConfig = errors.New("invalid cloth configuration")

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}
