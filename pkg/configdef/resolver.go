package configdef

import "errors"

var ErrConfigNotFound = errors.New("config file not found")

type Resolver interface {
	Resolve() (Values, error)
}
