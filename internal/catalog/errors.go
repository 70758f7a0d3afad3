package catalog

import "errors"

var (
	ErrDuplicateID    = errors.New("catalog: duplicate service id")
	ErrEmptyID        = errors.New("catalog: service id required")
	ErrServiceUnknown = errors.New("catalog: service not found")
	ErrUnknownBand    = errors.New("catalog: unknown price band")
)
