package transparency

import "errors"

var (
	ErrUnknownPolicy   = errors.New("transparency: unknown policy")
	ErrDuplicatePolicy = errors.New("transparency: policy already registered")
	ErrEmptyChain      = errors.New("transparency: policy chain is empty")
	ErrInvalidBounds   = errors.New("transparency: invalid threshold bounds")
	ErrPixelCount      = errors.New("transparency: pixel count does not match dimensions")
)
