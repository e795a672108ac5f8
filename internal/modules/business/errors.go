package business

import "errors"

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("business not found")
)
