package dream

import "errors"

var (
	ErrEmptyContent = errors.New("dream content is required")
	ErrNotFound     = errors.New("dream not found")
)
