package timeline

import "errors"

// Window errors.
var (
	ErrInvalidWindow = errors.New("window start is after window end")
	ErrEmptyWindow   = errors.New("window spans less than one whole day")
)
