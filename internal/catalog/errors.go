package catalog

import "errors"

// Catalog construction errors.
var (
	ErrMalformedIncident = errors.New("malformed incident")
	ErrMalformedService  = errors.New("malformed service")
	ErrDuplicateService  = errors.New("duplicate service id")
)
