package repository

import "errors"

// ErrNotFound is returned when the requested record does not exist or does
// not belong to the requesting user. Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")
