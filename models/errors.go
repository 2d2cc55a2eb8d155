package models

import "errors"

// ErrMalformed marks input the accounting layer refuses to work with: a
// fixed-budget trip with no budget, a non-finite amount, an expense attached
// to the wrong trip. Upstream validation should catch these first; when it
// does not, the error propagates instead of a silently-substituted default.
var ErrMalformed = errors.New("malformed input")
