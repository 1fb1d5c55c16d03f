package document

import "errors"

// Invariant-guard rejections. Operations returning one of these leave the document unchanged.
var (
	ErrLastPage      = errors.New("document must keep at least one page")
	ErrPageIndex     = errors.New("page index out of range")
	ErrPageBoundary  = errors.New("page cannot move past the document boundary")
	ErrUnknownPreset = errors.New("unknown preset")
	ErrMalformed     = errors.New("malformed document")
)
