package mdpreview

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown      = errors.New("markdown content cannot be empty")
	ErrRender             = errors.New("markup rendering failed")
	ErrInvalidPassContext = errors.New("invalid render pass context")
	ErrInvalidChunkSize   = errors.New("invalid chunk size")
)
