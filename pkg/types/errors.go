package types

import "errors"

// Domain errors
var (
	// ErrInvalidSplitLength is returned when a splitter is configured with a length below one
	ErrInvalidSplitLength = errors.New("length must be greater than zero")

	// Search result errors
	ErrInvalidRank        = errors.New("rank must be >= 1")
	ErrInvalidScore       = errors.New("score must be between 0 and 1")
	ErrMissingFileInfo    = errors.New("file info is required")
	ErrEmptyMatches       = errors.New("result must contain at least one match")
	ErrInvalidMatchOffset = errors.New("match end offset must not precede start offset")
)
