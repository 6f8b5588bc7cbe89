package types

// SearchResult is a document that matched a query
type SearchResult struct {
	Rank  int     // Position in result set (1-based)
	Score float64 // Fraction of distinct query chunks found in the document

	File    *FileInfo
	Matches []Match // Matching chunks in document order
}

// FileInfo contains file metadata for a search result
type FileInfo struct {
	Path      string // Relative to project root
	SizeBytes int64
}

// Match is one stored chunk that equals a query chunk
type Match struct {
	Text     string
	Position int // Chunk ordinal within the file
	Start    int
	End      int
}

// Validate checks if the search result is valid
func (sr *SearchResult) Validate() error {
	if sr.Rank < 1 {
		return ErrInvalidRank
	}

	if sr.Score < 0 || sr.Score > 1 {
		return ErrInvalidScore
	}

	if sr.File == nil {
		return ErrMissingFileInfo
	}

	if len(sr.Matches) == 0 {
		return ErrEmptyMatches
	}

	for _, m := range sr.Matches {
		if m.End < m.Start {
			return ErrInvalidMatchOffset
		}
	}

	return nil
}
