// Package types provides shared type definitions for splitindex.
//
// # Tokens
//
// Token is a piece of text with its offset span in the original input:
//
//	tok := types.Token{Text: "he", Start: 0, End: 2}
//	tok.Len()             // 2
//	tok.HasLegalOffsets() // true
//
// A TokenStream yields tokens one at a time and returns io.EOF when done.
// Streams compose: a filter is a TokenStream that pulls from another one.
//
//	tokens, err := types.Collect(stream)
//
// # Search Results
//
// SearchResult describes a file that contains chunks of a query, ranked by
// score, with the matching chunks and their offsets:
//
//	result := types.SearchResult{
//	    Rank:  1,
//	    Score: 0.66,
//	    File:  &types.FileInfo{Path: "notes/a.txt"},
//	    Matches: []types.Match{{Text: "he", Position: 0, Start: 0, End: 2}},
//	}
//	if err := result.Validate(); err != nil {
//	    // handle validation error
//	}
//
// # Errors
//
// Sentinel errors are compared with errors.Is:
//
//	if errors.Is(err, types.ErrInvalidSplitLength) {
//	    // length must be at least one
//	}
package types
