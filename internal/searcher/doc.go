// Package searcher looks up documents that contain the chunks of a query.
//
// A query is analyzed with the settings its project was indexed with, so
// both sides are split the same way. Each distinct query chunk is a term;
// files are ranked by the number of distinct terms they contain, then by
// the total number of matching chunks.
//
// # Basic Usage
//
//	s := searcher.NewSearcher(store)
//
//	resp, err := s.Search(ctx, searcher.SearchRequest{
//	    ProjectID: project.ID,
//	    Query:     "hello",
//	    Limit:     10,
//	})
//
//	for _, result := range resp.Results {
//	    fmt.Printf("[%d] %s (score: %.2f)\n",
//	        result.Rank, result.File.Path, result.Score)
//	}
//
// # Alignment
//
// The split tokenizer cuts at fixed positions from the start of a document,
// so a query only matches where the document happens to be cut at the same
// place. Projects analyzed with the words tokenizer followed by the split
// filter restart the cut at every word.
//
// # Caching
//
// Responses are cached in an LRU keyed by a SHA-256 of the request and
// expire after CacheTTL (default one hour). Callers invalidate the cache
// after reindexing.
package searcher
