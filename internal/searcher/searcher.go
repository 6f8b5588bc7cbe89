package searcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/splitindex/internal/analysis"
	"github.com/dshills/splitindex/internal/storage"
	"github.com/dshills/splitindex/pkg/types"
)

const (
	defaultLimit      = 10
	maxLimit          = 100
	defaultMaxMatches = 20
	defaultCacheTTL   = 1 * time.Hour
	cacheSize         = 1000
)

// SearchRequest contains parameters for a search operation
type SearchRequest struct {
	Query      string
	Limit      int
	MaxMatches int // Matches reported per file (default 20)
	Filters    *storage.SearchFilters
	ProjectID  int64
	UseCache   bool // Whether to use query cache
	CacheTTL   time.Duration
}

// SearchResponse contains search results and metadata
type SearchResponse struct {
	Results      []types.SearchResult
	TotalResults int
	Terms        []string // Query chunks looked up
	Duration     time.Duration
	CacheHit     bool
}

// cacheEntry represents a cached search response with expiration time
type cacheEntry struct {
	response  *SearchResponse
	expiresAt time.Time
}

// Searcher resolves queries against stored chunks
type Searcher struct {
	storage storage.Storage
	cache   *lru.Cache[[32]byte, *cacheEntry]
	cacheMu sync.RWMutex
}

// NewSearcher creates a new Searcher instance
func NewSearcher(storage storage.Storage) *Searcher {
	// Cache will automatically evict least recently used entries
	cache, err := lru.New[[32]byte, *cacheEntry](cacheSize)
	if err != nil {
		// This should never happen with valid size parameter
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}

	return &Searcher{
		storage: storage,
		cache:   cache,
	}
}

// ProjectSettings returns the analyzer settings a project was indexed with
func ProjectSettings(project *storage.Project) analysis.Settings {
	return analysis.Settings{
		Length:    project.SplitLength,
		Tokenizer: project.Tokenizer,
		Filters:   project.Filters,
	}
}

// Search analyzes the query with the project's settings and ranks the
// files that contain its chunks.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	startTime := time.Now()

	// Validate request
	if err := s.validateRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	// Check cache if enabled
	if req.UseCache {
		if cached := s.checkCache(req); cached != nil {
			cached.CacheHit = true
			cached.Duration = time.Since(startTime)
			return cached, nil
		}
	}

	project, err := s.storage.GetProjectByID(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	terms, err := s.analyzeQuery(project, req.Query)
	if err != nil {
		return nil, err
	}

	response := &SearchResponse{
		Results: make([]types.SearchResult, 0),
		Terms:   terms,
	}
	if len(terms) == 0 {
		response.Duration = time.Since(startTime)
		return response, nil
	}

	ranked, err := s.storage.SearchChunks(ctx, req.ProjectID, terms, req.Limit, req.Filters)
	if err != nil {
		return nil, err
	}

	response.Results, err = s.fetchResults(ctx, ranked, terms, req.MaxMatches)
	if err != nil {
		return nil, err
	}
	response.TotalResults = len(response.Results)
	response.Duration = time.Since(startTime)

	// Store in cache if enabled
	if req.UseCache && len(response.Results) > 0 {
		s.storeInCache(req, response)
	}

	return response, nil
}

// analyzeQuery splits the query the same way the documents were split
func (s *Searcher) analyzeQuery(project *storage.Project, query string) ([]string, error) {
	analyzer, err := analysis.NewAnalyzer(ProjectSettings(project))
	if err != nil {
		return nil, fmt.Errorf("invalid project analyzer: %w", err)
	}

	tokens, err := analyzer.AnalyzeString(query)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze query: %w", err)
	}

	seen := make(map[string]struct{}, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok.Text]; ok {
			continue
		}
		seen[tok.Text] = struct{}{}
		terms = append(terms, tok.Text)
	}
	return terms, nil
}

// fetchResults loads the matching chunks of each ranked file
func (s *Searcher) fetchResults(ctx context.Context, ranked []storage.ChunkResult, terms []string, maxMatches int) ([]types.SearchResult, error) {
	results := make([]types.SearchResult, 0, len(ranked))

	for i, r := range ranked {
		chunks, err := s.storage.ListMatchingChunks(ctx, r.FileID, terms)
		if err != nil {
			return nil, fmt.Errorf("failed to load matches for %s: %w", r.FilePath, err)
		}
		if len(chunks) > maxMatches {
			chunks = chunks[:maxMatches]
		}

		matches := make([]types.Match, len(chunks))
		for j, c := range chunks {
			matches[j] = types.Match{
				Text:     c.Text,
				Position: c.Position,
				Start:    c.StartOffset,
				End:      c.EndOffset,
			}
		}

		results = append(results, types.SearchResult{
			Rank:  i + 1,
			Score: r.Score,
			File: &types.FileInfo{
				Path:      r.FilePath,
				SizeBytes: r.SizeBytes,
			},
			Matches: matches,
		})
	}

	return results, nil
}

// validateRequest ensures search request is valid
func (s *Searcher) validateRequest(req *SearchRequest) error {
	if req.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}

	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}

	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}

	if req.MaxMatches <= 0 {
		req.MaxMatches = defaultMaxMatches
	}

	if req.Filters != nil && (req.Filters.MinScore < 0 || req.Filters.MinScore > 1) {
		return fmt.Errorf("min score must be between 0 and 1")
	}

	if req.CacheTTL == 0 {
		req.CacheTTL = defaultCacheTTL
	}

	return nil
}

// checkCache looks up cached search results
func (s *Searcher) checkCache(req SearchRequest) *SearchResponse {
	hash := computeQueryHash(req)
	now := time.Now()

	s.cacheMu.RLock()
	entry, found := s.cache.Get(hash)
	if !found {
		s.cacheMu.RUnlock()
		return nil
	}

	if now.After(entry.expiresAt) {
		s.cacheMu.RUnlock()

		// Remove expired entry - need write lock
		s.cacheMu.Lock()
		s.cache.Remove(hash)
		s.cacheMu.Unlock()
		return nil
	}

	response := copySearchResponse(entry.response)
	s.cacheMu.RUnlock()

	return response
}

// storeInCache saves search results to cache
func (s *Searcher) storeInCache(req SearchRequest, response *SearchResponse) {
	entry := &cacheEntry{
		response:  copySearchResponse(response),
		expiresAt: time.Now().Add(req.CacheTTL),
	}

	s.cacheMu.Lock()
	s.cache.Add(computeQueryHash(req), entry)
	s.cacheMu.Unlock()
}

// copySearchResponse creates a deep copy of a SearchResponse
func copySearchResponse(src *SearchResponse) *SearchResponse {
	if src == nil {
		return nil
	}

	dst := &SearchResponse{
		TotalResults: src.TotalResults,
		Terms:        append([]string(nil), src.Terms...),
		Duration:     src.Duration,
		CacheHit:     src.CacheHit,
		Results:      make([]types.SearchResult, len(src.Results)),
	}

	for i, result := range src.Results {
		dst.Results[i] = types.SearchResult{
			Rank:    result.Rank,
			Score:   result.Score,
			Matches: append([]types.Match(nil), result.Matches...),
		}
		if result.File != nil {
			fileCopy := *result.File
			dst.Results[i].File = &fileCopy
		}
	}

	return dst
}

// computeQueryHash computes a unique hash for a search request
func computeQueryHash(req SearchRequest) [32]byte {
	var data strings.Builder
	data.WriteString(req.Query)
	fmt.Fprintf(&data, "|%d|%d|%d", req.ProjectID, req.Limit, req.MaxMatches)

	if req.Filters != nil {
		data.WriteString("|filters:")
		data.WriteString(req.Filters.FilePattern)
		fmt.Fprintf(&data, "|%.2f", req.Filters.MinScore)
	}

	return sha256.Sum256([]byte(data.String()))
}

// InvalidateCache drops cached responses. Called after a project is reindexed.
func (s *Searcher) InvalidateCache(ctx context.Context, projectID int64) error {
	// Entries are keyed by hash so the whole cache is purged
	s.cacheMu.Lock()
	s.cache.Purge()
	s.cacheMu.Unlock()
	return nil
}
