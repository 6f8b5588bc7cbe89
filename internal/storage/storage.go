package storage

import (
	"context"
	"strings"
	"time"
)

// Storage defines the interface for persisting and querying indexed documents
type Storage interface {
	// Project operations
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, rootPath string) (*Project, error)
	GetProjectByID(ctx context.Context, projectID int64) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) error

	// File operations
	UpsertFile(ctx context.Context, file *File) error
	GetFile(ctx context.Context, projectID int64, filePath string) (*File, error)
	GetFileByID(ctx context.Context, fileID int64) (*File, error)
	DeleteFile(ctx context.Context, fileID int64) error
	ListFiles(ctx context.Context, projectID int64) ([]*File, error)

	// Chunk operations
	InsertChunks(ctx context.Context, chunks []*Chunk) error
	ListChunksByFile(ctx context.Context, fileID int64) ([]*Chunk, error)
	DeleteChunksByFile(ctx context.Context, fileID int64) error
	CountChunks(ctx context.Context, projectID int64) (int, error)

	// Search operations
	SearchChunks(ctx context.Context, projectID int64, terms []string, limit int, filters *SearchFilters) ([]ChunkResult, error)
	ListMatchingChunks(ctx context.Context, fileID int64, terms []string) ([]*Chunk, error)

	// Status operations
	GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Project represents an indexed document root together with the analyzer
// settings its chunks were produced with
type Project struct {
	ID            int64
	RootPath      string
	SplitLength   int
	Tokenizer     string
	Filters       []string
	TotalFiles    int
	TotalChunks   int
	IndexVersion  string
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// File represents a tracked document
type File struct {
	ID            int64
	ProjectID     int64
	FilePath      string // Relative to project root
	ContentHash   [32]byte
	ModTime       time.Time
	SizeBytes     int64
	EndOffset     int // Final offset reported by the tokenizer
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Chunk is one token of a document as emitted by the analyzer
type Chunk struct {
	ID          int64
	FileID      int64
	Position    int // Ordinal within the file, starting at 0
	Text        string
	StartOffset int
	EndOffset   int
	CreatedAt   time.Time
}

// SearchFilters contains filters for narrowing search results
type SearchFilters struct {
	FilePattern string  // Glob pattern for file paths
	MinScore    float64 // Minimum fraction of query terms matched
}

// ChunkResult aggregates the chunks of one file matching a query
type ChunkResult struct {
	FileID       int64
	FilePath     string
	SizeBytes    int64
	MatchedTerms int // Distinct query terms found
	Hits         int // Matching chunks
	Score        float64
}

// ProjectStatus contains statistics about an indexed project
type ProjectStatus struct {
	Project       *Project
	FilesCount    int
	ChunksCount   int
	DistinctTerms int
	IndexSizeMB   float64
	LastIndexedAt time.Time
	Health        HealthStatus
}

// HealthStatus represents the health of the index
type HealthStatus struct {
	DatabaseAccessible bool
	ChunksAvailable    bool
}

// joinFilters and splitFilters store the filter chain in a single column
func joinFilters(filters []string) string {
	return strings.Join(filters, ",")
}

func splitFilters(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
