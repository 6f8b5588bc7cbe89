package indexer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/splitindex/internal/analysis"
	"github.com/dshills/splitindex/internal/storage"
	"github.com/dshills/splitindex/pkg/types"
)

// ErrIndexingInProgress is returned when IndexProject is already running
var ErrIndexingInProgress = errors.New("indexing already in progress")

// DefaultExtensions are indexed when Config.Extensions is empty
var DefaultExtensions = []string{".txt", ".md"}

// Indexer coordinates the indexing pipeline: read -> analyze -> store
type Indexer struct {
	analyzer *analysis.Analyzer
	storage  storage.Storage
	lock     IndexLock

	// Worker pool configuration
	workers int
}

// Config contains configuration for the indexer
type Config struct {
	Workers      int      // Number of concurrent workers (default: runtime.NumCPU())
	BatchSize    int      // Number of files to commit per transaction (default: 20)
	Extensions   []string // File extensions to index (default: .txt, .md)
	ByteOffsets  bool     // Store UTF-8 byte offsets instead of character offsets
	ForceReindex bool     // Re-analyze files even when their hash is unchanged
}

// Statistics contains statistics about the indexing operation
type Statistics struct {
	FilesIndexed  int
	FilesSkipped  int
	FilesFailed   int
	FilesRemoved  int
	ChunksCreated int
	Duration      time.Duration
	ErrorMessages []string
}

// New creates a new Indexer instance
func New(storage storage.Storage, analyzer *analysis.Analyzer) *Indexer {
	return &Indexer{
		analyzer: analyzer,
		storage:  storage,
		workers:  runtime.NumCPU(),
	}
}

// Analyzer returns the analyzer used for new projects
func (idx *Indexer) Analyzer() *analysis.Analyzer {
	return idx.analyzer
}

// IndexProject indexes every matching file under rootPath
func (idx *Indexer) IndexProject(ctx context.Context, rootPath string, config *Config) (*Statistics, error) {
	if !idx.lock.TryAcquire() {
		return nil, ErrIndexingInProgress
	}
	defer idx.lock.Release()

	if config == nil {
		config = &Config{
			Workers:   runtime.NumCPU(),
			BatchSize: 20,
		}
	}

	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	idx.workers = config.Workers

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	// Get or create project
	project, settingsChanged, err := idx.getOrCreateProject(ctx, rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create project: %w", err)
	}

	// Stored chunks from other settings cannot be reused
	force := config.ForceReindex || settingsChanged

	// Discover text files
	files, err := idx.discoverFiles(rootPath, config)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	// Index files concurrently
	err = idx.indexFiles(ctx, project, files, config, force, stats)
	if err != nil {
		return nil, fmt.Errorf("failed to index files: %w", err)
	}

	// Drop files that disappeared since the last run
	removed, err := idx.removeDeletedFiles(ctx, project, files)
	if err != nil {
		return nil, fmt.Errorf("failed to remove deleted files: %w", err)
	}
	stats.FilesRemoved = removed

	// Update project statistics
	if err := idx.updateProjectStats(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project stats: %w", err)
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// getOrCreateProject retrieves an existing project or creates a new one.
// An existing project indexed with different analyzer settings is updated
// and reported as changed.
func (idx *Indexer) getOrCreateProject(ctx context.Context, rootPath string) (*storage.Project, bool, error) {
	settings := idx.analyzer.Settings()

	// Try to get existing project
	project, err := idx.storage.GetProject(ctx, rootPath)
	if err == nil {
		if sameSettings(project, settings) {
			return project, false, nil
		}
		project.SplitLength = settings.Length
		project.Tokenizer = settings.Tokenizer
		project.Filters = settings.Filters
		if err := idx.storage.UpdateProject(ctx, project); err != nil {
			return nil, false, err
		}
		return project, true, nil
	}

	if err != storage.ErrNotFound {
		return nil, false, err
	}

	// Create new project
	project = &storage.Project{
		RootPath:     rootPath,
		SplitLength:  settings.Length,
		Tokenizer:    settings.Tokenizer,
		Filters:      settings.Filters,
		IndexVersion: storage.CurrentSchemaVersion,
	}

	if err := idx.storage.CreateProject(ctx, project); err != nil {
		return nil, false, err
	}

	return project, false, nil
}

func sameSettings(project *storage.Project, settings analysis.Settings) bool {
	return project.SplitLength == settings.Length &&
		project.Tokenizer == settings.Tokenizer &&
		slices.Equal(project.Filters, settings.Filters)
}

// discoverFiles finds all files with an indexed extension
func (idx *Indexer) discoverFiles(rootPath string, config *Config) ([]string, error) {
	extensions := config.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	var files []string

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if info.IsDir() {
			// Skip hidden directories
			if path != rootPath && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		if !hasExtension(path, extensions) {
			return nil
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// indexFiles indexes a batch of files concurrently
func (idx *Indexer) indexFiles(ctx context.Context, project *storage.Project, files []string, config *Config, force bool, stats *Statistics) error {
	// Create worker pool with semaphore
	semaphore := make(chan struct{}, idx.workers)

	// Track progress with atomic counters
	var (
		indexed int32
		skipped int32
		failed  int32
		chunks  int32
	)

	// Process files in batches for transaction efficiency
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}

	// Use errgroup for concurrent processing with error propagation
	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex // Protect stats.ErrorMessages

	for i := 0; i < len(files); i += batchSize {
		end := i + batchSize
		if end > len(files) {
			end = len(files)
		}
		batch := files[i:end]

		g.Go(func() error {
			c := &counters{indexed: &indexed, skipped: &skipped, failed: &failed, chunks: &chunks}
			return idx.indexBatch(gctx, project, batch, config, force, semaphore, c, &mu, stats)
		})
	}

	// Wait for all goroutines to complete
	if err := g.Wait(); err != nil {
		return err
	}

	// Update statistics
	stats.FilesIndexed = int(indexed)
	stats.FilesSkipped = int(skipped)
	stats.FilesFailed = int(failed)
	stats.ChunksCreated = int(chunks)

	return nil
}

// counters are shared by all batches of one run
type counters struct {
	indexed, skipped, failed, chunks *int32
}

// indexBatch indexes a batch of files within a transaction
func (idx *Indexer) indexBatch(ctx context.Context, project *storage.Project, files []string,
	config *Config, force bool, semaphore chan struct{}, c *counters,
	mu *sync.Mutex, stats *Statistics) error {

	// Start a transaction for this batch
	tx, err := idx.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Process each file in the batch
	for _, filePath := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case semaphore <- struct{}{}:
			// Acquire semaphore
		}

		n, skip, err := idx.indexFile(ctx, tx, project, filePath, config, force)
		<-semaphore // Release semaphore

		if err != nil {
			if derr := discardFile(ctx, tx, project, filePath); derr != nil {
				// A stale row would be skipped as unchanged on the next run
				return fmt.Errorf("failed to discard %s after error: %w", filePath, derr)
			}
			atomic.AddInt32(c.failed, 1)
			log.Printf("indexer: failed to index %s: %v", filePath, err)
			mu.Lock()
			stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", filePath, err))
			mu.Unlock()
			// Continue with other files
			continue
		}
		if skip {
			atomic.AddInt32(c.skipped, 1)
			continue
		}
		atomic.AddInt32(c.indexed, 1)
		atomic.AddInt32(c.chunks, int32(n))
	}

	// Commit the batch
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// indexFile analyzes a single file and stores its chunks. It reports the
// number of chunks written and whether the file was skipped as unchanged.
func (idx *Indexer) indexFile(ctx context.Context, store storage.Storage, project *storage.Project,
	filePath string, config *Config, force bool) (int, bool, error) {

	// Compute relative path
	relPath, err := filepath.Rel(project.RootPath, filePath)
	if err != nil {
		return 0, false, err
	}
	relPath = filepath.ToSlash(relPath)

	// Compute file hash
	hash, modTime, sizeBytes, err := computeFileHash(filePath)
	if err != nil {
		return 0, false, err
	}

	// Check if file has changed and handle incremental update
	shouldSkip, err := idx.checkFileChanged(ctx, store, project.ID, relPath, hash, force)
	if err != nil {
		return 0, false, err
	}
	if shouldSkip {
		return 0, true, nil
	}

	tokens, endOffset, err := idx.analyzeFile(filePath, config.ByteOffsets)
	if err != nil {
		return 0, false, fmt.Errorf("failed to analyze file: %w", err)
	}

	// Create or update file record
	file := &storage.File{
		ProjectID:   project.ID,
		FilePath:    relPath,
		ContentHash: hash,
		ModTime:     modTime,
		SizeBytes:   sizeBytes,
		EndOffset:   endOffset,
	}
	if err := store.UpsertFile(ctx, file); err != nil {
		return 0, false, err
	}

	// Store chunks
	chunks := make([]*storage.Chunk, len(tokens))
	for i, tok := range tokens {
		chunks[i] = &storage.Chunk{
			FileID:      file.ID,
			Position:    i,
			Text:        tok.Text,
			StartOffset: tok.Start,
			EndOffset:   tok.End,
		}
	}
	if err := store.InsertChunks(ctx, chunks); err != nil {
		return 0, false, fmt.Errorf("failed to store chunks: %w", err)
	}

	return len(chunks), false, nil
}

// analyzeFile runs the analyzer over a file. The file is streamed unless
// byte offsets are requested, which need the whole text up front.
func (idx *Indexer) analyzeFile(filePath string, byteOffsets bool) ([]types.Token, int, error) {
	var (
		r    io.Reader
		opts []analysis.TokenizerOption
	)

	if byteOffsets {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return nil, 0, err
		}
		r = bytes.NewReader(content)
		opts = append(opts, analysis.WithOffsetCorrector(analysis.ByteOffsets(string(content))))
	} else {
		f, err := os.Open(filePath)
		if err != nil {
			return nil, 0, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	return idx.analyzer.AnalyzeAll(r, opts...)
}

// discardFile removes the stored record of a file that failed to index, so
// the next run sees it as new instead of unchanged.
func discardFile(ctx context.Context, store storage.Storage, project *storage.Project, filePath string) error {
	relPath, err := filepath.Rel(project.RootPath, filePath)
	if err != nil {
		return err
	}
	file, err := store.GetFile(ctx, project.ID, filepath.ToSlash(relPath))
	if err == storage.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return store.DeleteFile(ctx, file.ID)
}

// checkFileChanged checks if a file has changed and needs re-indexing
func (idx *Indexer) checkFileChanged(ctx context.Context, store storage.Storage, projectID int64,
	relPath string, hash [32]byte, force bool) (bool, error) {

	existingFile, err := store.GetFile(ctx, projectID, relPath)
	if err == storage.ErrNotFound {
		// New file, needs indexing
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// File exists - check if it has changed
	if !force && existingFile.ContentHash == hash {
		// File unchanged, skip
		return true, nil
	}

	// File changed - delete old chunks before re-indexing
	if err := store.DeleteChunksByFile(ctx, existingFile.ID); err != nil {
		return false, fmt.Errorf("failed to delete old chunks: %w", err)
	}

	return false, nil
}

// removeDeletedFiles deletes stored files that were not discovered
func (idx *Indexer) removeDeletedFiles(ctx context.Context, project *storage.Project, discovered []string) (int, error) {
	present := make(map[string]struct{}, len(discovered))
	for _, path := range discovered {
		relPath, err := filepath.Rel(project.RootPath, path)
		if err != nil {
			return 0, err
		}
		present[filepath.ToSlash(relPath)] = struct{}{}
	}

	files, err := idx.storage.ListFiles(ctx, project.ID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, file := range files {
		if _, ok := present[file.FilePath]; ok {
			continue
		}
		if err := idx.storage.DeleteFile(ctx, file.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// updateProjectStats updates the project's file and chunk counts
func (idx *Indexer) updateProjectStats(ctx context.Context, project *storage.Project) error {
	// Get file count
	files, err := idx.storage.ListFiles(ctx, project.ID)
	if err != nil {
		return err
	}

	totalChunks, err := idx.storage.CountChunks(ctx, project.ID)
	if err != nil {
		return err
	}

	project.TotalFiles = len(files)
	project.TotalChunks = totalChunks
	project.LastIndexedAt = time.Now()

	return idx.storage.UpdateProject(ctx, project)
}

// computeFileHash computes SHA-256 hash of a file
func computeFileHash(filePath string) ([32]byte, time.Time, int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return [32]byte{}, time.Time{}, 0, err
	}
	defer func() { _ = file.Close() }()

	// Get file info
	info, err := file.Stat()
	if err != nil {
		return [32]byte{}, time.Time{}, 0, err
	}

	// Compute hash
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return [32]byte{}, time.Time{}, 0, err
	}

	var result [32]byte
	copy(result[:], hash.Sum(nil))

	return result, info.ModTime(), info.Size(), nil
}
