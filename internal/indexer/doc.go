// Package indexer walks a directory of text documents and stores their
// split chunks.
//
// Every file is streamed through the configured analysis chain and each
// emitted chunk is stored with its position and offsets. The analyzer
// settings are recorded on the project; indexing the same root with other
// settings re-analyzes every file.
//
// # Basic Usage
//
//	analyzer, _ := analysis.NewAnalyzer(analysis.DefaultSettings())
//	idx := indexer.New(store, analyzer)
//
//	stats, err := idx.IndexProject(ctx, "/path/to/docs", &indexer.Config{
//	    Extensions: []string{".txt", ".md"},
//	})
//
//	fmt.Printf("Indexed %d files in %v\n", stats.FilesIndexed, stats.Duration)
//
// # Incremental Indexing
//
// Files are hashed with SHA-256. Unchanged files are skipped, changed files
// have their chunks replaced and files no longer on disk are removed.
// Config.ForceReindex re-analyzes everything.
//
// # Concurrency
//
// Files are processed in batches, one transaction per batch, with an
// errgroup and a semaphore bounding the number of workers. Only one
// IndexProject call may run per Indexer; a second concurrent call returns
// ErrIndexingInProgress.
//
// # Offsets
//
// Offsets count characters by default. With Config.ByteOffsets the whole
// file is read first and offsets are mapped to UTF-8 byte positions.
//
// # Error Handling
//
// Only fatal errors (storage, discovery, cancellation) are returned. Files
// that fail to read or analyze are logged, counted in FilesFailed and
// listed in ErrorMessages.
package indexer
