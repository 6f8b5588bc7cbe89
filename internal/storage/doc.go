// Package storage provides SQLite-based persistence for split-analyzed documents.
//
// The storage layer manages:
//   - Project metadata, including the analyzer settings used to index it
//   - File information and content hashes
//   - Chunks with their position and character offsets
//
// # Database Schema
//
// Tables:
//   - projects: Indexed root path, split length, tokenizer and filters
//   - files: File paths, SHA-256 hashes and final offsets
//   - chunks: One row per emitted chunk (text, start_offset, end_offset)
//
// Migrations are versioned with semantic versions and applied in order by
// ApplyMigrations when the storage is opened.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("/var/lib/splitindex/splitindex.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	file := &storage.File{ProjectID: project.ID, FilePath: "notes/a.txt", ContentHash: hash}
//	if err := db.UpsertFile(ctx, file); err != nil {
//	    return err
//	}
//
// # Transactions
//
// Use transactions for atomic operations:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	_ = tx.UpsertFile(ctx, file)
//	_ = tx.InsertChunks(ctx, chunks)
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// # Searching
//
// SearchChunks treats each query term as an exact chunk text. Files are
// ranked by the number of distinct terms they contain, then by the number
// of matching chunks. Because documents and queries go through the same
// analyzer, a query "hello" split at 2 looks up "he", "ll" and "o".
//
// # Build Modes
//
// The default build uses modernc.org/sqlite (pure Go). Building with
// -tags sqlite_cgo switches to github.com/mattn/go-sqlite3.
package storage
