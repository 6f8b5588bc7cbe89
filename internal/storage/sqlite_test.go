package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func createTestProject(t *testing.T, s *SQLiteStorage, rootPath string) *Project {
	t.Helper()
	project := &Project{
		RootPath:     rootPath,
		SplitLength:  2,
		Tokenizer:    "split",
		IndexVersion: CurrentSchemaVersion,
	}
	require.NoError(t, s.CreateProject(context.Background(), project))
	return project
}

func createTestFile(t *testing.T, s Storage, projectID int64, path string, texts ...string) *File {
	t.Helper()
	ctx := context.Background()
	file := &File{
		ProjectID:   projectID,
		FilePath:    path,
		ContentHash: [32]byte{byte(len(path))},
		ModTime:     time.Now(),
		SizeBytes:   100,
	}
	require.NoError(t, s.UpsertFile(ctx, file))

	chunks := make([]*Chunk, len(texts))
	offset := 0
	for i, text := range texts {
		n := len([]rune(text))
		chunks[i] = &Chunk{FileID: file.ID, Position: i, Text: text, StartOffset: offset, EndOffset: offset + n}
		offset += n
	}
	require.NoError(t, s.InsertChunks(ctx, chunks))
	return file
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	assert.NotNil(t, storage.db)
}

func TestCreateProject(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := &Project{
		RootPath:     "/test/path",
		SplitLength:  3,
		Tokenizer:    "words",
		Filters:      []string{"split"},
		IndexVersion: CurrentSchemaVersion,
	}
	require.NoError(t, storage.CreateProject(ctx, project))
	assert.Greater(t, project.ID, int64(0))

	// Try to create duplicate - should fail
	duplicate := &Project{RootPath: "/test/path", SplitLength: 2, Tokenizer: "split", IndexVersion: CurrentSchemaVersion}
	assert.Error(t, storage.CreateProject(ctx, duplicate))

	got, err := storage.GetProject(ctx, "/test/path")
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
	assert.Equal(t, 3, got.SplitLength)
	assert.Equal(t, "words", got.Tokenizer)
	assert.Equal(t, []string{"split"}, got.Filters)
	assert.True(t, got.LastIndexedAt.IsZero())

	byID, err := storage.GetProjectByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "/test/path", byID.RootPath)
}

func TestGetProject_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	_, err := storage.GetProject(context.Background(), "/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProject(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createTestProject(t, storage, "/test/update")

	project.TotalFiles = 4
	project.TotalChunks = 40
	project.LastIndexedAt = time.Now()
	require.NoError(t, storage.UpdateProject(ctx, project))

	got, err := storage.GetProject(ctx, "/test/update")
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalFiles)
	assert.Equal(t, 40, got.TotalChunks)
	assert.False(t, got.LastIndexedAt.IsZero())
	assert.Empty(t, got.Filters)
}

func TestUpsertFile(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createTestProject(t, storage, "/test/files")

	file := &File{
		ProjectID:   project.ID,
		FilePath:    "a.txt",
		ContentHash: [32]byte{1, 2, 3},
		ModTime:     time.Now(),
		SizeBytes:   10,
		EndOffset:   9,
	}
	require.NoError(t, storage.UpsertFile(ctx, file))
	firstID := file.ID

	// Update same path keeps the id
	file.ContentHash = [32]byte{4, 5, 6}
	file.EndOffset = 12
	require.NoError(t, storage.UpsertFile(ctx, file))
	assert.Equal(t, firstID, file.ID)

	got, err := storage.GetFile(ctx, project.ID, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, [32]byte{4, 5, 6}, got.ContentHash)
	assert.Equal(t, 12, got.EndOffset)

	byID, err := storage.GetFileByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", byID.FilePath)

	_, err = storage.GetFile(ctx, project.ID, "missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndDeleteFiles(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createTestProject(t, storage, "/test/list")

	b := createTestFile(t, storage, project.ID, "b.txt", "he", "ll", "o")
	createTestFile(t, storage, project.ID, "a.txt", "wo")

	files, err := storage.ListFiles(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].FilePath)
	assert.Equal(t, "b.txt", files[1].FilePath)

	// Chunks cascade with the file
	require.NoError(t, storage.DeleteFile(ctx, b.ID))
	chunks, err := storage.ListChunksByFile(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	count, err := storage.CountChunks(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInsertAndListChunks(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createTestProject(t, storage, "/test/chunks")
	file := createTestFile(t, storage, project.ID, "hello.txt", "he", "ll", "o")

	chunks, err := storage.ListChunksByFile(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	want := []struct {
		text       string
		start, end int
	}{{"he", 0, 2}, {"ll", 2, 4}, {"o", 4, 5}}
	for i, w := range want {
		assert.Equal(t, i, chunks[i].Position)
		assert.Equal(t, w.text, chunks[i].Text)
		assert.Equal(t, w.start, chunks[i].StartOffset)
		assert.Equal(t, w.end, chunks[i].EndOffset)
		assert.Greater(t, chunks[i].ID, int64(0))
	}

	// Duplicate positions are rejected
	err = storage.InsertChunks(ctx, []*Chunk{{FileID: file.ID, Position: 0, Text: "xx"}})
	assert.Error(t, err)

	require.NoError(t, storage.DeleteChunksByFile(ctx, file.ID))
	chunks, err = storage.ListChunksByFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	assert.NoError(t, storage.InsertChunks(ctx, nil))
}

func TestSearchChunks(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createTestProject(t, storage, "/test/search")

	createTestFile(t, storage, project.ID, "docs/hello.txt", "he", "ll", "o ", "wo", "rl", "d")
	createTestFile(t, storage, project.ID, "docs/help.txt", "he", "lp", "he", "lp")
	createTestFile(t, storage, project.ID, "other/yellow.txt", "ye", "ll", "ow")

	t.Run("ranked by matched terms then hits", func(t *testing.T) {
		results, err := storage.SearchChunks(ctx, project.ID, []string{"he", "ll", "o"}, 10, nil)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "docs/hello.txt", results[0].FilePath)
		assert.Equal(t, 2, results[0].MatchedTerms)
		assert.InDelta(t, 2.0/3.0, results[0].Score, 1e-9)

		assert.Equal(t, "docs/help.txt", results[1].FilePath)
		assert.Equal(t, 1, results[1].MatchedTerms)
		assert.Equal(t, 2, results[1].Hits)

		assert.Equal(t, "other/yellow.txt", results[2].FilePath)
		assert.Equal(t, 1, results[2].Hits)
	})

	t.Run("duplicate terms count once", func(t *testing.T) {
		results, err := storage.SearchChunks(ctx, project.ID, []string{"he", "he", ""}, 10, nil)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, 1.0, results[0].Score)
	})

	t.Run("file pattern", func(t *testing.T) {
		results, err := storage.SearchChunks(ctx, project.ID, []string{"ll"}, 10, &SearchFilters{FilePattern: "other/*"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "other/yellow.txt", results[0].FilePath)
	})

	t.Run("min score", func(t *testing.T) {
		results, err := storage.SearchChunks(ctx, project.ID, []string{"he", "ll", "wo"}, 10, &SearchFilters{MinScore: 1})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "docs/hello.txt", results[0].FilePath)
	})

	t.Run("limit", func(t *testing.T) {
		results, err := storage.SearchChunks(ctx, project.ID, []string{"he", "ll"}, 1, nil)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := storage.SearchChunks(ctx, project.ID, []string{""}, 10, nil)
		assert.Error(t, err)
	})

	t.Run("no match", func(t *testing.T) {
		results, err := storage.SearchChunks(ctx, project.ID, []string{"zz"}, 10, nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestListMatchingChunks(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createTestProject(t, storage, "/test/matching")
	file := createTestFile(t, storage, project.ID, "help.txt", "he", "lp", "he", "lp")

	chunks, err := storage.ListMatchingChunks(ctx, file.ID, []string{"he"})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].Position)
	assert.Equal(t, 2, chunks[1].Position)
	assert.Equal(t, 4, chunks[1].StartOffset)

	chunks, err = storage.ListMatchingChunks(ctx, file.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestGetStatus(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createTestProject(t, storage, "/test/status")

	status, err := storage.GetStatus(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, status.FilesCount)
	assert.False(t, status.Health.ChunksAvailable)

	createTestFile(t, storage, project.ID, "a.txt", "ab", "cd", "ab")
	createTestFile(t, storage, project.ID, "b.txt", "ab")

	status, err = storage.GetStatus(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, status.FilesCount)
	assert.Equal(t, 4, status.ChunksCount)
	assert.Equal(t, 2, status.DistinctTerms)
	assert.True(t, status.Health.DatabaseAccessible)
	assert.True(t, status.Health.ChunksAvailable)
	assert.Equal(t, project.ID, status.Project.ID)

	_, err = storage.GetStatus(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransaction(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createTestProject(t, storage, "/test/tx")

	t.Run("commit", func(t *testing.T) {
		tx, err := storage.BeginTx(ctx)
		require.NoError(t, err)

		file := createTestFile(t, tx, project.ID, "committed.txt", "ab", "c")
		chunks, err := tx.ListChunksByFile(ctx, file.ID)
		require.NoError(t, err)
		assert.Len(t, chunks, 2)

		status, err := tx.GetStatus(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, status.FilesCount)

		require.NoError(t, tx.Commit())

		_, err = storage.GetFile(ctx, project.ID, "committed.txt")
		assert.NoError(t, err)
	})

	t.Run("rollback", func(t *testing.T) {
		tx, err := storage.BeginTx(ctx)
		require.NoError(t, err)

		createTestFile(t, tx, project.ID, "rolled.txt", "ab")
		require.NoError(t, tx.Rollback())

		_, err = storage.GetFile(ctx, project.ID, "rolled.txt")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("nested", func(t *testing.T) {
		tx, err := storage.BeginTx(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()

		_, err = tx.BeginTx(ctx)
		assert.Error(t, err)
		assert.NoError(t, tx.Close())
	})
}
