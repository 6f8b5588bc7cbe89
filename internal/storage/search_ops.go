package storage

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// searchChunks ranks the files of a project by how many distinct query
// terms they contain as stored chunks, then by total matching chunks.
func searchChunks(ctx context.Context, q querier, projectID int64, terms []string, limit int, filters *SearchFilters) ([]ChunkResult, error) {
	terms = uniqueTerms(terms)
	if len(terms) == 0 {
		return nil, fmt.Errorf("empty search query")
	}

	placeholders, args := inClause(terms)
	sqlQuery := `
		SELECT
			f.id, f.file_path, f.size_bytes,
			COUNT(DISTINCT c.text) AS matched,
			COUNT(*) AS hits
		FROM chunks c
		INNER JOIN files f ON c.file_id = f.id
		WHERE f.project_id = ?
		AND c.text IN (` + placeholders + `)
	`
	args = append([]interface{}{projectID}, args...)

	// Apply filters
	sqlQuery, args = applyChunkFilters(sqlQuery, args, filters)

	sqlQuery += " GROUP BY f.id"
	if min := minMatched(len(terms), filters); min > 1 {
		sqlQuery += " HAVING COUNT(DISTINCT c.text) >= ?"
		args = append(args, min)
	}
	sqlQuery += " ORDER BY matched DESC, hits DESC, f.file_path LIMIT ?"
	args = append(args, limit)

	rows, err := q.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute chunk search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]ChunkResult, 0)
	for rows.Next() {
		var r ChunkResult
		if err := rows.Scan(&r.FileID, &r.FilePath, &r.SizeBytes, &r.MatchedTerms, &r.Hits); err != nil {
			return nil, err
		}
		r.Score = float64(r.MatchedTerms) / float64(len(terms))
		results = append(results, r)
	}
	return results, rows.Err()
}

// listMatchingChunks returns the chunks of one file equal to any term
func listMatchingChunks(ctx context.Context, q querier, fileID int64, terms []string) ([]*Chunk, error) {
	terms = uniqueTerms(terms)
	if len(terms) == 0 {
		return []*Chunk{}, nil
	}

	placeholders, args := inClause(terms)
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE file_id = ? AND text IN (` + placeholders + `) ORDER BY position`
	rows, err := q.QueryContext(ctx, query, append([]interface{}{fileID}, args...)...)
	if err != nil {
		return nil, err
	}
	return collectChunks(rows)
}

// Helper functions

// applyChunkFilters adds WHERE clause filters for chunk search
func applyChunkFilters(query string, args []interface{}, filters *SearchFilters) (string, []interface{}) {
	if filters == nil {
		return query, args
	}

	if filters.FilePattern != "" {
		query += " AND f.file_path GLOB ?"
		args = append(args, filters.FilePattern)
	}

	return query, args
}

// minMatched converts the minimum score filter into a term count
func minMatched(termCount int, filters *SearchFilters) int {
	if filters == nil || filters.MinScore <= 0 {
		return 1
	}
	return int(math.Ceil(filters.MinScore * float64(termCount)))
}

// inClause builds a parameterized IN list
func inClause(values []string) (string, []interface{}) {
	placeholders := make([]string, len(values))
	args := make([]interface{}, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args[i] = v
	}
	return strings.Join(placeholders, ","), args
}

// uniqueTerms drops empty and repeated terms, keeping first occurrence order
func uniqueTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
