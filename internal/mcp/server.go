package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/splitindex/internal/analysis"
	"github.com/dshills/splitindex/internal/indexer"
	"github.com/dshills/splitindex/internal/searcher"
	"github.com/dshills/splitindex/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "splitindex"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the database
	DefaultDBPath = "~/.splitindex"
	// dbFileName is the database file created under the database directory
	dbFileName = "splitindex.db"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	storage  storage.Storage
	analyzer *analysis.Analyzer
	indexer  *indexer.Indexer
	searcher *searcher.Searcher
}

// NewServer creates a new MCP server instance. Documents indexed through
// it are analyzed with settings.
func NewServer(dbPath string, settings analysis.Settings) (*Server, error) {
	analyzer, err := analysis.NewAnalyzer(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize analyzer: %w", err)
	}

	// Expand home directory if needed
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".splitindex")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Initialize storage
	store, err := storage.NewSQLiteStorage(filepath.Join(dbPath, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithRecovery(),
	)

	s := &Server{
		mcp:      mcpServer,
		storage:  store,
		analyzer: analyzer,
		indexer:  indexer.New(store, analyzer),
		searcher: searcher.NewSearcher(store),
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// Close releases the storage without serving
func (s *Server) Close() error {
	return s.storage.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(indexDocumentsTool(), s.handleIndexDocuments)
	s.mcp.AddTool(searchTextTool(), s.handleSearchText)
	s.mcp.AddTool(analyzeTextTool(), s.handleAnalyzeText)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)

	return nil
}
