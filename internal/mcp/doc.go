// Package mcp implements the Model Context Protocol (MCP) server for splitindex.
//
// The server exposes four tools:
//   - index_documents: Split the text files under a directory and index the chunks
//   - search_text: Find indexed files containing the chunks of a query
//   - analyze_text: Split arbitrary text and return the chunks with offsets
//   - get_status: Check indexing status and statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport. Logs go to stderr;
// stdout carries protocol messages only.
//
// # Tool: analyze_text
//
//	Request:
//	{
//	  "name": "analyze_text",
//	  "arguments": {"text": "hello", "length": 2}
//	}
//
//	Response:
//	{
//	  "count": 3,
//	  "end_offset": 5,
//	  "settings": {"filters": [], "length": 2, "tokenizer": "split"},
//	  "tokens": [
//	    {"end": 2, "start": 0, "text": "he"},
//	    {"end": 4, "start": 2, "text": "ll"},
//	    {"end": 5, "start": 4, "text": "o"}
//	  ]
//	}
//
// Omitted settings fall back to the server's analyzer settings.
//
// # Tool: index_documents
//
//	{
//	  "name": "index_documents",
//	  "arguments": {
//	    "path": "/path/to/docs",
//	    "extensions": [".txt", ".md"],
//	    "force_reindex": false,
//	    "byte_offsets": false
//	  }
//	}
//
// # Tool: search_text
//
//	{
//	  "name": "search_text",
//	  "arguments": {
//	    "path": "/path/to/docs",
//	    "query": "hello",
//	    "limit": 10,
//	    "filters": {"file_pattern": "notes/*", "min_score": 0.5}
//	  }
//	}
//
// # Error Codes
//
// Errors are returned as *MCPError:
//   - -32602: Invalid parameters
//   - -32603: Internal error
//   - -32001: Path is not a directory
//   - -32002: Indexing already in progress
//   - -32003: Project not indexed
//   - -32004: Empty query
package mcp
