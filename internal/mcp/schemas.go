package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexDocumentsTool returns the tool definition for index_documents
func indexDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_documents",
		Description: "Split the text documents under a directory into fixed-length chunks and index them",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the document directory",
				},
				"force_reindex": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, re-index all files ignoring file hashes (full rebuild)",
					"default":     false,
				},
				"extensions": map[string]interface{}{
					"type":        "array",
					"description": "File extensions to index (default: .txt, .md)",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"byte_offsets": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, store UTF-8 byte offsets instead of character offsets",
					"default":     false,
				},
			},
			Required: []string{"path"},
		},
	}
}

// searchTextTool returns the tool definition for search_text
func searchTextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_text",
		Description: "Find indexed documents containing the chunks of a query, analyzed the same way as the documents",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to an indexed document directory",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Text to look up",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of documents to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"max_matches": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of matching chunks reported per document",
					"default":     20,
					"minimum":     1,
				},
				"filters": map[string]interface{}{
					"type":        "object",
					"description": "Optional filters to narrow search",
					"properties": map[string]interface{}{
						"file_pattern": map[string]interface{}{
							"type":        "string",
							"description": "Glob pattern for file paths (e.g., 'notes/*')",
						},
						"min_score": map[string]interface{}{
							"type":        "number",
							"description": "Minimum fraction of query chunks a document must contain (0.0-1.0)",
							"minimum":     0.0,
							"maximum":     1.0,
						},
					},
				},
			},
			Required: []string{"path", "query"},
		},
	}
}

// analyzeTextTool returns the tool definition for analyze_text
func analyzeTextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "analyze_text",
		Description: "Split text into fixed-length chunks and return each chunk with its offsets",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Text to analyze",
				},
				"length": map[string]interface{}{
					"type":        "integer",
					"description": "Characters per chunk (default: server setting)",
					"minimum":     1,
				},
				"tokenizer": map[string]interface{}{
					"type":        "string",
					"description": "Leaf tokenizer: split (fixed-length) or words (word boundaries)",
					"enum":        []string{"split", "words"},
				},
				"filters": map[string]interface{}{
					"type":        "array",
					"description": "Filters applied after the tokenizer",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"split"},
					},
				},
				"byte_offsets": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, report UTF-8 byte offsets instead of character offsets",
					"default":     false,
				},
			},
			Required: []string{"text"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query indexing status and statistics for a document directory",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the document directory",
				},
			},
			Required: []string{"path"},
		},
	}
}
