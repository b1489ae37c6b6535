package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchArticlesTool defines the search_articles MCP tool.
var searchArticlesTool = mcp.NewTool("search_articles",
	mcp.WithDescription("Search ByteToBeacon articles. Every whitespace-separated term must appear in the title, excerpt, content, author, category or tags."),
	mcp.WithString("query",
		mcp.Description("Search terms; queries shorter than two characters match everything"),
	),
	mcp.WithString("category",
		mcp.Description("Exact category name, or \"all\""),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
)

// getArticleTool defines the get_article MCP tool.
var getArticleTool = mcp.NewTool("get_article",
	mcp.WithDescription("Get the full text of one article by slug or numeric id."),
	mcp.WithString("ref",
		mcp.Required(),
		mcp.Description("Article slug, e.g. \"understanding-serverless\", or id"),
	),
)

// listCategoriesTool defines the list_categories MCP tool.
var listCategoriesTool = mcp.NewTool("list_categories",
	mcp.WithDescription("List article categories in first-appearance order with article counts."),
)
