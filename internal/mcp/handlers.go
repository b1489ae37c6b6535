package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bytetobeacon/beacon/internal/articles"
	"github.com/bytetobeacon/beacon/internal/search"
)

// store waits for the article load. The error is already phrased for the
// agent.
func (s *Server) store(ctx context.Context) (*articles.Store, *mcp.CallToolResult) {
	store, err := s.pending.Wait(ctx)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("articles unavailable: %v", err))
	}
	return store, nil
}

// handleSearchArticles filters the store by query and category.
func (s *Server) handleSearchArticles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, errResult := s.store(ctx)
	if errResult != nil {
		return errResult, nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	state := search.State{
		Query:    request.GetString("query", ""),
		Category: request.GetString("category", ""),
	}.Normalize()
	all := store.All()
	results := state.Apply(all)

	if len(results) == 0 {
		return mcp.NewToolResultText("No articles found. Try different keywords or the \"all\" category."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(results, len(all), limit)), nil
}

// handleGetArticle returns one article in full.
func (s *Server) handleGetArticle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("ref")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: ref"), nil
	}

	store, errResult := s.store(ctx)
	if errResult != nil {
		return errResult, nil
	}

	a, err := store.Resolve(ref)
	if errors.Is(err, articles.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("No article found for %q.", ref)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", a.Title)
	writeMeta(&sb, a)
	for _, p := range a.Paragraphs() {
		sb.WriteString("\n")
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListCategories lists categories with their article counts.
func (s *Server) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, errResult := s.store(ctx)
	if errResult != nil {
		return errResult, nil
	}

	all := store.All()
	counts := make(map[string]int)
	for _, a := range all {
		counts[a.Category]++
	}

	var sb strings.Builder
	for _, c := range search.Categories(all) {
		fmt.Fprintf(&sb, "%s (%d)\n", c, counts[c])
	}
	if sb.Len() == 0 {
		return mcp.NewToolResultText("No categories."), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func writeMeta(sb *strings.Builder, a articles.Article) {
	fmt.Fprintf(sb, "Slug: %s\n", a.Slug)
	fmt.Fprintf(sb, "Author: %s\n", a.Author)
	if d := a.Date.Long(); d != "" {
		fmt.Fprintf(sb, "Date: %s\n", d)
	}
	fmt.Fprintf(sb, "Category: %s\n", a.Category)
	if len(a.Tags) > 0 {
		fmt.Fprintf(sb, "Tags: %s\n", strings.Join(a.Tags, ", "))
	}
	if a.ReadTime != "" {
		fmt.Fprintf(sb, "Read time: %s\n", a.ReadTime)
	}
}

// formatSearchResults converts search results into a text format suited to
// agent consumption.
func formatSearchResults(results []articles.Article, total, limit int) string {
	var sb strings.Builder
	sb.WriteString(search.Counter(len(results), total))
	sb.WriteString(" match:\n")

	for i, a := range results {
		if i == limit {
			fmt.Fprintf(&sb, "\n(%d more not shown)\n", len(results)-limit)
			break
		}
		fmt.Fprintf(&sb, "\n--- %s ---\n", a.Title)
		writeMeta(&sb, a)
		if a.Excerpt != "" {
			sb.WriteString("\n")
			sb.WriteString(a.Excerpt)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
