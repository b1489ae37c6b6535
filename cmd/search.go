package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bytetobeacon/beacon/internal/articles"
	"github.com/bytetobeacon/beacon/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search articles from the command line",
	Long: `Filters articles the way the blog's live search does: every term of
the query must appear in the title, excerpt, content, author, category
or tags. Queries shorter than two characters only apply the category.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("category", search.AllCategories, "restrict results to one category")
	searchCmd.Flags().Int("limit", 0, "maximum number of results (0 for all)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("source", "", "article source (overrides config)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	source, _ := cmd.Flags().GetString("source")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := loadArticles(cmd.Context(), cfg, source)
	if err != nil {
		return err
	}

	st := search.State{Query: strings.Join(args, " "), Category: category}.Normalize()
	all := store.All()
	results := st.Apply(all)
	total := len(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if jsonOutput {
		return printSearchJSON(st, results, total)
	}

	if total == 0 {
		fmt.Println("No articles found.")
		return nil
	}
	fmt.Printf("%s\n\n", search.Counter(total, len(all)))
	for i, a := range results {
		fmt.Printf("  %d. %s\n", i+1, a.Title)
		fmt.Printf("     %s | %s | %s | %s\n", a.Author, a.Date.Long(), a.Category, a.ReadTime)
		fmt.Printf("     %s\n\n", truncate(a.Excerpt, 120))
	}
	if total > len(results) {
		fmt.Printf("(%d more not shown)\n", total-len(results))
	}
	return nil
}

type searchResultJSON struct {
	Rank     int      `json:"rank"`
	ID       int      `json:"id"`
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Date     string   `json:"date"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
	Excerpt  string   `json:"excerpt"`
}

func printSearchJSON(st search.State, results []articles.Article, total int) error {
	out := struct {
		Query    string             `json:"query"`
		Category string             `json:"category"`
		Total    int                `json:"total"`
		Results  []searchResultJSON `json:"results"`
	}{Query: st.Query, Category: st.Category, Total: total, Results: []searchResultJSON{}}
	for i, a := range results {
		out.Results = append(out.Results, searchResultJSON{
			Rank:     i + 1,
			ID:       a.ID,
			Slug:     a.Slug,
			Title:    a.Title,
			Author:   a.Author,
			Date:     a.Date.String(),
			Category: a.Category,
			Tags:     a.Tags,
			Excerpt:  a.Excerpt,
		})
	}
	return printJSON(out)
}
