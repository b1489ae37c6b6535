package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bytetobeacon/beacon/internal/search"
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Inspect the article data file",
}

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all articles",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		if jsonOutput {
			return printJSON(store.Document())
		}

		list := store.All()
		if len(list) == 0 {
			fmt.Println("No articles.")
			return nil
		}
		fmt.Printf("%-4s  %-10s  %-18s  %-40s  %s\n", "ID", "DATE", "CATEGORY", "TITLE", "SLUG")
		fmt.Println(strings.Repeat("-", 100))
		for _, a := range list {
			fmt.Printf("%-4d  %-10s  %-18s  %-40s  %s\n",
				a.ID, a.Date.String(), truncate(a.Category, 18), truncate(a.Title, 40), a.Slug)
		}
		fmt.Printf("\n%d articles in %d categories\n", len(list), len(search.Categories(list)))
		return nil
	},
}

var articlesShowCmd = &cobra.Command{
	Use:   "show <id|slug>",
	Short: "Print one article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		a, err := store.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if jsonOutput {
			return printJSON(a)
		}

		fmt.Printf("%s\n", a.Title)
		fmt.Printf("By %s | %s | %s | %s\n", a.Author, a.Date.Long(), a.Category, a.ReadTime)
		if len(a.Tags) > 0 {
			fmt.Printf("Tags: %s\n", strings.Join(a.Tags, ", "))
		}
		fmt.Printf("Path: %s\n", a.Path())
		for _, p := range a.Paragraphs() {
			fmt.Printf("\n%s\n", p)
		}
		return nil
	},
}

var articlesValidateCmd = &cobra.Command{
	Use:   "validate [source]",
	Short: "Check that an article source loads",
	Long: `Loads the article source (the configured one when no argument is given)
and reports duplicate ids or slugs, malformed dates and other decode errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		source := cfg.Articles.Source
		if len(args) == 1 {
			source = args[0]
		}
		store, err := loadArticles(cmd.Context(), cfg, source)
		if err != nil {
			return err
		}
		meta := store.Meta()
		fmt.Printf("%s: %d articles OK", source, store.Len())
		if meta.Version != "" {
			fmt.Printf(" (version %s)", meta.Version)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{articlesListCmd, articlesShowCmd} {
		c.Flags().Bool("json", false, "output as JSON")
		c.Flags().String("source", "", "article source (overrides config)")
		articlesCmd.AddCommand(c)
	}
	articlesCmd.AddCommand(articlesValidateCmd)
	rootCmd.AddCommand(articlesCmd)
}
