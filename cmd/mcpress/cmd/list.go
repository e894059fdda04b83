package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/mcpress/mcpress/internal/articles"
	"github.com/mcpress/mcpress/pkg/models"
	"github.com/spf13/cobra"
)

var (
	listCategory    string
	listMediaSource string
	listAuthor      string
	listLimit       int
	listOffset      int
	outputFormat    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles",
	Long: `List articles, newest first, with optional filters.

Examples:
  # Latest articles
  mcpress list

  # Second page of politics articles from one outlet
  mcpress list --category politics --media-source "BBC News" --limit 10 --offset 10

  # JSON output for scripting
  mcpress list --author "Emma Thompson" --format json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category name")
	listCmd.Flags().StringVar(&listMediaSource, "media-source", "", "Filter by media organization name")
	listCmd.Flags().StringVar(&listAuthor, "author", "", "Filter by author name")
	listCmd.Flags().IntVar(&listLimit, "limit", articles.DefaultListLimit, "Maximum number of articles")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of articles to skip")
	listCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format: text or json")
}

func runList(cmd *cobra.Command, args []string) error {
	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, GetConfig())
	if err != nil {
		return err
	}
	defer closeStore()

	results, err := articles.NewService(store).ListArticles(ctx, articles.ListFilter{
		Category:    listCategory,
		MediaSource: listMediaSource,
		Author:      listAuthor,
		Limit:       listLimit,
		Offset:      listOffset,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(out, results)
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No articles found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d articles:\n\n", len(results))
	for i, a := range results {
		fmt.Fprintf(out, "─── Article %d ───\n", listOffset+i+1)
		writeArticleHeader(out, a)
		fmt.Fprintf(out, "Summary: %s\n\n", truncate(a.Summary, 300))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func writeArticleHeader(w io.Writer, a models.FlatArticle) {
	fmt.Fprintf(w, "Title:   %s\n", a.Title)
	fmt.Fprintf(w, "URL:     %s\n", a.URL)
	fmt.Fprintf(w, "ID:      %s\n", a.ID)
	if a.Author != nil {
		fmt.Fprintf(w, "Author:  %s\n", *a.Author)
	}
	if a.PublishedDate != nil {
		fmt.Fprintf(w, "Date:    %s\n", *a.PublishedDate)
	}
	if a.Category != nil {
		fmt.Fprintf(w, "Category: %s\n", *a.Category)
	}
	if a.MediaSource != nil {
		fmt.Fprintf(w, "Source:  %s\n", *a.MediaSource)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
