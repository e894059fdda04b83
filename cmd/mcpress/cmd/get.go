package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mcpress/mcpress/internal/articles"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [article-id]",
	Short: "Show a single article",
	Long: `Show a single article with its full content.

Examples:
  mcpress get 550e8400-e29b-41d4-a716-446655440001
  mcpress get 550e8400-e29b-41d4-a716-446655440001 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format: text or json")
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, GetConfig())
	if err != nil {
		return err
	}
	defer closeStore()

	article, err := articles.NewService(store).GetArticle(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(out, article)
	}

	if article == nil {
		fmt.Fprintf(out, "Article %s not found.\n", args[0])
		return nil
	}

	writeArticleHeader(out, *article)
	if len(article.Keywords) > 0 {
		fmt.Fprintf(out, "Keywords: %s\n", strings.Join(article.Keywords, ", "))
	}
	fmt.Fprintf(out, "\nSummary:\n%s\n\nContent:\n%s\n", article.Summary, article.Content)
	return nil
}
