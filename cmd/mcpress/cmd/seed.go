package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/mcpress/mcpress/internal/sqlstore"
	"github.com/spf13/cobra"
)

var (
	seedFile    string
	seedMigrate bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load articles from a fixtures file",
	Long: `Load articles from a YAML fixtures file into a postgres or sqlite
database. Categories and organizations are created by name; articles are
upserted by URL, so the same file can be loaded repeatedly.

Fixture format:
  articles:
    - url: https://bbc.com/climate-summit-results
      title: Global Climate Summit Produces Historic Agreement
      author: Emma Thompson
      published_date: "2024-01-24"
      content: ...
      summary: ...
      keywords: [climate, politics]
      category: politics
      organization: {name: BBC News, email: news@bbc.co.uk}

Example:
  mcpress seed --file ./config/articles.yaml --migrate`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML fixtures file (required)")
	seedCmd.Flags().BoolVar(&seedMigrate, "migrate", false, "Create the schema before seeding")
	seedCmd.MarkFlagRequired("file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fixtures, err := sqlstore.LoadFixtures(seedFile)
	if err != nil {
		return err
	}

	store, err := openSQLStore(ctx, GetConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	if seedMigrate {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
	}

	result, err := store.Seed(ctx, fixtures)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Seed complete:\n")
	fmt.Fprintf(out, "  Articles:      %d\n", result.Articles)
	fmt.Fprintf(out, "  Categories:    %d\n", result.Categories)
	fmt.Fprintf(out, "  Organizations: %d\n", result.Organizations)
	return nil
}
