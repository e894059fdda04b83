package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long: `Create the organizations, categories, articles and article_embeddings
tables if they do not exist. Requires store.backend to be postgres or
sqlite; PostgreSQL needs the pgvector extension available.

Example:
  MCPRESS_STORE_BACKEND=sqlite MCPRESS_DATABASE_DSN=./data/mcpress.db mcpress migrate`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	store, err := openSQLStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Schema ready (%s).\n", cfg.Store.Backend)
	return nil
}
