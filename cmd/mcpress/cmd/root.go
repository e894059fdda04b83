package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mcpress/mcpress/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "mcpress",
	Short: "MCPress: news articles for AI agents",
	Long: `MCPress serves a news article database (organizations, categories,
articles) to AI agents as MCP tools, backed by Supabase or a direct
PostgreSQL/SQLite connection.

Commands:
  serve    Start the MCP server
  list     List articles from the command line
  get      Show a single article
  migrate  Create the database schema (postgres/sqlite)
  seed     Load articles from a YAML fixtures file (postgres/sqlite)`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	// stdout carries the MCP stdio stream, so logs go to stderr.
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	// Start with defaults
	cfg = config.Defaults()

	// A missing .env file is fine; real environment variables still apply.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/mcpress")
		viper.AddConfigPath(".")
	}

	// Environment variable overrides
	// MCPRESS_SUPABASE_URL -> supabase.url
	viper.SetEnvPrefix("MCPRESS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Explicitly bind nested env vars; the unprefixed Supabase names are
	// what the Supabase dashboard and tooling hand out.
	viper.BindEnv("store.backend", "MCPRESS_STORE_BACKEND")
	viper.BindEnv("supabase.url", "MCPRESS_SUPABASE_URL", "SUPABASE_URL")
	viper.BindEnv("supabase.key", "MCPRESS_SUPABASE_KEY", "SUPABASE_KEY")
	viper.BindEnv("supabase.schema", "MCPRESS_SUPABASE_SCHEMA")
	viper.BindEnv("supabase.timeout", "MCPRESS_SUPABASE_TIMEOUT")
	viper.BindEnv("database.dsn", "MCPRESS_DATABASE_DSN", "DATABASE_URL")
	viper.BindEnv("database.max_open_conns", "MCPRESS_DATABASE_MAX_OPEN_CONNS")
	viper.BindEnv("mcp.name", "MCPRESS_MCP_NAME")
	viper.BindEnv("mcp.version", "MCPRESS_MCP_VERSION")
	viper.BindEnv("mcp.transport", "MCPRESS_MCP_TRANSPORT", "MCP_SERVER_TRANSPORT")
	viper.BindEnv("mcp.addr", "MCPRESS_MCP_ADDR")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
		// No config file - use defaults + env vars
	}

	// Unmarshal into struct (merges config file with defaults)
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}
}
