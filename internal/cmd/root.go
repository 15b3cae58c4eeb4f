// Package cmd provides the command-line interface for sagasu.
// It handles command parsing, configuration loading, crawl execution,
// and result presentation.
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"sagasu/internal/config"
	"sagasu/internal/crawler"
	"sagasu/internal/logging"
	"sagasu/internal/storage"
)

var (
	cfgFile   string
	version   string
	buildTime string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sagasu URL TERM",
	Short: "A deep site search crawler",
	Long: `Sagasu crawls a website breadth-first from a seed URL, staying on the
seed's domain, and searches the visible text of every page for a term.

Matched pages are reported with contextual snippets around each
occurrence. The crawler honors robots.txt and rate limits itself.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCrawl,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets version information for the CLI
func SetVersionInfo(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./sagasu.yml)")

	rootCmd.Flags().Bool("show-config", false, "Display current configuration in YAML format and exit")

	// Crawl limits
	rootCmd.Flags().IntP("max-pages", "m", 50, "Stop after visiting N pages")
	rootCmd.Flags().IntP("concurrency", "c", 10, "Number of concurrent workers")
	rootCmd.Flags().DurationP("delay", "r", 200*time.Millisecond, "Minimum delay between requests per host")
	rootCmd.Flags().DurationP("timeout", "t", 8*time.Second, "HTTP request timeout")
	rootCmd.Flags().Int("radius", 50, "Characters of context around each match")

	// HTTP behaviour
	rootCmd.Flags().StringP("user-agent", "u", "Sagasu/1.0", "HTTP User-Agent header")
	rootCmd.Flags().StringSliceP("header", "H", []string{}, "Static HTTP headers in 'Name: Value' format (repeatable)")
	rootCmd.Flags().Int("retry-attempts", 3, "Retries for transient HTTP failures")

	// Results export
	rootCmd.Flags().StringP("database", "d", "", "SQLite file for result export (empty disables)")

	// Logging
	rootCmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.Flags().String("log-file", "", "Log file path (console only when empty)")

	bindFlags := []struct {
		viperKey string
		flagName string
	}{
		{"max_pages", "max-pages"},
		{"concurrency", "concurrency"},
		{"request_delay", "delay"},
		{"request_timeout", "timeout"},
		{"snippet_radius", "radius"},
		{"user_agent", "user-agent"},
		{"headers", "header"},
		{"retry_attempts", "retry-attempts"},
		{"database_path", "database"},
		{"log_level", "log-level"},
		{"log_file", "log-file"},
	}

	for _, bind := range bindFlags {
		if err := viper.BindPFlag(bind.viperKey, rootCmd.Flags().Lookup(bind.flagName)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind flag %s: %v\n", bind.flagName, err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("sagasu")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SAGASU")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func generateUserAgent() string {
	if version != "" && version != "dev" {
		return fmt.Sprintf("Sagasu/%s", version)
	}
	return "Sagasu/dev"
}

func showCurrentConfig(cfg *config.CrawlConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}

	fmt.Printf("# Current Sagasu Configuration\n")
	fmt.Printf("# Generated at: %s\n", time.Now().Format(time.RFC3339))
	fmt.Printf("# Configuration file search paths: ./sagasu.yml\n")
	fmt.Printf("# Environment variables prefix: SAGASU_\n\n")

	fmt.Print(string(yamlData))
	return nil
}

func setupLogging(cfg *config.CrawlConfig) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(viper.GetString("log_level"))
	logCfg.FilePath = viper.GetString("log_file")
	return logging.SetDefault(*logCfg)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	showConfig, _ := cmd.Flags().GetBool("show-config")

	cfg := config.DefaultConfig()

	if len(args) > 0 {
		cfg.SeedURL = args[0]
	}
	if len(args) > 1 {
		cfg.SearchTerm = args[1]
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Update User-Agent with dynamic version if not explicitly set
	if !cmd.Flags().Changed("user-agent") && cfg.UserAgent == "Sagasu/1.0" {
		cfg.UserAgent = generateUserAgent()
	}

	if showConfig {
		return showCurrentConfig(cfg)
	}

	if len(args) < 2 {
		return fmt.Errorf("expected a seed URL and a search term\nUsage: %s URL TERM", os.Args[0])
	}

	if err := setupLogging(cfg); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	// Fatal configuration errors (malformed seed, non-positive limits)
	// surface here, before any crawling starts.
	c, err := crawler.New(cfg)
	if err != nil {
		return err
	}

	// Thin adapter wiring OS interrupts to the core's stop operation.
	// The core itself never installs signal handlers.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			fmt.Fprintln(os.Stderr, "Interrupt received, stopping crawl...")
			c.RequestStop()
		}
	}()

	result := c.Crawl(cmd.Context())

	printResults(result)

	if cfg.DatabasePath != "" {
		if err := exportResults(cfg.DatabasePath, result); err != nil {
			return fmt.Errorf("failed to export results: %w", err)
		}
		fmt.Printf("\nResults exported to %s\n", cfg.DatabasePath)
	}

	return nil
}

// printResults renders the crawl summary on stdout.
func printResults(result *crawler.Result) {
	fmt.Printf("\nSearch term: %q\n", result.SearchTerm)
	fmt.Printf("Scanned: %d pages in %v\n", result.VisitedCount, result.Duration.Round(time.Millisecond))

	if len(result.MatchedURLs) == 0 {
		fmt.Println("No matches found.")
		return
	}

	fmt.Printf("Matches on %d pages:\n", len(result.MatchedURLs))
	for _, url := range result.MatchedURLs {
		fmt.Printf("  -> %s\n", url)
		for _, snippet := range result.Found[url] {
			fmt.Printf("     ...%s...\n", snippet)
		}
	}
}

func exportResults(dbPath string, result *crawler.Result) error {
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return store.SaveResult(result)
}
