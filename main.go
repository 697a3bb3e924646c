package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Scoopit/mysql2databend/internal/config"
	"github.com/Scoopit/mysql2databend/internal/convert"
	"github.com/Scoopit/mysql2databend/internal/input"
	"github.com/Scoopit/mysql2databend/internal/sink"
	"github.com/Scoopit/mysql2databend/pkg/version"
)

var (
	configFile       string
	dumpFile         string
	databases        []string
	tables           []string
	skipDatabaseStmt bool
	progressInterval int
	connectRetries   uint
	verbose          bool

	cfg *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("mysql2databend failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mysql2databend",
		Short: "Convert MySQL dumps to Databend",
		Long: `mysql2databend reads a mysqldump file line by line, rewrites CREATE TABLE
statements into DDL Databend accepts and forwards CREATE DATABASE, USE, CREATE TABLE
and INSERT INTO statements to the selected output. Everything else in the dump is
dropped.`,
		Version:           version.Info().String(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to a YAML config file")
	flags.StringVarP(&dumpFile, "file", "f", "", "Dump file to read, plain, .gz or .zst (default stdin)")
	flags.StringSliceVarP(&databases, "databases", "d", nil, "Only output these databases (repeatable)")
	flags.StringSliceVarP(&tables, "tables", "t", nil, "Only output these tables (repeatable)")
	flags.BoolVarP(&skipDatabaseStmt, "skip-database-stmt", "s", false, "Skip USE and CREATE DATABASE statements")
	flags.IntVarP(&progressInterval, "progress-interval", "p", 0, "Log progress every N lines (0 = disabled, default from config)")
	flags.UintVar(&connectRetries, "connect-retries", sink.DefaultConnectRetries, "Connection attempts before giving up")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(
		newConsoleCmd(),
		newDatabendCmd(),
		newMySQLCmd(),
		newKVCmd(),
		newReplayCmd(),
	)
	return rootCmd
}

func setupLogging() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: verbose,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)
	slog.SetDefault(logger)
}

// loadConfig builds cfg from defaults, the config file, .env, the environment
// and finally the flags explicitly set on the command line.
func loadConfig(cmd *cobra.Command, args []string) error {
	setupLogging()

	if err := config.LoadEnv(".env"); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.Input = dumpFile
	}
	if flags.Changed("databases") {
		cfg.Databases = databases
	}
	if flags.Changed("tables") {
		cfg.Tables = tables
	}
	if flags.Changed("skip-database-stmt") {
		cfg.SkipDatabaseStatements = skipDatabaseStmt
	}
	if flags.Changed("progress-interval") {
		cfg.ProgressInterval = progressInterval
	}
	if flags.Changed("connect-retries") {
		cfg.ConnectRetries = connectRetries
	}
	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			slog.Warn("Received shutdown signal, stopping conversion...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

// convertTo runs the conversion of the configured dump into out and closes
// out afterwards.
func convertTo(ctx context.Context, out sink.Sink, target string) (err error) {
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s output: %w", target, closeErr)
		}
	}()

	slog.Info("Starting mysql2databend",
		"version", version.Version,
		"commit", version.GitCommit,
		"built", version.BuildDate,
		"output", target,
		"file", cfg.Input,
		"databases", cfg.Databases,
		"tables", cfg.Tables,
		"skip_database_stmt", cfg.SkipDatabaseStatements,
		"progress_interval", cfg.ProgressInterval,
		"verbose", verbose,
	)

	in, err := input.Open(cfg.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	converter := convert.New(cfg.Converter(), out)
	start := time.Now()
	if err := converter.Run(ctx, in); err != nil {
		return fmt.Errorf("conversion failed after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}
	converter.LogStatistics()
	return nil
}
