package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/uecomplete"
	"github.com/jward/uecomplete/internal/config"
)

var (
	flagDB       string
	flagFormat   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "uecomplete",
	Short:         "Member completion for Unreal Engine C++",
	Long:          "uecomplete seeds a SQLite symbol database from Unreal headers and answers member-completion requests against it.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: .uecomplete/symbols.db relative to repo root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config merged over the built-in defaults")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(membersCmd)
}

var (
	flagScript     string
	flagScriptsDir string
)

var seedCmd = &cobra.Command{
	Use:   "seed [path...]",
	Short: "Seed the symbol database from Unreal headers",
	Long:  "Runs the seed script over each header (or every header under each directory) and commits the classes, members and enums it records.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&flagScript, "script", "", "seed script path relative to the scripts source (default: seed/unreal.risor)")
	seedCmd.Flags().StringVar(&flagScriptsDir, "scripts-dir", "", "load scripts from disk path instead of embedded")
}

func runSeed(cmd *cobra.Command, args []string) error {
	start := time.Now()
	if len(args) == 0 {
		args = []string{"."}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting cwd: %w", err)
	}
	dbPath := resolveDBPath(findRepoRoot(cwd))
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}

	var opts []uecomplete.Option
	if flagScriptsDir != "" {
		opts = append(opts, uecomplete.WithScriptsDir(flagScriptsDir))
	}
	if flagScript != "" {
		opts = append(opts, uecomplete.WithSeedScript(flagScript))
	}
	engine, err := openEngine(dbPath, opts...)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := commandContext(cmd)
	var files []string
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("resolving path %q: %w", arg, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("path not found: %s", abs)
		}
		if info.IsDir() {
			if err := engine.SeedDirectory(ctx, abs); err != nil {
				return fmt.Errorf("seeding %s: %w", abs, err)
			}
			continue
		}
		files = append(files, abs)
	}
	if len(files) > 0 {
		if err := engine.SeedFiles(ctx, files); err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Seeded %d path(s) in %s\n", len(args), time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(cmd.ErrOrStderr(), "Database: %s\n", dbPath)
	return nil
}

// loadConfig reads --config and applies --log-level on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
	}
	return cfg, nil
}

// newLogger returns a text logger on stderr at the configured level.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// openEngine opens the database at dbPath with the CLI's config and logger.
func openEngine(dbPath string, opts ...uecomplete.Option) (*uecomplete.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]uecomplete.Option{uecomplete.WithConfig(cfg), uecomplete.WithLogger(logger)}, opts...)
	engine, err := uecomplete.Open(dbPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening engine: %w", err)
	}
	return engine, nil
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}

// resolveDBPath returns the database path from the --db flag or the default.
func resolveDBPath(repoRoot string) string {
	if flagDB != "" {
		if filepath.IsAbs(flagDB) {
			return flagDB
		}
		return filepath.Join(repoRoot, flagDB)
	}
	return filepath.Join(repoRoot, ".uecomplete", "symbols.db")
}
