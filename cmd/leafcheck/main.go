package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crimson-sun/leafcheck/internal/config"
	"github.com/crimson-sun/leafcheck/internal/logging"
)

// version is set at build time via -ldflags.
var version = config.Version

var rootFlags struct {
	envFile string
}

// Populated by the root command before any subcommand runs.
var (
	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "leafcheck",
	Short: "Tomato leaf disease diagnosis and spam detection",
	Long: "leafcheck serves an ONNX tomato leaf disease classifier, enriched with a\n" +
		"disease knowledge table, and a spam text classifier over HTTP.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.envFile, "env-file", ".env", "dotenv file to load before reading LEAFCHECK_* variables")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(spamCmd)
	rootCmd.AddCommand(diseasesCmd)
	rootCmd.Version = version
}

func setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(rootFlags.envFile); err != nil {
		return err
	}
	cfg = config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	logger = logging.New(cfg.Log.Level, cfg.Log.Format)
	return nil
}

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
