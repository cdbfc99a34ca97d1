package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/dota-match-insight/internal/app"
	"github.com/riskibarqy/dota-match-insight/internal/config"
	"github.com/riskibarqy/dota-match-insight/internal/platform/logging"
	"github.com/spf13/cobra"
)

var (
	envFile string
	verbose bool

	cfg    config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "insight",
	Short: "Pro player match history from OpenDota",
	Long: "Resolve a professional Dota 2 player, fetch their matches since a patch from OpenDota\n" +
		"and print a cleaned per-match table.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load before reading configuration (default: .env lookup)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(patchesCmd)
	rootCmd.AddCommand(runsCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	if envFile != "" {
		if config.LoadDotEnv(envFile) == "" {
			return fmt.Errorf("env file %s could not be loaded", envFile)
		}
	} else {
		config.LoadDotEnv()
	}

	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded

	level := cfg.LogLevel
	if verbose {
		level = logging.LevelDebug
	}
	logger = logging.New(logging.Options{
		Level:  level,
		Format: logging.FormatConsole,
		Output: cmd.ErrOrStderr(),
	})
	logging.SetDefault(logger)
	return nil
}

func newServices(archive bool) (*app.Services, error) {
	return app.NewServices(cfg, logger, archive)
}
