package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/noperator/qanalyze/pkg/analyzer"
	"github.com/noperator/qanalyze/pkg/config"
	"github.com/noperator/qanalyze/pkg/console"
	"github.com/noperator/qanalyze/pkg/logging"
)

var (
	outputFile  string
	verbose     bool
	configFile  string
	analyzerCmd string
	timeout     time.Duration
	noColor     bool
	strict      bool
)

var rootCmd = &cobra.Command{
	Use:   "qanalyze <project_path>",
	Short: "Project Analyzer using Amazon Q Developer",
	Long: `qanalyze: Project Analyzer using Amazon Q Developer
Runs "q analyze <project_path>", prints the captured results and optionally
saves them to a report file.

Examples:
  qanalyze ./myproject
  qanalyze ./myproject -o report.txt -v
  QANALYZE_ANALYZER="docker run --rm -v $PWD:$PWD qdev q" qanalyze $PWD`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.NewLoggerFromEnv().With("run_id", uuid.NewString())

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		argv, err := cfg.Command()
		if err != nil {
			return err
		}
		executor, err := analyzer.NewCommandExecutor(argv)
		if err != nil {
			return fmt.Errorf("failed to initialize analyzer executor: %w", err)
		}

		colorEnabled := !cfg.NoColor && term.IsTerminal(int(os.Stdout.Fd()))
		printer := console.NewPrinter(cmd.OutOrStdout(), console.DefaultStyles(colorEnabled))

		runner := analyzer.NewRunner(executor, printer, logger)
		runner.Exclude = cfg.Exclude
		runner.CountLines = cfg.LOC

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}

		logger.Debug("starting analysis",
			"component", "cli",
			"analyzer", argv,
			"project", args[0],
			"timeout", cfg.Timeout)

		result, err := runner.Run(ctx, analyzer.Request{
			ProjectPath: args[0],
			OutputFile:  outputFile,
			Verbose:     verbose,
		})
		if err != nil {
			return err
		}

		if cfg.Strict && result.ExitCode != 0 {
			return &exitCodeError{code: strictExitCode(result.ExitCode)}
		}
		return nil
	},
}

// loadConfig layers defaults, the config file, the environment and the flags
// that were set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := configFile
	if path == "" {
		path = os.Getenv("QANALYZE_CONFIG")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("analyzer") {
		cfg.Analyzer = analyzerCmd
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("no-color") {
		cfg.NoColor = noColor
	}
	if flags.Changed("strict") {
		cfg.Strict = strict
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "File to save analysis results")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file (or set QANALYZE_CONFIG)")
	rootCmd.Flags().StringVarP(&analyzerCmd, "analyzer", "a", config.DefaultAnalyzer, "Analyzer command (or set QANALYZE_ANALYZER)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort the analyzer after this long (0 = no limit)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output (or set NO_COLOR)")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Exit with the analyzer's exit code when it is non-zero")
}
