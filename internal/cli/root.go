// Package cli implements the ichirangloss command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/logger"
	"github.com/baditaflorin/go_ichiran_gloss/internal/config"
	"github.com/baditaflorin/go_ichiran_gloss/internal/metrics"
	"github.com/baditaflorin/go_ichiran_gloss/internal/ports"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogJSON    bool
	LogFile    string

	// logger is created by the root command and closed by finish.
	logger ports.Logger
}

// AnalyzerFactory builds the analyzer used by lookup and serve. The returned
// function releases its resources.
type AnalyzerFactory func(ctx context.Context, cfg *config.Config, log ports.Logger, m *metrics.Metrics) (ports.Analyzer, func() error, error)

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config      *config.Config
	Logger      ports.Logger
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics
	NewAnalyzer AnalyzerFactory
}

// newRootCommand creates the root command with all subcommands. The returned
// options must be finished once the command has run.
func newRootCommand(factory AnalyzerFactory) (*cobra.Command, *RootOptions) {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ichirangloss",
		Short: "Compact glosses from ichiran analyzer output",
		Long: "ichirangloss turns the verbose output of the ichiran Japanese morphological\n" +
			"analyzer into short gloss lines suitable for captions.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts, factory)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (GLOSS_* environment variables override it)")
	pf.BoolVar(&opts.LogJSON, "log-json", false, "write logs as JSON")
	pf.StringVar(&opts.LogFile, "log-file", "", "log file path (default: stderr)")

	cmd.AddCommand(
		NewNormalizeCmd(),
		NewLookupCmd(),
		NewServeCmd(),
	)
	return cmd, opts
}

// finish logs a failed command and flushes the logger. It returns err, or
// the close error when the command succeeded.
func (o *RootOptions) finish(err error) error {
	if o.logger == nil {
		return err
	}
	if err != nil {
		o.logger.Error("Command failed", "error", err)
	}
	closeErr := o.logger.Close()
	o.logger = nil
	if err == nil {
		err = closeErr
	}
	return err
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions, factory AnalyzerFactory) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = opts.LogJSON
	}
	if opts.LogFile != "" {
		cfg.Log.File = opts.LogFile
	}

	log, err := logger.New(logger.Options{
		File:   cfg.Log.File,
		Output: cmd.ErrOrStderr(),
		JSON:   cfg.Log.JSON,
	})
	if err != nil {
		return err
	}
	opts.logger = log

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	cc := &CLIContext{
		Config:      cfg,
		Logger:      log,
		Registry:    reg,
		Metrics:     metrics.New(reg),
		NewAnalyzer: factory,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cc))
	return nil
}

// GetCLIContext extracts the CLIContext set up by the root command.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("command context not initialized")
	}
	cc, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cc == nil {
		return nil, fmt.Errorf("CLI context not found")
	}
	return cc, nil
}

// Execute runs the root command.
func Execute() error {
	cmd, opts := newRootCommand(NewAnalyzer)
	return opts.finish(cmd.ExecuteContext(context.Background()))
}

// ExitOnError prints err and exits when it is not nil.
func ExitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
