package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/normalizer"
	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/stream"
	"github.com/baditaflorin/go_ichiran_gloss/internal/core/glossary"
	"github.com/baditaflorin/go_ichiran_gloss/internal/server"
	"github.com/baditaflorin/go_ichiran_gloss/internal/warmup"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the normalizer and the glossary lookup over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cc.Config.Server.Port = port
			}
			if err := cc.Config.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cc)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

func runServe(ctx context.Context, cc *CLIContext) error {
	a, closeAnalyzer, err := cc.NewAnalyzer(ctx, cc.Config, cc.Logger, cc.Metrics)
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}
	defer func() {
		if err := closeAnalyzer(); err != nil {
			cc.Logger.Warn("Closing analyzer failed", "error", err)
		}
	}()

	norm := normalizer.NewDefaultNormalizer()
	svc := glossary.NewService(a, norm, cc.Logger, cc.Metrics)

	if cc.Config.Warmup.Enabled {
		wc := warmup.DefaultWarmupConfig()
		wc.Duration = cc.Config.Warmup.Timeout
		wm := warmup.NewManager(cc.Logger, wc)
		wm.RegisterAnalyzer(a)
		wm.RegisterNormalizer(norm)
		wm.RegisterStreamProcessor(stream.NewProcessor(cc.Logger, nil, stream.ProcessingConfig{}))
		wm.WarmUp(ctx)
	}

	srv := server.New(cc.Config.Server, server.Deps{
		Normalizer:    norm,
		Glossary:      svc,
		Logger:        cc.Logger,
		Metrics:       cc.Metrics,
		Gatherer:      cc.Registry,
		LookupTimeout: 2 * cc.Config.Analyzer.Timeout,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		cc.Logger.Info("Shutting down server")
		if err := srv.Shutdown(); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		cc.Logger.Info("Server stopped")
		return nil
	}
}
