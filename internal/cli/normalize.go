package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/stream"
)

// NewNormalizeCmd creates the normalize command.
func NewNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize ichiran analyzer output read from a file or stdin",
		Example: `  ichiran-cli -i "母親" | ichirangloss normalize
  ichirangloss normalize output.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runNormalize,
	}
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cc, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	out := cmd.OutOrStdout()
	proc := stream.NewProcessor(cc.Logger, cc.Metrics, stream.ProcessingConfig{})
	stats, err := proc.Process(cmd.Context(), in, out)
	if err != nil {
		return err
	}
	if stats.BytesWritten > 0 {
		if _, err := io.WriteString(out, "\n"); err != nil {
			return err
		}
	}

	cc.Logger.Debug("Normalized input",
		"segments", stats.Segments,
		"bytes", stats.BytesProcessed,
		"duration", stats.ProcessingTime,
	)
	return nil
}
