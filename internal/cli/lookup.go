package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/normalizer"
	"github.com/baditaflorin/go_ichiran_gloss/internal/core/glossary"
)

// NewLookupCmd creates the lookup command.
func NewLookupCmd() *cobra.Command {
	var caption bool

	cmd := &cobra.Command{
		Use:   "lookup <text>...",
		Short: "Run the analyzer on Japanese text and print its gloss",
		Long: "lookup splits each argument into sentences, runs ichiran-cli on every sentence\n" +
			"and prints the normalized gloss. Arguments are glossed separately.",
		Example: `  ichirangloss lookup "母親です。"
  ichirangloss lookup --caption "結婚して"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, args, caption)
		},
	}

	cmd.Flags().BoolVar(&caption, "caption", false, `prefix every line with "# "`)
	return cmd
}

func runLookup(cmd *cobra.Command, args []string, caption bool) error {
	cc, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	a, closeAnalyzer, err := cc.NewAnalyzer(cmd.Context(), cc.Config, cc.Logger, cc.Metrics)
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}
	defer func() {
		if err := closeAnalyzer(); err != nil {
			cc.Logger.Warn("Closing analyzer failed", "error", err)
		}
	}()

	svc := glossary.NewService(a, normalizer.NewDefaultNormalizer(), cc.Logger, cc.Metrics)
	out := cmd.OutOrStdout()
	for i, text := range args {
		g, err := svc.Lookup(cmd.Context(), text)
		if err != nil {
			return err
		}
		lines := g.Lines
		if caption {
			lines = g.Caption()
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		if len(lines) > 0 {
			fmt.Fprintln(out, strings.Join(lines, "\n"))
		}
	}
	return nil
}
