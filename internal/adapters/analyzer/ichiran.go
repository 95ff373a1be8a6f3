// Package analyzer invokes the ichiran command line analyzer, either locally
// or inside a running docker container.
package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/baditaflorin/go_ichiran_gloss/internal/ports"
)

// Default invocation settings.
const (
	DefaultBinary       = "ichiran-cli"
	DefaultDockerBinary = "docker"
	DefaultTimeout      = 30 * time.Second
)

var (
	// ErrAnalyzerFailed is returned when the analyzer could not be run or exited non-zero.
	ErrAnalyzerFailed = errors.New("analyzer failed")
	// ErrEmptyInput is returned when nothing is left to analyze after cleaning.
	ErrEmptyInput = errors.New("empty analyzer input")
)

// Runner executes a command and returns its standard output and error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Config holds the analyzer invocation settings.
type Config struct {
	Binary string
	// Container runs the analyzer through docker exec when set.
	Container    string
	DockerBinary string
	Timeout      time.Duration
}

// Ichiran implements ports.Analyzer on top of ichiran-cli.
type Ichiran struct {
	config Config
	runner Runner
	logger ports.Logger
}

// NewIchiran creates an analyzer, filling unset config fields with defaults.
// A nil runner uses ExecRunner.
func NewIchiran(config Config, runner Runner, logger ports.Logger) *Ichiran {
	if config.Binary == "" {
		config.Binary = DefaultBinary
	}
	if config.DockerBinary == "" {
		config.DockerBinary = DefaultDockerBinary
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Ichiran{config: config, runner: runner, logger: logger}
}

// CleanInput removes the full-width asterisks OCR leaves in text.
func CleanInput(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "＊", ""))
}

// Command returns the program and arguments used to analyze text.
func (a *Ichiran) Command(text string) (string, []string) {
	if a.config.Container != "" {
		return a.config.DockerBinary, []string{"exec", a.config.Container, a.config.Binary, "-i", text}
	}
	return a.config.Binary, []string{"-i", text}
}

// Lookup runs the analyzer on text and returns its verbatim output.
func (a *Ichiran) Lookup(ctx context.Context, text string) (string, error) {
	text = CleanInput(text)
	if text == "" {
		return "", ErrEmptyInput
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	name, args := a.Command(text)
	start := time.Now()
	a.logger.Debug("Running analyzer", "command", name, "text", text, "container", a.config.Container)

	stdout, stderr, err := a.runner.Run(ctx, name, args...)
	if err != nil {
		a.logger.Warn("Analyzer failed",
			"text", text,
			"error", err,
			"stderr", string(stderr),
			"duration", time.Since(start),
		)
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return "", fmt.Errorf("%w: %v: %s", ErrAnalyzerFailed, err, msg)
		}
		return "", fmt.Errorf("%w: %v", ErrAnalyzerFailed, err)
	}

	a.logger.Debug("Analyzer finished", "text", text, "bytes", len(stdout), "duration", time.Since(start))
	return string(stdout), nil
}
