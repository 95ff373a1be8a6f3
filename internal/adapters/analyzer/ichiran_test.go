package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/logger"
)

type fakeRunner struct {
	name     string
	args     []string
	deadline bool
	stdout   string
	stderr   string
	err      error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.name = name
	f.args = args
	_, f.deadline = ctx.Deadline()
	return []byte(f.stdout), []byte(f.stderr), f.err
}

func TestLookupLocal(t *testing.T) {
	runner := &fakeRunner{stdout: "haha\n\n* haha  母 【はは】\n1. [n] mother\n"}
	a := NewIchiran(Config{}, runner, logger.NewNopLogger())

	out, err := a.Lookup(context.Background(), "＊母＊")
	require.NoError(t, err)
	assert.Equal(t, runner.stdout, out)
	assert.Equal(t, DefaultBinary, runner.name)
	assert.Equal(t, []string{"-i", "母"}, runner.args)
	assert.True(t, runner.deadline)
}

func TestLookupDocker(t *testing.T) {
	runner := &fakeRunner{stdout: "ok"}
	a := NewIchiran(Config{Container: "ichiran_main_1", Timeout: time.Second}, runner, logger.NewNopLogger())

	_, err := a.Lookup(context.Background(), "母親")
	require.NoError(t, err)
	assert.Equal(t, DefaultDockerBinary, runner.name)
	assert.Equal(t, []string{"exec", "ichiran_main_1", DefaultBinary, "-i", "母親"}, runner.args)
}

func TestLookupEmptyInput(t *testing.T) {
	runner := &fakeRunner{}
	a := NewIchiran(Config{}, runner, logger.NewNopLogger())

	_, err := a.Lookup(context.Background(), " ＊＊ ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, runner.name, "analyzer must not run")
}

func TestLookupFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1"), stderr: "database unavailable\n"}
	a := NewIchiran(Config{}, runner, logger.NewNopLogger())

	_, err := a.Lookup(context.Background(), "母")
	require.ErrorIs(t, err, ErrAnalyzerFailed)
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestCleanInput(t *testing.T) {
	assert.Equal(t, "母親", CleanInput(" 母＊親 "))
	assert.Equal(t, "", CleanInput("＊"))
}
