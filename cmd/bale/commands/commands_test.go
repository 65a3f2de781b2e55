package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/cmd/bale/commands"
	"go.trai.ch/bale/internal/app"
	"go.trai.ch/bale/internal/build"
)

type mockApp struct {
	runFunc func(ctx context.Context, configPath string, entries []string, opts app.RunOptions) error
}

func (m *mockApp) Run(ctx context.Context, configPath string, entries []string, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, configPath, entries, opts)
	}
	return nil
}

func TestCommands_Build(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedConfig string
		var capturedEntries []string
		var capturedOpts app.RunOptions
		called := false

		mock := &mockApp{
			runFunc: func(_ context.Context, configPath string, entries []string, opts app.RunOptions) error {
				capturedConfig = configPath
				capturedEntries = entries
				capturedOpts = opts
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"build", "src/index.html", "--no-cache", "--config", "custom.yaml"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, "custom.yaml", capturedConfig)
		assert.Equal(t, []string{"src/index.html"}, capturedEntries)
		assert.True(t, capturedOpts.NoCache)
	})

	t.Run("defaults without flags", func(t *testing.T) {
		var capturedConfig string
		var capturedOpts app.RunOptions

		mock := &mockApp{
			runFunc: func(_ context.Context, configPath string, _ []string, opts app.RunOptions) error {
				capturedConfig = configPath
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"build"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "balefile.yaml", capturedConfig)
		assert.False(t, capturedOpts.NoCache)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ string, _ []string, _ app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"build"})
		// Silence output to avoid polluting test logs
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{
		runFunc: func(_ context.Context, _ string, _ []string, _ app.RunOptions) error {
			panic("should not be called")
		},
	}

	cli := commands.New(mock)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, build.Version)
}
