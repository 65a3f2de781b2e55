package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/bale/internal/app"
	"go.trai.ch/bale/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func testComponents(ctrl *gomock.Controller) *app.Components {
	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockRegistry := mocks.NewMockCacheRegistry(ctrl)
	mockParser := mocks.NewMockParser(ctrl)
	mockGen := mocks.NewMockGenerator(ctrl)
	mockHoister := mocks.NewMockHoister(ctrl)
	mockResolver := mocks.NewMockResolver(ctrl)
	mockPackages := mocks.NewMockPackages(ctrl)
	mockHasher := mocks.NewMockHasher(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockTel := mocks.NewMockTelemetry(ctrl)
	mockTel.EXPECT().Close().Return(nil)

	application := app.New(
		mockLoader,
		mockRegistry,
		mockParser,
		mockGen,
		mockHoister,
		mockResolver,
		mockPackages,
		mockHasher,
		mockLogger,
		mockTel,
	)
	return &app.Components{
		App:       application,
		Logger:    mockLogger,
		Telemetry: mockTel,
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	components := testComponents(ctrl)

	provider := func(_ context.Context) (*app.Components, error) {
		return components, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
	assert.Empty(t, stderr.String())
}

// TestRun_ProviderFailure verifies the exit code and stderr message when
// component initialization fails.
func TestRun_ProviderFailure(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, error) {
		return nil, zerr.New("wiring failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "wiring failed")
}

// TestRun_CommandFailure verifies that a failing command is logged and
// reported through the exit code.
func TestRun_CommandFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLoader.EXPECT().Load(gomock.Any()).Return(nil, zerr.New("config unreadable"))
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any())
	mockTel := mocks.NewMockTelemetry(ctrl)
	mockTel.EXPECT().Close().Return(nil)

	application := app.New(
		mockLoader,
		mocks.NewMockCacheRegistry(ctrl),
		mocks.NewMockParser(ctrl),
		mocks.NewMockGenerator(ctrl),
		mocks.NewMockHoister(ctrl),
		mocks.NewMockResolver(ctrl),
		mocks.NewMockPackages(ctrl),
		mocks.NewMockHasher(ctrl),
		mockLogger,
		mockTel,
	)

	provider := func(_ context.Context) (*app.Components, error) {
		return &app.Components{App: application, Logger: mockLogger, Telemetry: mockTel}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"build"}, stderr, provider)
	assert.Equal(t, 1, exitCode)
}
