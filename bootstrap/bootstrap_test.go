package bootstrap

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/meetscribe/config"
	"github.com/kbukum/meetscribe/detection/static"
	"github.com/kbukum/meetscribe/llm/ollama"
	"github.com/kbukum/meetscribe/logger"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Name = "meetscribe-test"
	cfg.ApplyDefaults()
	return cfg
}

func TestNewWiresSubsystems(t *testing.T) {
	src := static.NewSource("probe")
	app, err := New(context.Background(), "meetscribe-test",
		WithConfig(testConfig()),
		WithLogger(logger.NewDefault("test")),
		WithDetectionSources(src),
	)
	require.NoError(t, err)

	assert.NotNil(t, app.Repo)
	assert.NotNil(t, app.Meetings)
	assert.NotNil(t, app.Transcriptions)
	assert.NotNil(t, app.Summaries)
	assert.Equal(t, []string{ollama.ProviderName}, app.Generation.Available())

	p, err := app.Generation.GetByName(ollama.ProviderName)
	require.NoError(t, err)
	assert.Equal(t, ollama.ProviderName, p.Name())
}

func TestNewRejectsUnknownGenerationProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Generation.Provider = "bogus"

	_, err := New(context.Background(), "meetscribe-test",
		WithConfig(cfg),
		WithLogger(logger.NewDefault("test")),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown generation provider")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	app, err := New(context.Background(), "meetscribe-test",
		WithConfig(testConfig()),
		WithLogger(logger.NewDefault("test")),
		WithGracefulTimeout(2*time.Second),
	)
	require.NoError(t, err)

	var order []string
	app.OnStart(func(context.Context) error {
		order = append(order, "start")
		return nil
	})
	app.OnStop(func(context.Context) error {
		order = append(order, "stop")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Equal(t, []string{"start", "stop"}, order)
}

func TestRunAbortsOnStartHookFailure(t *testing.T) {
	app, err := New(context.Background(), "meetscribe-test",
		WithConfig(testConfig()),
		WithLogger(logger.NewDefault("test")),
	)
	require.NoError(t, err)

	app.OnStart(func(context.Context) error {
		return fmt.Errorf("port already in use")
	})

	err = app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start hooks")
}
