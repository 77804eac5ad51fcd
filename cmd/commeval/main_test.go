package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/config"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/events"
)

func TestNewLoggerLevels(t *testing.T) {
	ctx := context.Background()

	l := newLogger(config.LoggingConfig{Level: "debug", Format: "json"})
	assert.True(t, l.Enabled(ctx, slog.LevelDebug))

	l = newLogger(config.LoggingConfig{Level: "warn", Format: "text"})
	assert.False(t, l.Enabled(ctx, slog.LevelInfo))
	assert.True(t, l.Enabled(ctx, slog.LevelWarn))

	l = newLogger(config.LoggingConfig{Level: "loud"})
	assert.True(t, l.Enabled(ctx, slog.LevelInfo))
	assert.False(t, l.Enabled(ctx, slog.LevelDebug))
}

func TestConnectEventsWithoutURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := connectEvents(context.Background(), "", logger)
	assert.Equal(t, events.NopClient{}, c)
	c.Close()
}
