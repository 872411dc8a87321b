package slogx_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wartahub/warta/pkg/slogx"
)

func TestNewLevelFiltering(t *testing.T) {
	logger := slogx.New(slogx.Config{Service: "warta-core", Level: "warn", Format: "text"})

	ctx := context.Background()
	require.False(t, logger.Enabled(ctx, slog.LevelInfo))
	require.True(t, logger.Enabled(ctx, slog.LevelWarn))
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	logger := slogx.New(slogx.Config{Service: "warta-core", Level: "ramai"})

	ctx := context.Background()
	require.True(t, logger.Enabled(ctx, slog.LevelInfo))
	require.False(t, logger.Enabled(ctx, slog.LevelDebug))
}
