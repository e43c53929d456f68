package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", "debug")
	require.Error(t, err)
}

func TestNew_ReleaseMode(t *testing.T) {
	logger, err := New("warn", "release")
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zap.InfoLevel))
	require.True(t, logger.Core().Enabled(zap.WarnLevel))
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx := WithContext(context.Background(), logger.With(zap.String("trace_id", "abc")))
	FromContext(ctx).Info("hello")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "abc", logs.All()[0].ContextMap()["trace_id"])
}

func TestFromContext_FallsBackToNop(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
	require.NotPanics(t, func() {
		FromContext(context.Background()).Info("dropped")
	})
}
