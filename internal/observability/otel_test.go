package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-cms/internal/config"
	"academy-cms/internal/logger"
)

func TestInitTracingDisabledIsNoop(t *testing.T) {
	var cfg config.Config
	shutdown, err := InitTracing(context.Background(), &cfg, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampleRatioClamps(t *testing.T) {
	assert.Equal(t, 0.0, sampleRatio(-1))
	assert.Equal(t, 1.0, sampleRatio(4))
	assert.Equal(t, 0.25, sampleRatio(0.25))
}
