package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zap.AtomicLevel{
		"":      zap.NewAtomicLevelAt(zap.InfoLevel),
		"debug": zap.NewAtomicLevelAt(zap.DebugLevel),
		"WARN":  zap.NewAtomicLevelAt(zap.WarnLevel),
		"error": zap.NewAtomicLevelAt(zap.ErrorLevel),
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want.Level(), got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	lg, err := New("debug")
	require.NoError(t, err)
	assert.True(t, lg.Core().Enabled(zap.DebugLevel))

	lg, err = New("off")
	require.NoError(t, err)
	assert.False(t, lg.Core().Enabled(zap.ErrorLevel))

	_, err = New("chatty")
	assert.Error(t, err)
}
