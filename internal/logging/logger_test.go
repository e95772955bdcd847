package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level string
		mode  string
		want  zapcore.Level
	}{
		{"info", "release", zapcore.InfoLevel},
		{"debug", "debug", zapcore.DebugLevel},
		{"WARN", "test", zapcore.WarnLevel},
		{"error", "release", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.mode, func(t *testing.T) {
			logger, err := New(tt.level, tt.mode)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.want))
			assert.False(t, logger.Core().Enabled(tt.want-1))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("verbose", "release")
	assert.Error(t, err)
}
