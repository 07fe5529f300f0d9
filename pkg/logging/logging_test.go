package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestNew はNew関数を検証する。
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("既定値ではINFOレベルのロガーが生成されること", func(t *testing.T) {
		t.Parallel()

		logger, err := New("", "")
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("大文字のレベル指定を受け付けること", func(t *testing.T) {
		t.Parallel()

		logger, err := New("DEBUG", FormatConsole)
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("WARNレベルではINFOが無効であること", func(t *testing.T) {
		t.Parallel()

		logger, err := New("warn", FormatJSON)
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("不正なレベルはエラーになること", func(t *testing.T) {
		t.Parallel()

		_, err := New("verbose", FormatJSON)
		assert.Error(t, err)
	})

	t.Run("不正な形式はエラーになること", func(t *testing.T) {
		t.Parallel()

		_, err := New("info", "xml")
		assert.Error(t, err)
	})
}
