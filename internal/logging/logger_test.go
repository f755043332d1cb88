package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fadedpez/blackjack/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warn", WARN},
		{"error", ERROR},
	}

	for _, tc := range testCases {
		level, err := ParseLevel(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.expected, level)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, WARN)

	logger.Info("dealt %d cards", 4)
	assert.Empty(t, buf.String())

	logger.Warn("shoe has %d cards left", 3)
	assert.Contains(t, buf.String(), "shoe has 3 cards left")
}

func TestLogErrorIncludesCode(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, INFO)

	logger.LogError(types.WrapError(types.ErrEmptyShoe, "cannot deal", errors.New("shoe is empty")))

	out := buf.String()
	assert.Contains(t, out, "cannot deal")
	assert.Contains(t, out, "EMPTY_SHOE")
	assert.Contains(t, out, "shoe is empty")
}

func TestLogErrorPlainError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, INFO)

	logger.LogError(errors.New("boom"))

	assert.Contains(t, buf.String(), "Unexpected error: boom")
}
