package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	log, err := New("warn", &buf, true)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("hidden")
	log.WithField("request", "get user").Warn("unsupported auth type")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, `request="get user"`)
	assert.NotContains(t, out, "\x1b[")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("chatty", &bytes.Buffer{}, true)
	assert.Error(t, err)
}
