package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"tickerwatch/internal/logging"
)

func TestNewWithWriter_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logging.NewWithWriter(&buf, "debug", "JSON")
	log.WithField("query", "aapl").Debug("resolved query")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "resolved query", line["msg"])
	require.Equal(t, "aapl", line["query"])
	require.Equal(t, "debug", line["level"])
}

func TestNewWithWriter_BadLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logging.NewWithWriter(&buf, "loud", "text")
	require.Equal(t, logrus.InfoLevel, log.GetLevel())

	log.Debug("hidden")
	require.Empty(t, buf.String())
	log.Info("shown")
	require.Contains(t, buf.String(), "msg=shown")
}
