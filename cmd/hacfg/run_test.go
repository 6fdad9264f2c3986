package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/hacfg/pkg/events"
	"github.com/cuemby/hacfg/pkg/log"
	"github.com/cuemby/hacfg/pkg/metrics"
)

func TestFlushMetrics(t *testing.T) {
	var buf bytes.Buffer
	log.Init(log.Config{Level: log.DebugLevel, JSONOutput: true, Output: &buf})
	t.Cleanup(func() { log.Init(log.Config{Level: log.WarnLevel}) })

	t.Run("writes textfile", func(t *testing.T) {
		metrics.TransactionDuration.WithLabelValues("test").Observe(0.1)
		path := filepath.Join(t.TempDir(), "hacfg.prom")
		flushMetrics(path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hacfg_transaction_duration_seconds")
	})

	t.Run("logs failure", func(t *testing.T) {
		buf.Reset()
		flushMetrics(filepath.Join(t.TempDir(), "missing", "hacfg.prom"))
		assert.Contains(t, buf.String(), `"component":"metrics"`)
		assert.Contains(t, buf.String(), "Failed to write metrics textfile")
	})

	t.Run("disabled", func(t *testing.T) {
		buf.Reset()
		flushMetrics("")
		assert.Empty(t, buf.String())
	})
}

func TestStopEventsReportsDropped(t *testing.T) {
	var buf bytes.Buffer
	log.Init(log.Config{Level: log.WarnLevel, JSONOutput: true, Output: &buf})
	t.Cleanup(func() { log.Init(log.Config{Level: log.WarnLevel}) })

	broker := events.NewBroker()
	for i := 0; i < 300; i++ {
		broker.Emit(events.EventNodeResponse, "x", nil)
	}
	sub := broker.Subscribe()
	done := make(chan struct{})
	go logEvents(sub, done)

	stopEvents(broker, sub, done)

	assert.Contains(t, buf.String(), `"dropped":44`)
	assert.Contains(t, buf.String(), "Events did not fit the queue")
}
