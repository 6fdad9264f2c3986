package reports

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessListReturnsErrorsOnly(t *testing.T) {
	p := NewProcessor(zerolog.Nop())

	err := p.ProcessList([]Item{
		NewDefaultsCanBeOverriden(),
		NewNodeNotFound("node-1"),
		NewNodeNotFound("node-2"),
	})

	var libErr *LibraryError
	require.True(t, errors.As(err, &libErr))
	assert.Equal(t, []Code{NodeNotFound, NodeNotFound}, libErr.Codes())
	assert.Len(t, p.Items(), 3)
	assert.True(t, p.HasErrors())
}

func TestProcessWarningDoesNotFail(t *testing.T) {
	p := NewProcessor(zerolog.Nop())

	err := p.Process(NewNodeCommunicationRetrying("node-1", "10.0.0.1", "10.0.0.2", "remote/status"))

	assert.NoError(t, err)
	assert.False(t, p.HasErrors())
}

func TestProcessConcurrentAppend(t *testing.T) {
	p := NewProcessor(zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Process(NewNodeCommunicationStarted("https://node:2224/remote/status", ""))
		}()
	}
	wg.Wait()

	assert.Len(t, p.Items(), 50)
}

func TestOnReportReceivesItems(t *testing.T) {
	p := NewProcessor(zerolog.Nop())
	var seen []Code
	p.OnReport(func(item Item) { seen = append(seen, item.Code) })

	_ = p.Process(NewCIBNotLoaded())

	assert.Equal(t, []Code{CIBNotLoaded}, seen)
}

func TestSeverityFor(t *testing.T) {
	sev, forceable := SeverityFor(ForceOptions, false)
	assert.Equal(t, SeverityError, sev)
	assert.True(t, forceable)

	sev, forceable = SeverityFor(ForceOptions, true)
	assert.Equal(t, SeverityWarning, sev)
	assert.False(t, forceable)
}

func TestItemString(t *testing.T) {
	item := NewInvalidOptionValue("operation name", "moniter", []string{"monitor", "start"}, SeverityError, true, ForceOptions)

	assert.Equal(t,
		"Error: 'moniter' is not a valid operation name value, use monitor, start, use --force to override",
		item.String(),
	)
	assert.Equal(t, KindValidation, item.Kind)
}

func TestLibraryErrorMessage(t *testing.T) {
	err := NewLibraryError(NewNodeNotFound("a"), NewNodeNotFound("b"))

	assert.Equal(t,
		"node 'a' does not appear to exist in configuration; node 'b' does not appear to exist in configuration",
		err.Error(),
	)
	assert.True(t, err.HasCode(NodeNotFound))
	assert.False(t, err.HasCode(CIBPushError))
}
