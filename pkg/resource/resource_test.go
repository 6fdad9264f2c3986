package resource

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/hacfg/pkg/cib"
	"github.com/cuemby/hacfg/pkg/env"
	"github.com/cuemby/hacfg/pkg/middleware"
	"github.com/cuemby/hacfg/pkg/operations"
	"github.com/cuemby/hacfg/pkg/reports"
	"github.com/cuemby/hacfg/pkg/runner"
	"github.com/cuemby/hacfg/pkg/runner/runnertest"
)

const dummyMetadata = `<?xml version="1.0"?>
<resource-agent name="Dummy">
  <actions>
    <action name="start" timeout="20s"/>
    <action name="stop" timeout="20s"/>
    <action name="monitor" timeout="20s" interval="10s" depth="0"/>
    <action name="meta-data" timeout="5s"/>
    <action name="validate-all" timeout="20s"/>
  </actions>
</resource-agent>`

var showMetadata = runnertest.Call{
	Args:   []string{"crm_resource", "--show-metadata", "ocf:heartbeat:Dummy"},
	Result: runner.Result{Stdout: dummyMetadata},
}

func newEnv(t *testing.T, data string, calls ...runnertest.Call) (*env.Environment, *middleware.Env, *runnertest.Runner) {
	t.Helper()
	files := &middleware.Env{CIBData: &data}
	fake := runnertest.New(calls...)
	e := env.New(files, env.Options{
		Processor: reports.NewProcessor(zerolog.Nop()),
		NewRunner: func(map[string]string) runner.Runner { return fake },
	})
	t.Cleanup(func() { _ = e.Close() })
	return e, files, fake
}

func codes(t *testing.T, err error) []reports.Code {
	t.Helper()
	var libErr *reports.LibraryError
	require.ErrorAs(t, err, &libErr)
	return libErr.Codes()
}

func TestCreate(t *testing.T) {
	e, files, fake := newEnv(t, cib.EmptyCIB, showMetadata)

	err := Create(context.Background(), e, "R", "ocf:heartbeat:Dummy",
		map[string]string{"fake": "x"},
		nil,
		[]operations.Operation{{"name": "monitor", "interval": "30s"}},
		Options{},
	)
	require.NoError(t, err)
	assert.True(t, fake.Done())

	assert.Contains(t, *files.CIBData,
		`<primitive id="R" class="ocf" provider="heartbeat" type="Dummy">`+
			`<instance_attributes id="R-instance_attributes">`+
			`<nvpair id="R-instance_attributes-fake" name="fake" value="x"/>`+
			`</instance_attributes>`+
			`<operations>`+
			`<op id="R-monitor-interval-30s" interval="30s" name="monitor" timeout="20s"/>`+
			`<op id="R-start-interval-0s" interval="0s" name="start" timeout="20s"/>`+
			`<op id="R-stop-interval-0s" interval="0s" name="stop" timeout="20s"/>`+
			`</operations>`+
			`</primitive>`)
	assert.NotContains(t, *files.CIBData, "meta-data")
}

func TestCreateDisabled(t *testing.T) {
	e, files, _ := newEnv(t, cib.EmptyCIB, showMetadata)

	err := Create(context.Background(), e, "R", "ocf:heartbeat:Dummy", nil,
		map[string]string{"priority": "10"}, nil, Options{Disabled: true})
	require.NoError(t, err)

	assert.Contains(t, *files.CIBData,
		`<meta_attributes id="R-meta_attributes">`+
			`<nvpair id="R-meta_attributes-priority" name="priority" value="10"/>`+
			`<nvpair id="R-meta_attributes-target-role" name="target-role" value="Stopped"/>`+
			`</meta_attributes>`)
	assert.NotContains(t, *files.CIBData, "instance_attributes")
}

func TestCreateDuplicateMonitorIntervals(t *testing.T) {
	e, files, _ := newEnv(t, cib.EmptyCIB, showMetadata)
	original := files.CIBData

	err := Create(context.Background(), e, "R", "ocf:heartbeat:Dummy", nil, nil,
		[]operations.Operation{
			{"name": "monitor", "interval": "10s"},
			{"name": "monitor", "interval": "10s", "timeout": "40s"},
		},
		Options{},
	)
	assert.Equal(t, []reports.Code{reports.ResourceOperationIntervalDuplication}, codes(t, err))
	assert.Same(t, original, files.CIBData)
}

func TestCreateUnknownOperation(t *testing.T) {
	e, files, _ := newEnv(t, cib.EmptyCIB, showMetadata)
	original := files.CIBData

	err := Create(context.Background(), e, "R", "ocf:heartbeat:Dummy", nil, nil,
		[]operations.Operation{{"name": "promote"}}, Options{})
	assert.Error(t, err)
	assert.Same(t, original, files.CIBData)
}

func TestCreateIDExists(t *testing.T) {
	data := `<cib><configuration><nodes/><resources><primitive id="R" class="ocf" provider="heartbeat" type="Dummy"/></resources></configuration></cib>`
	e, _, fake := newEnv(t, data)

	err := Create(context.Background(), e, "R", "ocf:heartbeat:Dummy", nil, nil, nil, Options{})
	assert.Equal(t, []reports.Code{reports.IDAlreadyExists}, codes(t, err))
	assert.Empty(t, fake.Received())
}

func TestCreateInvalidAgentName(t *testing.T) {
	e, _, fake := newEnv(t, cib.EmptyCIB)

	err := Create(context.Background(), e, "R", "Dummy", nil, nil, nil, Options{})
	assert.Equal(t, []reports.Code{reports.InvalidResourceAgentName}, codes(t, err))
	assert.Empty(t, fake.Received())
}

func TestCreateSystemdAgent(t *testing.T) {
	e, files, _ := newEnv(t, cib.EmptyCIB, runnertest.Call{
		Args:   []string{"crm_resource", "--show-metadata", "systemd:httpd"},
		Result: runner.Result{Stdout: `<resource-agent name="httpd"><actions><action name="start" timeout="100"/><action name="monitor" interval="60" timeout="100"/></actions></resource-agent>`},
	})

	require.NoError(t, Create(context.Background(), e, "web", "systemd:httpd", nil, nil, nil, Options{}))
	assert.Contains(t, *files.CIBData, `<primitive id="web" class="systemd" type="httpd">`)
	assert.Contains(t, *files.CIBData, `<op id="web-monitor-interval-60" interval="60" name="monitor" timeout="100"/>`)
}
