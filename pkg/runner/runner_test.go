package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerCapturesOutput(t *testing.T) {
	r := NewExecRunner(map[string]string{"HACFG_TEST_VAR": "from-env"})

	result, err := r.Run(context.Background(), []string{"sh", "-c", "cat; echo $HACFG_TEST_VAR; echo oops >&2"}, "input\n")
	require.NoError(t, err)

	assert.Equal(t, 0, result.ReturnCode)
	assert.Equal(t, "input\nfrom-env\n", result.Stdout)
	assert.Equal(t, "oops\n", result.Stderr)
	assert.Equal(t, "oops\ninput\nfrom-env", result.JoinOutput())
}

func TestExecRunnerNonZeroExitIsNotAnError(t *testing.T) {
	r := NewExecRunner(nil)

	result, err := r.Run(context.Background(), []string{"sh", "-c", "exit 62"}, "")
	require.NoError(t, err)
	assert.Equal(t, 62, result.ReturnCode)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := NewExecRunner(nil)

	_, err := r.Run(context.Background(), []string{"/nonexistent/hacfg-binary"}, "")
	assert.Error(t, err)

	_, err = r.Run(context.Background(), nil, "")
	assert.Error(t, err)
}

func TestExecRunnerTimeout(t *testing.T) {
	r := NewExecRunner(nil).WithTimeout(50 * time.Millisecond)

	start := time.Now()
	result, err := r.Run(context.Background(), []string{"sleep", "5"}, "")
	require.NoError(t, err)
	assert.NotEqual(t, 0, result.ReturnCode)
	assert.Less(t, time.Since(start), 4*time.Second)
}
