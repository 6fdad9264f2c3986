package hosts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/hacfg/pkg/communication"
)

const knownHostsYAML = `hosts:
  node-b:
    token: token-b
  node-a:
    token: token-a
    dest_list:
      - addr: 10.0.0.1
        port: 2224
      - addr: 192.168.0.1
        port: 2225
`

func TestParse(t *testing.T) {
	kh, err := Parse([]byte(knownHostsYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"node-a", "node-b"}, kh.Names())

	target, ok := kh.Target("node-a")
	require.True(t, ok)
	assert.Equal(t, "token-a", target.Token)
	assert.Equal(t, []communication.Destination{
		{Addr: "10.0.0.1", Port: 2224},
		{Addr: "192.168.0.1", Port: 2225},
	}, target.Dests)

	target, ok = kh.Target("node-b")
	require.True(t, ok)
	assert.Equal(t, []communication.Destination{{Addr: "node-b", Port: communication.DefaultPort}}, target.Dests)

	_, ok = kh.Target("node-c")
	assert.False(t, ok)
}

func TestParseEmpty(t *testing.T) {
	kh, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, kh.Names())
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("hosts: [not, a, map]"))
	assert.Error(t, err)

	_, err = Parse([]byte("hosts:\n  a:\n    dest_list:\n      - port: 1\n"))
	assert.Error(t, err)
}
