package middleware

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/hacfg/pkg/cib"
	"github.com/cuemby/hacfg/pkg/reports"
)

type memFiles struct {
	data    map[string]string
	writes  []string
	readErr error
}

func newMemFiles(files map[string]string) *memFiles {
	if files == nil {
		files = map[string]string{}
	}
	return &memFiles{data: files}
}

func (m *memFiles) Read(path string) (string, error) {
	if m.readErr != nil {
		return "", m.readErr
	}
	data, ok := m.data[path]
	if !ok {
		return "", fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return data, nil
}

func (m *memFiles) Write(path, content string) error {
	m.writes = append(m.writes, path)
	m.data[path] = content
	return nil
}

func (m *memFiles) Touch(path, initial string) error {
	if _, ok := m.data[path]; !ok {
		m.data[path] = initial
	}
	return nil
}

type recorder struct {
	name      string
	trace     *[]string
	failAfter bool
}

func (r recorder) Before(*Env) error {
	*r.trace = append(*r.trace, r.name+".before")
	return nil
}

func (r recorder) After(*Env) error {
	*r.trace = append(*r.trace, r.name+".after")
	if r.failAfter {
		return errors.New("after failed")
	}
	return nil
}

type failingBefore struct{}

func (failingBefore) Before(*Env) error { return errors.New("before failed") }
func (failingBefore) After(*Env) error  { return nil }

func TestChainOnionOrder(t *testing.T) {
	var trace []string
	chain := Build(recorder{name: "a", trace: &trace}, recorder{name: "b", trace: &trace})

	err := chain.Run(&Env{}, func(*Env) error {
		trace = append(trace, "command")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.before", "b.before", "command", "b.after", "a.after"}, trace)
}

func TestChainFailingCommandSkipsAfter(t *testing.T) {
	var trace []string
	chain := Build(recorder{name: "a", trace: &trace}, recorder{name: "b", trace: &trace})

	err := chain.Run(&Env{}, func(*Env) error { return errors.New("boom") })
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"a.before", "b.before"}, trace)
}

func TestChainFailingBeforeStops(t *testing.T) {
	var trace []string
	ran := false
	chain := Build(recorder{name: "a", trace: &trace}, failingBefore{}, recorder{name: "c", trace: &trace})

	err := chain.Run(&Env{}, func(*Env) error { ran = true; return nil })
	assert.Error(t, err)
	assert.False(t, ran)
	assert.Equal(t, []string{"a.before"}, trace)
}

func TestChainFailingInnerAfterSkipsOuterAfter(t *testing.T) {
	var trace []string
	chain := Build(recorder{name: "a", trace: &trace}, recorder{name: "b", trace: &trace, failAfter: true})

	err := chain.Run(&Env{}, func(*Env) error { return nil })
	assert.EqualError(t, err, "after failed")
	assert.Equal(t, []string{"a.before", "b.before", "b.after"}, trace)
}

func TestCIBUnchangedIsNotWritten(t *testing.T) {
	files := newMemFiles(map[string]string{"cib.xml": cib.EmptyCIB})
	chain := Build(CIB("cib.xml", files))

	err := chain.Run(&Env{}, func(env *Env) error {
		require.NotNil(t, env.CIBData)
		assert.Equal(t, cib.EmptyCIB, *env.CIBData)
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, files.writes)
}

func TestCIBChangedIsWritten(t *testing.T) {
	files := newMemFiles(nil)
	chain := Build(CIB("cib.xml", files))

	err := chain.Run(&Env{}, func(env *Env) error {
		assert.Equal(t, cib.EmptyCIB, *env.CIBData)
		updated := "<cib/>"
		env.CIBData = &updated
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cib.xml"}, files.writes)
	assert.Equal(t, "<cib/>", files.data["cib.xml"])
}

func TestCIBNotWrittenWhenCommandFails(t *testing.T) {
	files := newMemFiles(map[string]string{"cib.xml": "<cib/>"})
	chain := Build(CIB("cib.xml", files))

	err := chain.Run(&Env{}, func(env *Env) error {
		updated := "<cib epoch=\"2\"/>"
		env.CIBData = &updated
		return errors.New("validation failed")
	})
	assert.Error(t, err)
	assert.Empty(t, files.writes)
}

func TestClusterConfIsReadOnly(t *testing.T) {
	files := newMemFiles(map[string]string{"cluster.conf": "<cluster/>"})
	chain := Build(ClusterConfReadOnly("cluster.conf", files))

	err := chain.Run(&Env{}, func(env *Env) error {
		changed := "<cluster name=\"x\"/>"
		env.ClusterConfData = &changed
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, files.writes)
}

func TestReadFailureIsFileIOError(t *testing.T) {
	files := newMemFiles(nil)
	files.readErr = errors.New("permission denied")
	chain := Build(CorosyncConf("corosync.conf", files))

	err := chain.Run(&Env{}, func(*Env) error { return nil })

	var libErr *reports.LibraryError
	require.ErrorAs(t, err, &libErr)
	require.Len(t, libErr.Items, 1)
	assert.Equal(t, reports.FileIOError, libErr.Items[0].Code)
	assert.Equal(t, reports.KindIO, libErr.Items[0].Kind)
}

func TestKnownHosts(t *testing.T) {
	files := newMemFiles(map[string]string{
		"known-hosts": "hosts:\n  node1:\n    token: abc\n    dest_list:\n      - addr: 10.0.0.1\n        port: 2224\n",
	})

	env := &Env{}
	require.NoError(t, Build(KnownHostsReadOnly("known-hosts", files)).Run(env, func(*Env) error { return nil }))
	require.NotNil(t, env.KnownHosts)
	assert.Equal(t, []string{"node1"}, env.KnownHosts.Names())
}

func TestKnownHostsMissingIsEmpty(t *testing.T) {
	env := &Env{}
	require.NoError(t, Build(KnownHostsReadOnly("missing", newMemFiles(nil))).Run(env, func(*Env) error { return nil }))
	require.NotNil(t, env.KnownHosts)
	assert.Empty(t, env.KnownHosts.Names())
}

func TestKnownHostsInvalid(t *testing.T) {
	files := newMemFiles(map[string]string{"known-hosts": "hosts: [not a map"})
	err := Build(KnownHostsReadOnly("known-hosts", files)).Run(&Env{}, func(*Env) error { return nil })

	var libErr *reports.LibraryError
	require.ErrorAs(t, err, &libErr)
	assert.True(t, libErr.HasCode(reports.FileIOError))
}

func TestOSFileStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cib.xml")
	store := OSFileStore{}

	require.NoError(t, store.Touch(path, cib.EmptyCIB))
	data, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, cib.EmptyCIB, data)

	require.NoError(t, store.Touch(path, "ignored"))
	require.NoError(t, os.Chmod(path, 0600))
	require.NoError(t, store.Write(path, "<cib/>"))

	data, err = store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "<cib/>", data)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0600), info.Mode().Perm())

	_, err = store.Read(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files left behind")
}

func TestOSFileStoreWriteNewFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corosync.conf")

	require.NoError(t, OSFileStore{}.Write(path, "totem {}\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "totem {}\n", string(data))

	err = OSFileStore{}.Write(filepath.Join(dir, "missing", "corosync.conf"), "x")
	assert.Error(t, err)
}
