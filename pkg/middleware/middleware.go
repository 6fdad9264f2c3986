package middleware

import (
	"errors"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/cuemby/hacfg/pkg/cib"
	"github.com/cuemby/hacfg/pkg/hosts"
	"github.com/cuemby/hacfg/pkg/log"
	"github.com/cuemby/hacfg/pkg/reports"
)

// Env is what the middlewares hand to the command. A nil CIBData or
// CorosyncConfData means the document lives in the running cluster.
type Env struct {
	CIBData          *string
	CorosyncConfData *string
	ClusterConfData  *string
	KnownHosts       *hosts.KnownHosts
}

// Middleware wraps a command with work done before and after it. After only
// runs when everything inside succeeded.
type Middleware interface {
	Before(env *Env) error
	After(env *Env) error
}

// Command is the innermost step of a chain
type Command func(env *Env) error

// Chain is a built onion of middlewares
type Chain struct {
	middlewares []Middleware
}

// Build nests the middlewares so that the first one is outermost
func Build(middlewares ...Middleware) Chain {
	return Chain{middlewares: middlewares}
}

// Run executes the chain around cmd
func (c Chain) Run(env *Env, cmd Command) error {
	return c.run(0, env, cmd)
}

func (c Chain) run(i int, env *Env, cmd Command) error {
	if i == len(c.middlewares) {
		return cmd(env)
	}
	m := c.middlewares[i]
	if err := m.Before(env); err != nil {
		return err
	}
	if err := c.run(i+1, env, cmd); err != nil {
		return err
	}
	return m.After(env)
}

// fileMiddleware loads a file into a slot of Env and writes it back when
// the command changed it
type fileMiddleware struct {
	role     string
	path     string
	initial  string
	readOnly bool
	files    FileStore
	slot     func(env *Env) **string
	loaded   string
	logger   zerolog.Logger
}

func (m *fileMiddleware) Before(env *Env) error {
	if m.initial != "" {
		if err := m.files.Touch(m.path, m.initial); err != nil {
			return fileError(m.role, m.path, "touch", err)
		}
	}
	data, err := m.files.Read(m.path)
	if err != nil {
		return fileError(m.role, m.path, "read", err)
	}
	m.loaded = data
	*m.slot(env) = &data
	m.logger.Debug().Str("path", m.path).Int("size", len(data)).Msg("File loaded")
	return nil
}

func (m *fileMiddleware) After(env *Env) error {
	if m.readOnly {
		return nil
	}
	current := *m.slot(env)
	if current == nil || *current == m.loaded {
		m.logger.Debug().Str("path", m.path).Msg("File unchanged, not writing")
		return nil
	}
	if err := m.files.Write(m.path, *current); err != nil {
		return fileError(m.role, m.path, "write", err)
	}
	m.logger.Info().Str("path", m.path).Msg("File written")
	return nil
}

func newFileMiddleware(role, path string, files FileStore, slot func(env *Env) **string) *fileMiddleware {
	if files == nil {
		files = OSFileStore{}
	}
	return &fileMiddleware{
		role:   role,
		path:   path,
		files:  files,
		slot:   slot,
		logger: log.WithComponent("middleware").With().Str("file", role).Logger(),
	}
}

// CIB loads the CIB from a file, creating an empty one when missing
func CIB(path string, files FileStore) Middleware {
	m := newFileMiddleware("CIB", path, files, func(env *Env) **string { return &env.CIBData })
	m.initial = cib.EmptyCIB
	return m
}

// CorosyncConf loads corosync.conf from a file
func CorosyncConf(path string, files FileStore) Middleware {
	return newFileMiddleware("corosync.conf", path, files, func(env *Env) **string { return &env.CorosyncConfData })
}

// ClusterConfReadOnly loads cluster.conf without ever writing it back
func ClusterConfReadOnly(path string, files FileStore) Middleware {
	m := newFileMiddleware("cluster.conf", path, files, func(env *Env) **string { return &env.ClusterConfData })
	m.readOnly = true
	return m
}

type knownHosts struct {
	path  string
	files FileStore
}

// KnownHostsReadOnly parses the known-hosts file. A missing file is an empty
// host list.
func KnownHostsReadOnly(path string, files FileStore) Middleware {
	if files == nil {
		files = OSFileStore{}
	}
	return &knownHosts{path: path, files: files}
}

func (m *knownHosts) Before(env *Env) error {
	data, err := m.files.Read(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		env.KnownHosts = &hosts.KnownHosts{Hosts: map[string]hosts.Host{}}
		return nil
	}
	if err != nil {
		return fileError("known-hosts", m.path, "read", err)
	}
	kh, err := hosts.Parse([]byte(data))
	if err != nil {
		return fileError("known-hosts", m.path, "parse", err)
	}
	env.KnownHosts = kh
	return nil
}

func (m *knownHosts) After(*Env) error { return nil }

func fileError(role, path, operation string, err error) error {
	return reports.NewLibraryError(reports.NewFileIOError(role, path, operation, err.Error()))
}
