package env

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"

	"github.com/cuemby/hacfg/pkg/agent"
	"github.com/cuemby/hacfg/pkg/cib"
	"github.com/cuemby/hacfg/pkg/communication"
	"github.com/cuemby/hacfg/pkg/events"
	"github.com/cuemby/hacfg/pkg/history"
	"github.com/cuemby/hacfg/pkg/log"
	"github.com/cuemby/hacfg/pkg/metrics"
	"github.com/cuemby/hacfg/pkg/middleware"
	"github.com/cuemby/hacfg/pkg/pacemaker"
	"github.com/cuemby/hacfg/pkg/reports"
	"github.com/cuemby/hacfg/pkg/runner"
)

// RunnerFactory creates the runner of pacemaker tools with extra environment
type RunnerFactory func(env map[string]string) runner.Runner

// Options configures an Environment
type Options struct {
	// Command names the command for logs, metrics and the journal
	Command         string
	Processor       *reports.Processor
	Broker          *events.Broker
	History         history.Store
	PacemakerBinDir string
	Communication   communication.Config
	// DefaultPort is used for node addresses without a port
	DefaultPort int
	// CommandTimeout bounds each run of the default runner
	CommandTimeout time.Duration
	// NewRunner defaults to runner.NewExecRunner
	NewRunner RunnerFactory
	// Getenv is used for proxy detection, os.Getenv by default
	Getenv func(string) string
}

// Environment is one command's transaction. It loads the CIB at most once
// and pushes it at most once.
type Environment struct {
	files     *middleware.Env
	opts      Options
	processor *reports.Processor
	txID      string
	logger    zerolog.Logger

	cib      *cib.Document
	loaded   bool
	snapshot string

	runner       runner.Runner
	tmpCIB       string
	communicator *communication.Communicator
	waitSupport  *bool
	replication  *xsync.MapOf[string, NodeResult]
}

// NodeResult is the outcome of replicating to one node
type NodeResult struct {
	Node     string
	Accepted bool
	Reason   string

	report *reports.Item
}

// New creates the environment over what the middlewares loaded
func New(files *middleware.Env, opts Options) *Environment {
	if files == nil {
		files = &middleware.Env{}
	}
	if opts.Processor == nil {
		opts.Processor = reports.NewProcessor(log.WithComponent("reports"))
	}
	if opts.NewRunner == nil {
		opts.NewRunner = func(env map[string]string) runner.Runner {
			return runner.NewExecRunner(env).WithTimeout(opts.CommandTimeout)
		}
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.DefaultPort == 0 {
		opts.DefaultPort = communication.DefaultPort
	}
	txID := uuid.New().String()
	return &Environment{
		files:       files,
		opts:        opts,
		processor:   opts.Processor,
		txID:        txID,
		logger:      log.WithTransaction("env", txID).With().Str("command", opts.Command).Logger(),
		replication: xsync.NewMapOf[string, NodeResult](),
	}
}

// Processor returns the report processor of the transaction
func (e *Environment) Processor() *reports.Processor {
	return e.processor
}

// TransactionID identifies the transaction in logs
func (e *Environment) TransactionID() string {
	return e.txID
}

// IsCIBLive reports whether the CIB comes from the running cluster
func (e *Environment) IsCIBLive() bool {
	return e.files.CIBData == nil
}

// IsCorosyncConfLive reports whether corosync.conf goes to the cluster nodes
func (e *Environment) IsCorosyncConfLive() bool {
	return e.files.CorosyncConfData == nil
}

// ClusterConf returns the cluster.conf loaded by the middleware, if any
func (e *Environment) ClusterConf() (string, bool) {
	if e.files.ClusterConfData == nil {
		return "", false
	}
	return *e.files.ClusterConfData, true
}

// Close releases temporary files
func (e *Environment) Close() error {
	if e.tmpCIB != "" {
		if err := os.Remove(e.tmpCIB); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove temporary CIB: %w", err)
		}
		e.tmpCIB = ""
	}
	return nil
}

// Runner returns the runner of pacemaker tools. In file mode the tools are
// pointed at a copy of the CIB file through CIB_file.
func (e *Environment) Runner() (runner.Runner, error) {
	if e.runner != nil {
		return e.runner, nil
	}
	extra := map[string]string{"LC_ALL": "C"}
	if !e.IsCIBLive() {
		tmp, err := os.CreateTemp("", "hacfg-cib-*.xml")
		if err != nil {
			return nil, fmt.Errorf("failed to create temporary CIB: %w", err)
		}
		e.tmpCIB = tmp.Name()
		if _, err := tmp.WriteString(*e.files.CIBData); err != nil {
			tmp.Close()
			return nil, fmt.Errorf("failed to write temporary CIB: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return nil, fmt.Errorf("failed to close temporary CIB: %w", err)
		}
		extra["CIB_file"] = e.tmpCIB
	}
	e.runner = e.opts.NewRunner(extra)
	return e.runner, nil
}

func (e *Environment) pacemaker() (*pacemaker.Client, error) {
	r, err := e.Runner()
	if err != nil {
		return nil, err
	}
	return pacemaker.NewClient(r, e.opts.PacemakerBinDir), nil
}

// ClusterState loads the node states from crm_mon
func (e *Environment) ClusterState(ctx context.Context) (*pacemaker.ClusterState, error) {
	client, err := e.pacemaker()
	if err != nil {
		return nil, err
	}
	return client.GetClusterState(ctx)
}

// LocalNodeName asks pacemaker for the name of this node
func (e *Environment) LocalNodeName(ctx context.Context) (string, error) {
	client, err := e.pacemaker()
	if err != nil {
		return "", err
	}
	return client.GetLocalNodeName(ctx)
}

// AgentMetadata loads the metadata of a resource agent
func (e *Environment) AgentMetadata(ctx context.Context, name string) (agent.Metadata, error) {
	client, err := e.pacemaker()
	if err != nil {
		return nil, err
	}
	metadata, err := agent.Load(ctx, client, name)
	if err != nil {
		return nil, err
	}
	return metadata, nil
}

// GetCIB loads the CIB. It can be called once per transaction.
func (e *Environment) GetCIB(ctx context.Context) (*cib.Document, error) {
	if e.loaded {
		return nil, reports.NewLibraryError(reports.NewCIBAlreadyLoaded())
	}

	var raw string
	if e.IsCIBLive() {
		client, err := e.pacemaker()
		if err != nil {
			return nil, err
		}
		if raw, err = client.GetCIBXML(ctx); err != nil {
			return nil, err
		}
	} else {
		raw = *e.files.CIBData
	}

	doc, err := cib.Parse(raw)
	if err != nil {
		return nil, err
	}
	snapshot, err := doc.String()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize CIB: %w", err)
	}

	e.cib = doc
	e.loaded = true
	e.snapshot = snapshot
	e.logger.Debug().Bool("live", e.IsCIBLive()).Int("size", len(raw)).Msg("CIB loaded")
	return doc, nil
}

// PushCIB commits the loaded CIB when it differs from what was loaded and
// then waits for the cluster to settle if asked to
func (e *Environment) PushCIB(ctx context.Context, wait Wait) error {
	if e.cib == nil {
		return reports.NewLibraryError(reports.NewCIBNotLoaded())
	}
	timeout, err := e.EnsureWaitSatisfiable(ctx, wait)
	if err != nil {
		return err
	}

	doc := e.cib
	e.cib = nil

	target := "live"
	if !e.IsCIBLive() {
		target = "file"
	}

	data, err := doc.String()
	if err != nil {
		return fmt.Errorf("failed to serialize CIB: %w", err)
	}

	if data == e.snapshot {
		metrics.CIBPushesTotal.WithLabelValues(target, "unchanged").Inc()
		e.opts.Broker.Emit(events.EventCIBUnchanged, "CIB not changed, nothing to push", map[string]string{
			"target":  target,
			"command": e.opts.Command,
		})
		e.logger.Debug().Str("target", target).Msg("CIB unchanged, not pushing")
	} else {
		if err := e.push(ctx, data); err != nil {
			metrics.CIBPushesTotal.WithLabelValues(target, "failed").Inc()
			return err
		}
		metrics.CIBPushesTotal.WithLabelValues(target, "pushed").Inc()
		e.record(target, data)
		e.opts.Broker.Emit(events.EventCIBPushed, "CIB pushed", map[string]string{
			"target":  target,
			"command": e.opts.Command,
			"size":    fmt.Sprintf("%d", len(data)),
		})
		e.logger.Info().Str("target", target).Int("size", len(data)).Msg("CIB pushed")
	}

	if wait.Enabled {
		return e.WaitForIdle(ctx, timeout)
	}
	return nil
}

func (e *Environment) push(ctx context.Context, data string) error {
	if !e.IsCIBLive() {
		e.files.CIBData = &data
		return nil
	}
	client, err := e.pacemaker()
	if err != nil {
		return err
	}
	return client.ReplaceCIBConfiguration(ctx, data)
}

func (e *Environment) record(target, data string) {
	if e.opts.History == nil {
		return
	}
	if err := e.opts.History.Record(history.NewCommit(target, e.opts.Command, data)); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to record commit")
	}
}

// EnsureWaitSatisfiable checks the wait policy can be honoured and returns
// its timeout in seconds
func (e *Environment) EnsureWaitSatisfiable(ctx context.Context, wait Wait) (int, error) {
	if !wait.Enabled {
		return 0, nil
	}
	if !e.IsCIBLive() {
		return 0, reports.NewLibraryError(reports.NewWaitForIdleNotLiveCluster())
	}
	timeout, err := wait.seconds()
	if err != nil {
		return 0, err
	}
	if e.waitSupport == nil {
		client, err := e.pacemaker()
		if err != nil {
			return 0, err
		}
		supported := client.HasWaitForIdleSupport(ctx)
		e.waitSupport = &supported
	}
	if !*e.waitSupport {
		return 0, reports.NewLibraryError(reports.NewWaitForIdleNotSupported())
	}
	return timeout, nil
}

// WaitForIdle blocks until pacemaker has no pending actions
func (e *Environment) WaitForIdle(ctx context.Context, timeoutSeconds int) error {
	client, err := e.pacemaker()
	if err != nil {
		return err
	}
	start := time.Now()
	e.logger.Info().Int("timeout", timeoutSeconds).Msg("Waiting for the cluster to settle")
	if err := client.WaitForIdle(ctx, timeoutSeconds); err != nil {
		return err
	}
	e.logger.Info().Dur("duration", time.Since(start)).Msg("Cluster settled")
	return nil
}

// Communicator returns the node communicator of the transaction
func (e *Environment) Communicator() *communication.Communicator {
	if e.communicator == nil {
		logger := communication.NewReportingLogger(
			log.WithTransaction("communication", e.txID), e.processor, e.opts.Broker,
		).WithGetenv(e.opts.Getenv)
		e.communicator = communication.New(e.opts.Communication, logger)
	}
	return e.communicator
}
