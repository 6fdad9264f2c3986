package pacemaker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cuemby/hacfg/pkg/config"
	"github.com/cuemby/hacfg/pkg/log"
	"github.com/cuemby/hacfg/pkg/reports"
	"github.com/cuemby/hacfg/pkg/runner"
)

// WaitTimeoutExpiredReturnCode is what crm_resource --wait exits with when
// the cluster did not settle in time
const WaitTimeoutExpiredReturnCode = config.WaitTimeoutExpiredReturnCode

// Client runs pacemaker command line tools
type Client struct {
	runner runner.Runner
	binDir string
	logger zerolog.Logger
}

// NewClient creates a client running the tools found in binDir. An empty
// binDir resolves tools through PATH.
func NewClient(r runner.Runner, binDir string) *Client {
	return &Client{
		runner: r,
		binDir: binDir,
		logger: log.WithComponent("pacemaker"),
	}
}

func (c *Client) bin(name string) string {
	if c.binDir == "" {
		return name
	}
	return filepath.Join(c.binDir, name)
}

func (c *Client) run(ctx context.Context, stdin string, name string, args ...string) (runner.Result, error) {
	return c.runner.Run(ctx, append([]string{c.bin(name)}, args...), stdin)
}

// GetCIBXML loads the CIB of the live cluster
func (c *Client) GetCIBXML(ctx context.Context) (string, error) {
	result, err := c.run(ctx, "", "cibadmin", "--local", "--query")
	if err != nil {
		return "", reports.NewLibraryError(reports.NewCIBLoadError(err.Error()))
	}
	if result.ReturnCode != 0 {
		return "", reports.NewLibraryError(reports.NewCIBLoadError(result.JoinOutput()))
	}
	return result.Stdout, nil
}

// ReplaceCIBConfiguration pushes the configuration section of cibXML to the
// live cluster
func (c *Client) ReplaceCIBConfiguration(ctx context.Context, cibXML string) error {
	result, err := c.run(ctx, cibXML, "cibadmin",
		"--replace", "--verbose", "--xml-pipe", "--scope", "configuration")
	if err != nil {
		return reports.NewLibraryError(reports.NewCIBPushError(err.Error()))
	}
	if result.ReturnCode != 0 {
		return reports.NewLibraryError(reports.NewCIBPushError(result.JoinOutput()))
	}
	c.logger.Debug().Msg("CIB configuration replaced")
	return nil
}

// GetClusterStatusXML returns the crm_mon view of the cluster
func (c *Client) GetClusterStatusXML(ctx context.Context) (string, error) {
	result, err := c.run(ctx, "", "crm_mon", "--one-shot", "--as-xml", "--inactive")
	if err != nil {
		return "", reports.NewLibraryError(reports.NewCrmMonError(err.Error()))
	}
	if result.ReturnCode != 0 {
		return "", reports.NewLibraryError(reports.NewCrmMonError(result.JoinOutput()))
	}
	return result.Stdout, nil
}

// GetClusterState loads and parses the cluster status
func (c *Client) GetClusterState(ctx context.Context) (*ClusterState, error) {
	xml, err := c.GetClusterStatusXML(ctx)
	if err != nil {
		return nil, err
	}
	return ParseClusterState(xml)
}

// GetLocalNodeName asks pacemaker for the name of the node it runs on
func (c *Client) GetLocalNodeName(ctx context.Context) (string, error) {
	result, err := c.run(ctx, "", "crm_node", "--name")
	if err != nil {
		return "", reports.NewLibraryError(reports.NewPacemakerLocalNodeNameNotFound(err.Error()))
	}
	name := strings.TrimSpace(result.Stdout)
	if result.ReturnCode != 0 || name == "" || name == "(null)" {
		why := result.JoinOutput()
		if why == "" {
			why = "node name is empty"
		}
		return "", reports.NewLibraryError(reports.NewPacemakerLocalNodeNameNotFound(why))
	}
	return name, nil
}

// HasWaitForIdleSupport reports whether crm_resource knows --wait
func (c *Client) HasWaitForIdleSupport(ctx context.Context) bool {
	result, err := c.run(ctx, "", "crm_resource", "-?")
	if err != nil {
		return false
	}
	return strings.Contains(result.Stdout+result.Stderr, "--wait")
}

// WaitForIdle blocks until the cluster settles. timeoutSeconds <= 0 leaves
// the bound to pacemaker.
func (c *Client) WaitForIdle(ctx context.Context, timeoutSeconds int) error {
	args := []string{"--wait"}
	if timeoutSeconds > 0 {
		args = append(args, "--timeout="+strconv.Itoa(timeoutSeconds))
	}
	result, err := c.run(ctx, "", "crm_resource", args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return reports.NewLibraryError(reports.NewWaitForIdleTimedOut(err.Error()))
		}
		return reports.NewLibraryError(reports.NewWaitForIdleError(err.Error()))
	}
	switch {
	case result.ReturnCode == 0:
		return nil
	case result.ReturnCode == WaitTimeoutExpiredReturnCode:
		return reports.NewLibraryError(reports.NewWaitForIdleTimedOut(result.JoinOutput()))
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return reports.NewLibraryError(reports.NewWaitForIdleTimedOut(
			fmt.Sprintf("waiting interrupted: %v", ctx.Err())))
	default:
		return reports.NewLibraryError(reports.NewWaitForIdleError(result.JoinOutput()))
	}
}

// GetAgentMetadata returns the raw metadata XML of a resource agent
func (c *Client) GetAgentMetadata(ctx context.Context, agent string) (string, error) {
	result, err := c.run(ctx, "", "crm_resource", "--show-metadata", agent)
	if err != nil {
		return "", reports.NewLibraryError(reports.NewUnableToGetAgentMetadata(agent, err.Error()))
	}
	if result.ReturnCode != 0 {
		return "", reports.NewLibraryError(reports.NewUnableToGetAgentMetadata(agent, result.JoinOutput()))
	}
	return result.Stdout, nil
}
