package env

import (
	"context"
	"net/url"
	"sort"
	"strconv"

	"github.com/cuemby/hacfg/pkg/communication"
	"github.com/cuemby/hacfg/pkg/events"
	"github.com/cuemby/hacfg/pkg/reports"
)

// SetCorosyncConfAction is the pcsd action storing corosync.conf on a node
const SetCorosyncConfAction = "remote/set_corosync_conf"

// PushCorosyncConf stores corosync.conf. In file mode it replaces the file
// content, otherwise it is sent to every known host in parallel. Nodes that
// fail are reported and not retried; with skipOffline their failures are
// warnings.
func (e *Environment) PushCorosyncConf(ctx context.Context, text string, skipOffline bool) error {
	if !e.IsCorosyncConfLive() {
		e.files.CorosyncConfData = &text
		return nil
	}

	known := e.files.KnownHosts
	if known == nil || len(known.Hosts) == 0 {
		return reports.NewLibraryError(reports.NewNoKnownHosts())
	}
	if err := e.processor.Process(reports.NewCorosyncConfigDistributionStarted()); err != nil {
		return err
	}

	names := known.Names()
	reqs := make([]*communication.Request, 0, len(names))
	for _, name := range names {
		target, _ := known.Target(name)
		dests := make([]communication.Destination, len(target.Dests))
		for i, dest := range target.Dests {
			if dest.Port == 0 {
				dest.Port = e.opts.DefaultPort
			}
			dests[i] = dest
		}
		target.Dests = dests
		reqs = append(reqs, communication.NewRequest(target, SetCorosyncConfAction, url.Values{
			"corosync_conf": []string{text},
		}))
	}

	severity, forceable := reports.SeverityFor(reports.SkipOfflineNodes, skipOffline)
	var force reports.ForceCode
	if forceable {
		force = reports.SkipOfflineNodes
	}

	e.replication.Clear()
	e.Communicator().RunParallel(ctx, reqs, func(resp *communication.Response) {
		result := NodeResult{Node: resp.Label, Accepted: resp.OK()}
		if item := communication.ResponseToReport(resp, severity, force); item != nil {
			result.Accepted = false
			result.Reason = item.Message()
			result.report = item
		}
		e.replication.Store(resp.Label, result)
	})

	items := e.replicationReports(names, severity, forceable, force)
	accepted := 0
	for _, name := range names {
		if r, ok := e.replication.Load(name); ok && r.Accepted {
			accepted++
		}
	}
	e.opts.Broker.Emit(events.EventCorosyncPushed, "corosync.conf distributed", map[string]string{
		"accepted": strconv.Itoa(accepted),
		"failed":   strconv.Itoa(len(names) - accepted),
	})
	e.logger.Info().Int("accepted", accepted).Int("nodes", len(names)).Msg("corosync.conf distributed")

	return e.processor.ProcessList(items)
}

func (e *Environment) replicationReports(
	names []string,
	severity reports.Severity,
	forceable bool,
	force reports.ForceCode,
) []reports.Item {
	var items []reports.Item
	for _, name := range names {
		result, ok := e.replication.Load(name)
		if !ok {
			continue
		}
		if result.Accepted {
			items = append(items, reports.NewCorosyncConfigAcceptedByNode(name))
			continue
		}
		if result.report != nil {
			items = append(items, *result.report)
		}
		items = append(items, reports.NewCorosyncConfigDistributionNodeError(name, severity, forceable, force))
	}
	return items
}

// ReplicationResults returns the per node outcome of the last replication,
// sorted by node name
func (e *Environment) ReplicationResults() []NodeResult {
	var results []NodeResult
	e.replication.Range(func(_ string, result NodeResult) bool {
		results = append(results, result)
		return true
	})
	sort.Slice(results, func(i, j int) bool { return results[i].Node < results[j].Node })
	return results
}
