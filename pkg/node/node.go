package node

import (
	"context"

	"github.com/cuemby/hacfg/pkg/cib"
	"github.com/cuemby/hacfg/pkg/env"
	"github.com/cuemby/hacfg/pkg/log"
	"github.com/cuemby/hacfg/pkg/nvpair"
	"github.com/cuemby/hacfg/pkg/pacemaker"
	"github.com/cuemby/hacfg/pkg/reports"
)

// Scope selects which nodes a change applies to
type Scope int

const (
	// ScopeLocal is the node hacfg runs on
	ScopeLocal Scope = iota
	// ScopeList is an explicit list of node names
	ScopeList
	// ScopeAll is every node of the cluster
	ScopeAll
)

// Target is the set of nodes a change applies to
type Target struct {
	Scope Scope
	Names []string
}

// Local targets the local node
func Local() Target { return Target{Scope: ScopeLocal} }

// All targets every node
func All() Target { return Target{Scope: ScopeAll} }

// List targets the named nodes
func List(names ...string) Target { return Target{Scope: ScopeList, Names: names} }

// Attributes that switch node modes
const (
	AttrStandby     = "standby"
	AttrMaintenance = "maintenance"
)

// ApplyAttrs sets attrs in the instance attributes of every targeted node
// and pushes the CIB once. An empty value removes the attribute.
func ApplyAttrs(ctx context.Context, e *env.Environment, attrs map[string]string, target Target, wait env.Wait) error {
	logger := log.WithTransaction("node", e.TransactionID())

	if target.Scope == ScopeLocal && !e.IsCIBLive() {
		return reports.NewLibraryError(reports.NewLiveEnvironmentRequiredForLocalNode())
	}
	if _, err := e.EnsureWaitSatisfiable(ctx, wait); err != nil {
		return err
	}
	state, err := e.ClusterState(ctx)
	if err != nil {
		return err
	}

	nodes, err := resolve(ctx, e, state, target)
	if err != nil {
		return err
	}

	doc, err := e.GetCIB(ctx)
	if err != nil {
		return err
	}
	section, err := doc.Nodes()
	if err != nil {
		return err
	}

	for _, n := range nodes {
		el := cib.EnsureNode(section, n.ID, n.Name)
		nvpair.ArrangeFirstInstanceAttributes(el, attrs, "nodes-"+el.SelectAttrValue("id", n.ID))
		_ = e.Processor().Process(reports.NewNodeAttributeChangeApplied(n.Name, attrs))
		logger.Debug().Str("node", n.Name).Interface("attrs", attrs).Msg("Node attributes applied")
	}

	return e.PushCIB(ctx, wait)
}

// resolve turns the target into node states. Every unknown name of a list
// is reported at once.
func resolve(ctx context.Context, e *env.Environment, state *pacemaker.ClusterState, target Target) ([]pacemaker.NodeState, error) {
	switch target.Scope {
	case ScopeLocal:
		name, err := e.LocalNodeName(ctx)
		if err != nil {
			return nil, err
		}
		n, ok := state.Node(name)
		if !ok {
			return nil, reports.NewLibraryError(reports.NewNodeNotFound(name))
		}
		return []pacemaker.NodeState{n}, nil

	case ScopeList:
		var found []pacemaker.NodeState
		var missing []reports.Item
		for _, name := range target.Names {
			n, ok := state.Node(name)
			if !ok {
				missing = append(missing, reports.NewNodeNotFound(name))
				continue
			}
			found = append(found, n)
		}
		if len(missing) > 0 {
			return nil, reports.NewLibraryError(missing...)
		}
		return found, nil

	default:
		return state.Nodes, nil
	}
}

func modeValue(on bool) string {
	if on {
		return "on"
	}
	return ""
}

// Standby puts the targeted nodes into standby, or takes them out of it
func Standby(ctx context.Context, e *env.Environment, on bool, target Target, wait env.Wait) error {
	return ApplyAttrs(ctx, e, map[string]string{AttrStandby: modeValue(on)}, target, wait)
}

// Maintenance puts the targeted nodes into maintenance, or takes them out
// of it
func Maintenance(ctx context.Context, e *env.Environment, on bool, target Target, wait env.Wait) error {
	return ApplyAttrs(ctx, e, map[string]string{AttrMaintenance: modeValue(on)}, target, wait)
}
