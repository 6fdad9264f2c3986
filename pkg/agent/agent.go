package agent

import (
	"context"
	"regexp"

	"github.com/beevik/etree"

	"github.com/cuemby/hacfg/pkg/reports"
)

// Operation is an operation descriptor: attribute name to value
type Operation = map[string]string

var nameRe = regexp.MustCompile(`^(ocf:[^:]+:[^:]+|(lsb|service|systemd|stonith|nagios|upstart):[^:]+)$`)

// actions that describe the agent itself rather than the resource
var notInCIB = map[string]bool{
	"meta-data":    true,
	"validate-all": true,
}

// Metadata describes what a resource agent can do
type Metadata interface {
	// Name is the full agent name, e.g. ocf:heartbeat:Dummy
	Name() string
	// ActionNames lists every action the agent declares
	ActionNames() []string
	// DefaultOperations lists the operations a new resource gets when the
	// user does not say otherwise
	DefaultOperations() []Operation
}

// MetadataSource fetches raw agent metadata XML
type MetadataSource interface {
	GetAgentMetadata(ctx context.Context, agent string) (string, error)
}

// Static is metadata held in memory
type Static struct {
	AgentName string
	Actions   []Operation
}

// Name implements Metadata
func (s *Static) Name() string { return s.AgentName }

// ActionNames implements Metadata
func (s *Static) ActionNames() []string {
	names := make([]string, 0, len(s.Actions))
	for _, action := range s.Actions {
		names = append(names, action["name"])
	}
	return names
}

// DefaultOperations implements Metadata
func (s *Static) DefaultOperations() []Operation {
	var ops []Operation
	for _, action := range s.Actions {
		if notInCIB[action["name"]] {
			continue
		}
		op := make(Operation, len(action))
		for k, v := range action {
			if k == "depth" {
				if v != "0" {
					op["OCF_CHECK_LEVEL"] = v
				}
				continue
			}
			op[k] = v
		}
		ops = append(ops, op)
	}
	return CompleteAllIntervals(ops)
}

// ValidateName checks the agent name format
func ValidateName(name string) error {
	if !nameRe.MatchString(name) {
		return reports.NewLibraryError(reports.NewInvalidResourceAgentName(name))
	}
	return nil
}

// Load fetches and parses the metadata of an agent
func Load(ctx context.Context, source MetadataSource, name string) (*Static, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	xml, err := source.GetAgentMetadata(ctx, name)
	if err != nil {
		return nil, err
	}
	return Parse(name, xml)
}

// Parse reads the actions of an agent metadata document
func Parse(name, xml string) (*Static, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		return nil, reports.NewLibraryError(reports.NewUnableToGetAgentMetadata(name, err.Error()))
	}
	root := doc.Root()
	if root == nil || root.Tag != "resource-agent" {
		return nil, reports.NewLibraryError(reports.NewUnableToGetAgentMetadata(name, "invalid metadata format"))
	}

	static := &Static{AgentName: name}
	actions := root.SelectElement("actions")
	if actions == nil {
		return static, nil
	}
	for _, el := range actions.SelectElements("action") {
		action := make(Operation)
		for _, attr := range el.Attr {
			action[attr.Key] = attr.Value
		}
		if action["name"] == "" {
			continue
		}
		static.Actions = append(static.Actions, action)
	}
	return static, nil
}

// DefaultInterval is the interval pacemaker assumes for an operation that
// does not set one
func DefaultInterval(name string) string {
	if name == "monitor" {
		return "60s"
	}
	return "0s"
}

// CompleteAllIntervals returns copies of ops with every missing interval set
// to its default
func CompleteAllIntervals(ops []Operation) []Operation {
	completed := make([]Operation, 0, len(ops))
	for _, op := range ops {
		c := make(Operation, len(op)+1)
		for k, v := range op {
			c[k] = v
		}
		if _, ok := c["interval"]; !ok {
			c["interval"] = DefaultInterval(c["name"])
		}
		completed = append(completed, c)
	}
	return completed
}
