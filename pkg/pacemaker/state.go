package pacemaker

import (
	"github.com/beevik/etree"

	"github.com/cuemby/hacfg/pkg/cib"
	"github.com/cuemby/hacfg/pkg/reports"
)

// NodeState is one node as crm_mon sees it
type NodeState struct {
	ID          string
	Name        string
	Type        string
	Online      bool
	Standby     bool
	Maintenance bool
}

// ClusterState is a snapshot of the cluster status
type ClusterState struct {
	Nodes []NodeState
}

// ParseClusterState reads crm_mon --as-xml output
func ParseClusterState(xml string) (*ClusterState, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		return nil, reports.NewLibraryError(reports.NewBadClusterStateFormat(err.Error()))
	}
	root := doc.Root()
	if root == nil || root.Tag != "crm_mon" {
		return nil, reports.NewLibraryError(reports.NewBadClusterStateFormat("missing crm_mon element"))
	}
	nodes := root.SelectElement("nodes")
	if nodes == nil {
		return nil, reports.NewLibraryError(reports.NewBadClusterStateFormat("missing nodes element"))
	}

	state := &ClusterState{}
	for _, el := range nodes.SelectElements("node") {
		name := el.SelectAttrValue("name", "")
		id := el.SelectAttrValue("id", "")
		if name == "" || id == "" {
			return nil, reports.NewLibraryError(reports.NewBadClusterStateFormat("node element without name or id"))
		}
		state.Nodes = append(state.Nodes, NodeState{
			ID:          id,
			Name:        name,
			Type:        el.SelectAttrValue("type", "member"),
			Online:      cib.IsTrue(el.SelectAttrValue("online", "false")),
			Standby:     cib.IsTrue(el.SelectAttrValue("standby", "false")),
			Maintenance: cib.IsTrue(el.SelectAttrValue("maintenance", "false")),
		})
	}
	return state, nil
}

// Node finds a node by name
func (s *ClusterState) Node(name string) (NodeState, bool) {
	for _, node := range s.Nodes {
		if node.Name == name {
			return node, true
		}
	}
	return NodeState{}, false
}

// NodeNames lists node names in crm_mon order
func (s *ClusterState) NodeNames() []string {
	names := make([]string, 0, len(s.Nodes))
	for _, node := range s.Nodes {
		names = append(names, node.Name)
	}
	return names
}
