// Package node changes node attributes (standby, maintenance, ...) on the
// local node, a list of nodes or every node in a single CIB push.
package node
