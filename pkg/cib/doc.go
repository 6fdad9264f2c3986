/*
Package cib wraps the cluster information base, the XML document pacemaker
keeps its configuration in.

The package parses and serializes the document with etree, hands out its
mandatory sections (configuration, nodes, resources) and creates optional
ones (op_defaults, rsc_defaults) on demand. Id helpers keep generated element
ids unique over the whole document:

	provider := cib.NewIDProvider()
	id := cib.CreateSubelementID(primitive, "monitor-interval-10s", provider)

TimeoutToSeconds turns pacemaker time values into seconds and is the
canonical form intervals are compared in.
*/
package cib
