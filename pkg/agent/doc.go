// Package agent provides the resource agent metadata the operation pipeline
// needs: declared action names and default operations.
package agent
