// Package resource creates primitive resources.
package resource

import (
	"context"
	"strings"

	"github.com/beevik/etree"

	"github.com/cuemby/hacfg/pkg/agent"
	"github.com/cuemby/hacfg/pkg/cib"
	"github.com/cuemby/hacfg/pkg/env"
	"github.com/cuemby/hacfg/pkg/log"
	"github.com/cuemby/hacfg/pkg/nvpair"
	"github.com/cuemby/hacfg/pkg/operations"
)

// Options of Create
type Options struct {
	// AllowInvalidOperation accepts operation names the agent does not
	// declare
	AllowInvalidOperation bool
	// Disabled creates the resource with target-role=Stopped
	Disabled bool
	Wait     env.Wait
}

// Create adds a primitive running agentName to the resources section. ops
// are the operations the user entered; the agent's default operations fill
// in the rest.
func Create(
	ctx context.Context,
	e *env.Environment,
	id, agentName string,
	instance, meta map[string]string,
	ops []operations.Operation,
	opts Options,
) error {
	logger := log.WithTransaction("resource", e.TransactionID())

	if _, err := e.EnsureWaitSatisfiable(ctx, opts.Wait); err != nil {
		return err
	}
	if err := agent.ValidateName(agentName); err != nil {
		return err
	}

	doc, err := e.GetCIB(ctx)
	if err != nil {
		return err
	}
	resources, err := doc.Resources()
	if err != nil {
		return err
	}
	if err := e.Processor().ProcessList(cib.ValidateNewID(resources, id, "resource name")); err != nil {
		return err
	}

	metadata, err := e.AgentMetadata(ctx, agentName)
	if err != nil {
		return err
	}
	prepared, err := operations.Prepare(
		e.Processor(), ops, metadata.DefaultOperations(), metadata.ActionNames(), opts.AllowInvalidOperation,
	)
	if err != nil {
		return err
	}

	if opts.Disabled {
		meta = withTargetRole(meta, "Stopped")
	}

	ids := cib.NewIDProvider()
	primitive := newPrimitive(resources, id, agentName)
	nvpair.AppendNewSet(primitive, nvpair.InstanceAttributesTag, instance, ids)
	nvpair.AppendNewSet(primitive, nvpair.MetaAttributesTag, meta, ids)
	if _, err := operations.CreateOperations(primitive, prepared, ids); err != nil {
		return err
	}

	logger.Info().
		Str("resource", id).
		Str("agent", agentName).
		Int("operations", len(prepared)).
		Msg("Resource created")

	return e.PushCIB(ctx, opts.Wait)
}

// newPrimitive appends <primitive> with class, provider and type split out
// of the agent name
func newPrimitive(resources *etree.Element, id, agentName string) *etree.Element {
	parts := strings.Split(agentName, ":")
	primitive := resources.CreateElement("primitive")
	primitive.CreateAttr("id", id)
	primitive.CreateAttr("class", parts[0])
	if len(parts) == 3 {
		primitive.CreateAttr("provider", parts[1])
	}
	primitive.CreateAttr("type", parts[len(parts)-1])
	return primitive
}

func withTargetRole(meta map[string]string, role string) map[string]string {
	out := make(map[string]string, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	out["target-role"] = role
	return out
}
