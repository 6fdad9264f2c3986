// Package defaults sets resource and operation defaults (rsc_defaults and
// op_defaults meta attributes).
package defaults

import (
	"context"

	"github.com/cuemby/hacfg/pkg/cib"
	"github.com/cuemby/hacfg/pkg/env"
	"github.com/cuemby/hacfg/pkg/nvpair"
	"github.com/cuemby/hacfg/pkg/reports"
)

// SetOperationsDefaults sets op_defaults meta attributes
func SetOperationsDefaults(ctx context.Context, e *env.Environment, meta map[string]string) error {
	return set(ctx, e, cib.SectionOpDefaults, meta)
}

// SetResourcesDefaults sets rsc_defaults meta attributes
func SetResourcesDefaults(ctx context.Context, e *env.Environment, meta map[string]string) error {
	return set(ctx, e, cib.SectionRscDefaults, meta)
}

func set(ctx context.Context, e *env.Environment, section string, meta map[string]string) error {
	_ = e.Processor().Process(reports.NewDefaultsCanBeOverriden())
	if len(meta) == 0 {
		return nil
	}

	doc, err := e.GetCIB(ctx)
	if err != nil {
		return err
	}

	if !onlyRemoving(meta) || doc.SectionExists(section) {
		el, err := doc.EnsureSection(section)
		if err != nil {
			return err
		}
		nvpair.ArrangeFirstMetaAttributes(el, meta, section+"-options")
	}
	return e.PushCIB(ctx, env.NoWait)
}

func onlyRemoving(meta map[string]string) bool {
	for _, value := range meta {
		if value != "" {
			return false
		}
	}
	return true
}
