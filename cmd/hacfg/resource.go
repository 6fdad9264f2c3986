package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cuemby/hacfg/pkg/defaults"
	"github.com/cuemby/hacfg/pkg/env"
	"github.com/cuemby/hacfg/pkg/resource"
)

var resourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "Manage cluster resources",
}

var resourceDefaultsCmd = &cobra.Command{
	Use:   "defaults NAME=VALUE...",
	Short: "Set resource defaults",
	Long: `Set default meta attributes of resources (rsc_defaults).

An empty value removes the default, e.g. resource-stickiness=`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := parseNameValues(args)
		if err != nil {
			return err
		}
		return runTransaction("resource defaults", needs{}, func(ctx context.Context, e *env.Environment) error {
			return defaults.SetResourcesDefaults(ctx, e, meta)
		})
	},
}

var resourceOpCmd = &cobra.Command{
	Use:   "op",
	Short: "Manage resource operations",
}

var resourceOpDefaultsCmd = &cobra.Command{
	Use:   "defaults NAME=VALUE...",
	Short: "Set operation defaults",
	Long: `Set default meta attributes of resource operations (op_defaults).

An empty value removes the default, e.g. timeout=`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := parseNameValues(args)
		if err != nil {
			return err
		}
		return runTransaction("resource op defaults", needs{}, func(ctx context.Context, e *env.Environment) error {
			return defaults.SetOperationsDefaults(ctx, e, meta)
		})
	},
}

var resourceCreateCmd = &cobra.Command{
	Use:   "create ID AGENT [NAME=VALUE]... [op NAME [NAME=VALUE]...]... [meta NAME=VALUE...]",
	Short: "Create a primitive resource",
	Long: `Create a primitive resource running a resource agent.

Operations not given on the command line are taken from the agent metadata.
Operation names the agent does not declare need --force.

Examples:
  hacfg resource create vip ocf:heartbeat:IPaddr2 ip=192.168.1.10 op monitor interval=30s
  hacfg resource create web systemd:httpd meta priority=10 --disabled`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := parseCreateArgs(args)
		if err != nil {
			return err
		}
		disabled, _ := cmd.Flags().GetBool("disabled")
		opts := resource.Options{
			AllowInvalidOperation: settings.Force,
			Disabled:              disabled,
			Wait:                  waitFromFlags(cmd),
		}
		return runTransaction("resource create", needs{}, func(ctx context.Context, e *env.Environment) error {
			return resource.Create(ctx, e, parsed.id, parsed.agent, parsed.instance, parsed.meta, parsed.ops, opts)
		})
	},
}

func init() {
	resourceCmd.AddCommand(resourceDefaultsCmd)
	resourceCmd.AddCommand(resourceOpCmd)
	resourceCmd.AddCommand(resourceCreateCmd)
	resourceOpCmd.AddCommand(resourceOpDefaultsCmd)

	resourceCreateCmd.Flags().Bool("disabled", false, "Do not start the resource")
	addWaitFlag(resourceCreateCmd)
}
