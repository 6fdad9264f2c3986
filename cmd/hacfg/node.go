package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/hacfg/pkg/env"
	"github.com/cuemby/hacfg/pkg/node"
)

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Manage cluster nodes",
}

type nodeMode func(ctx context.Context, e *env.Environment, on bool, target node.Target, wait env.Wait) error

// newNodeModeCmd builds one of standby, unstandby, maintenance and
// unmaintenance
func newNodeModeCmd(use, short string, mode nodeMode, on bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " [NODE]... [--all] [--wait[=TIMEOUT]]",
		Short: short,
		Long: short + `.

Without a node name the local node is used, which requires the live cluster.
With --all every node of the cluster is changed. All nodes are changed in a
single CIB push.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if all && len(args) > 0 {
				return fmt.Errorf("cannot specify both --all and a list of nodes")
			}

			target := node.Local()
			switch {
			case all:
				target = node.All()
			case len(args) > 0:
				target = node.List(args...)
			}

			wait := waitFromFlags(cmd)
			return runTransaction("node "+use, needs{}, func(ctx context.Context, e *env.Environment) error {
				return mode(ctx, e, on, target, wait)
			})
		},
	}
	cmd.Flags().Bool("all", false, "Change every node of the cluster")
	addWaitFlag(cmd)
	return cmd
}

func init() {
	nodeCmd.AddCommand(newNodeModeCmd("standby", "Put nodes into standby mode", node.Standby, true))
	nodeCmd.AddCommand(newNodeModeCmd("unstandby", "Remove nodes from standby mode", node.Standby, false))
	nodeCmd.AddCommand(newNodeModeCmd("maintenance", "Put nodes into maintenance mode", node.Maintenance, true))
	nodeCmd.AddCommand(newNodeModeCmd("unmaintenance", "Remove nodes from maintenance mode", node.Maintenance, false))
}
