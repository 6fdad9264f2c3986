package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/hacfg/pkg/env"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Manage cluster wide configuration",
}

var clusterSyncCorosyncCmd = &cobra.Command{
	Use:   "sync-corosync [FILE] [--skip-offline]",
	Short: "Distribute corosync.conf to every known node",
	Long: `Send corosync.conf to every node in the known hosts file.

The local corosync.conf is sent unless FILE is given. Nodes that cannot be
reached fail the command; with --skip-offline they are only warned about.
With --corosync-conf the content is written to that file instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skipOffline, _ := cmd.Flags().GetBool("skip-offline")
		source := settings.LiveCorosyncConf
		if len(args) == 1 {
			source = args[0]
		}
		data, err := os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("failed to read corosync.conf: %w", err)
		}

		return runTransaction("cluster sync-corosync", needs{corosync: true, knownHosts: true},
			func(ctx context.Context, e *env.Environment) error {
				err := e.PushCorosyncConf(ctx, string(data), skipOffline)
				for _, result := range e.ReplicationResults() {
					status := "accepted"
					if !result.Accepted {
						status = "failed: " + result.Reason
					}
					fmt.Printf("%s: %s\n", result.Node, status)
				}
				return err
			})
	},
}

var clusterShowConfCmd = &cobra.Command{
	Use:   "show-conf",
	Short: "Print the cluster.conf given by --cluster-conf",
	RunE: func(cmd *cobra.Command, args []string) error {
		if settings.ClusterConfFile == "" {
			return fmt.Errorf("--cluster-conf is required")
		}
		return runTransaction("cluster show-conf", needs{}, func(ctx context.Context, e *env.Environment) error {
			conf, ok := e.ClusterConf()
			if !ok {
				return fmt.Errorf("cluster.conf was not loaded")
			}
			fmt.Print(conf)
			return nil
		})
	},
}

func init() {
	clusterCmd.AddCommand(clusterSyncCorosyncCmd)
	clusterCmd.AddCommand(clusterShowConfCmd)

	clusterSyncCorosyncCmd.Flags().Bool("skip-offline", false, "Warn about unreachable nodes instead of failing")
}
