package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cuemby/hacfg/pkg/config"
	"github.com/cuemby/hacfg/pkg/log"
	"github.com/cuemby/hacfg/pkg/reports"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	v        *viper.Viper
	settings *config.Settings
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError prints every report of a library error, or the plain error
func printError(err error) {
	var libErr *reports.LibraryError
	if errors.As(err, &libErr) {
		for _, item := range libErr.Items {
			fmt.Fprintln(os.Stderr, item.String())
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

var rootCmd = &cobra.Command{
	Use:   "hacfg",
	Short: "hacfg - Pacemaker cluster configuration tool",
	Long: `hacfg edits the configuration of a Pacemaker cluster.

Changes are validated, applied to the CIB in memory and committed in a single
push, either to the running cluster or, with -f, to a CIB file. corosync.conf
can be distributed to every node the local pcsd is authenticated against.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")

		var err error
		settings, err = config.Load(v, cmd.Flags(), configFile)
		if err != nil {
			return err
		}

		level := log.Level(settings.LogLevel)
		if settings.Debug {
			level = log.DebugLevel
		}
		log.Init(log.Config{Level: level, JSONOutput: settings.LogJSON})
		return nil
	},
}

func init() {
	config.LoadEnvFiles()
	v = config.New()

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"hacfg version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	flags := rootCmd.PersistentFlags()
	flags.StringP(config.KeyFile, "f", "", "Work on a CIB file instead of the live cluster")
	flags.String(config.KeyCorosyncConf, "", "Work on a corosync.conf file instead of the cluster nodes")
	flags.String(config.KeyClusterConf, "", "Read cluster.conf from a file")
	flags.String(config.KeyKnownHosts, "/var/lib/pcsd/known-hosts", "Known hosts file of pcsd")
	flags.String("config", "", "Config file (YAML)")
	flags.Bool(config.KeyDebug, false, "Print debug output")
	flags.Bool(config.KeyForce, false, "Override forceable errors")
	flags.Duration(config.KeyRequestTimeout, config.Defaults[config.KeyRequestTimeout].(time.Duration), "Timeout of one request to a node")
	flags.Duration(config.KeyCommandTimeout, 0, "Timeout of one pacemaker tool run including waits, 0 disables it")
	flags.Bool(config.KeyLogJSON, false, "Log in JSON format")
	flags.String(config.KeyHistory, "", "Commit journal database, empty disables it")
	flags.String(config.KeyMetricsTextfile, "", "Write metrics to this file for the node_exporter textfile collector")

	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(resourceCmd)
	rootCmd.AddCommand(clusterCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hacfg version %s\nCommit: %s\nBuilt: %s\n", Version, Commit, BuildTime)
	},
}
