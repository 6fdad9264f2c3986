package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cuemby/hacfg/pkg/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the journal of CIB commits",
}

func openHistory() (*history.BoltStore, error) {
	if settings.HistoryPath == "" {
		return nil, fmt.Errorf("the commit journal is disabled, set --history")
	}
	return history.NewBoltStore(settings.HistoryPath)
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List commits, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		commits, err := store.List(limit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTIME\tTARGET\tCOMMAND\tSIZE\tDIGEST")
		for _, c := range commits {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.12s\n",
				c.ID, c.Time.Format("2006-01-02 15:04:05"), c.Target, c.Command, c.Size, c.Digest)
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print the CIB pushed by a commit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		commit, err := store.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Print(commit.CIB)
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyListCmd.Flags().Int("limit", 20, "Number of commits to show, 0 for all")
}
