package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "t15ctl",
		Short: "Operator tooling for the Tower 15 booking backend",
	}

	root.AddCommand(newReconcileCmd())
	root.AddCommand(newSyncTasksCmd())
	root.AddCommand(newBookingsCmd())

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
