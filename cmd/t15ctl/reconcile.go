package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/joshua-takyi/tower15/internal/app"
	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var taskID string

	c := &cobra.Command{
		Use:   "reconcile",
		Short: "Push pending reservations to Hosthub once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctn, cleanup, err := app.Bootstrap(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if taskID != "" {
				task, err := ctn.Reconciler.Retry(ctx, taskID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s remote=%s\n", task.ID.Hex(), task.Status, task.RemoteReservationID)
				return nil
			}

			rep, err := ctn.Reconciler.RunOnce(ctx)
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(rep)
		},
	}
	c.Flags().StringVar(&taskID, "task", "", "retry a single sync task by id")
	return c
}

func newSyncTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync-tasks",
		Short: "Inspect the Hosthub reconciliation queue",
	}
	cmd.AddCommand(newSyncTasksListCmd())
	return cmd
}

func newSyncTasksListCmd() *cobra.Command {
	var (
		status string
		limit  int
	)

	c := &cobra.Command{
		Use:   "list",
		Short: "List sync tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if st := models.SyncTaskStatus(status); st != "" && !st.Valid() {
				return fmt.Errorf("invalid --status %q", status)
			}

			ctx := cmd.Context()
			ctn, cleanup, err := app.Bootstrap(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tasks, err := ctn.Reconciler.List(ctx, models.SyncTaskStatus(status), limit)
			if err != nil {
				return err
			}
			return printSyncTasks(cmd.OutOrStdout(), tasks)
		},
	}
	c.Flags().StringVar(&status, "status", "pending", "pending, in_flight, resolved or abandoned; empty for all")
	c.Flags().IntVar(&limit, "limit", 50, "maximum rows")
	return c
}

func printSyncTasks(out io.Writer, tasks []*models.SyncTask) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBOOKING\tLISTING\tSTATUS\tATTEMPTS\tCREATED\tLAST ERROR")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			t.ID.Hex(), t.BookingID, t.Push.ListingID, t.Status, t.Attempts,
			t.CreatedAt.Format(time.RFC3339), t.LastError)
	}
	return w.Flush()
}
