package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joshua-takyi/tower15/internal/app"
	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/joshua-takyi/tower15/internal/services"
	"github.com/spf13/cobra"
)

func newBookingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Read the booking ledger",
	}
	cmd.AddCommand(newBookingsListCmd())
	return cmd
}

func newBookingsListCmd() *cobra.Command {
	var email string

	c := &cobra.Command{
		Use:   "list",
		Short: "List bookings newest first (reads T15_ADMIN_PASSWORD)",
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("T15_ADMIN_PASSWORD")
			if email == "" || password == "" {
				return fmt.Errorf("--email and T15_ADMIN_PASSWORD are required")
			}

			ctx := cmd.Context()
			ctn, cleanup, err := app.Bootstrap(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			session, err := ctn.AdminService.Login(ctx, email, password)
			if err != nil {
				return err
			}
			records, summary, err := ctn.BookingService.ListBookings(ctx, session.AccessToken)
			if err != nil {
				return err
			}
			return printBookings(cmd.OutOrStdout(), records, summary)
		},
	}
	c.Flags().StringVar(&email, "email", "", "admin account email")
	return c
}

func printBookings(out io.Writer, records []models.BookingRecord, summary services.BookingSummary) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tPROPERTY\tCHECK-IN\tCHECK-OUT\tGUEST\tAMOUNT\tSTATUS\tCREATED")
	for _, b := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
			b.ID, b.PropertyName, b.CheckIn, b.CheckOut, b.GuestEmail, b.Amount, b.Status,
			b.CreatedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "\n%d bookings\trevenue %.2f\n", summary.Count, summary.Revenue)
	return w.Flush()
}
