package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gst-billing-backend/database"
	"gst-billing-backend/events"
	"gst-billing-backend/services"

	"github.com/spf13/cobra"
)

var (
	remindersCompany  string
	remindersDispatch bool
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Print or dispatch payment reminders",
	Long: `Classify pending Advance documents into reminders (due within
REMINDER_WINDOW_DAYS) and overdue, and print the result as JSON.

With --dispatch the events are published once instead, exactly like one round
of the background dispatcher. With REDIS_ADDRESS set, documents already
notified today are skipped and the round is skipped while another instance
holds the dispatch lock.`,
	Example: `  # Buckets for one company
  billing reminders --company 6f1c...

  # All companies, publish events
  billing reminders --dispatch`,
	RunE: runReminders,
}

func init() {
	remindersCmd.Flags().StringVar(&remindersCompany, "company", "", "Only scan this company id")
	remindersCmd.Flags().BoolVar(&remindersDispatch, "dispatch", false, "Publish reminder/overdue events instead of printing")
	rootCmd.AddCommand(remindersCmd)
}

func runReminders(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	svc := services.NewReminderService(db, cfg.ReminderWindowDays)

	if remindersDispatch {
		var publisher events.Publisher = events.LogPublisher{}
		if cfg.PubSubTopic != "" {
			ps, err := events.NewPubSubPublisher(ctx, cfg.PubSubProjectID, cfg.PubSubTopic, cfg.PubSubCredentialsJSON)
			if err != nil {
				return err
			}
			defer ps.Close()
			publisher = ps
		}
		rdb, err := database.ConnectRedis(ctx, cfg.RedisAddress)
		if err != nil {
			return err
		}
		if rdb != nil {
			defer rdb.Close()
		}
		n, err := services.NewReminderDispatcher(svc, publisher, rdb, cfg.ReminderInterval).RunOnce(ctx)
		fmt.Fprintf(os.Stdout, "published %d events\n", n)
		return err
	}

	var out any
	if remindersCompany != "" {
		out, err = svc.Scan(ctx, remindersCompany, time.Now())
	} else {
		out, err = svc.ScanAll(ctx, time.Now())
	}
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
