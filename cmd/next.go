package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/campusnav/nextclass/internal/calendar"
	"github.com/campusnav/nextclass/internal/ics"
)

func newNextCmd() *cobra.Command {
	var (
		calendarName string
		days         int
		timeZone     string
		icsPath      string
	)

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next upcoming event from a calendar",
		Long: `Import the forward-looking event window from one calendar and print
the next upcoming event with its campus, building and room. Use --ics to
additionally write the whole normalized window to an iCalendar file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			if days <= 0 {
				days = a.cfg.WindowDays
			}
			if timeZone == "" {
				timeZone = a.cfg.TimeZone
			}

			cal, err := a.importer.CalendarByName(cmd.Context(), calendarName)
			if err != nil {
				return err
			}

			events, _, err := a.importer.ImportEvents(cmd.Context(), cal.ID, days, timeZone)
			if err != nil {
				return fmt.Errorf("failed to import events: %w", err)
			}

			if icsPath != "" {
				f, err := os.Create(icsPath)
				if err != nil {
					return fmt.Errorf("failed to create ics file: %w", err)
				}
				defer f.Close()
				if err := ics.Write(f, events); err != nil {
					return fmt.Errorf("failed to write ics file: %w", err)
				}
			}

			next, ok := calendar.NextEvent(events, time.Now())
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No upcoming events found in the next %d days.\n", days)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", next.Title, calendar.FormatEventBlock(next))
			return nil
		},
	}

	cmd.Flags().StringVar(&calendarName, "calendar", "primary", "calendar name (or \"primary\")")
	cmd.Flags().IntVar(&days, "days", 0, "forward-looking window in days (default from config)")
	cmd.Flags().StringVar(&timeZone, "timezone", "", "IANA time zone (default from config)")
	cmd.Flags().StringVar(&icsPath, "ics", "", "write the imported window to this iCalendar file")
	return cmd
}
