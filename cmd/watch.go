package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/campusnav/nextclass/internal/calendar"
	"github.com/campusnav/nextclass/internal/logging"
)

func newWatchCmd() *cobra.Command {
	var (
		calendarName string
		schedule     string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Periodically re-import a calendar and report the next event",
		Long: `Run the import on a schedule, printing the next upcoming event after
each pass. When a metrics address is configured the import counters are
served on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cal, err := a.importer.CalendarByName(ctx, calendarName)
			if err != nil {
				return err
			}

			logger := logging.WithOperation(slog.Default(), "watch")

			var srv *http.Server
			if a.cfg.MetricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", a.provider.PrometheusHandler())
				srv = &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux}
				go func() {
					logger.Info("serving metrics", "addr", a.cfg.MetricsAddr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server failed", logging.Err(err))
					}
				}()
			}

			pass := func() {
				ev, ok, err := a.importer.NextUpcoming(ctx, cal.ID, a.cfg.WindowDays, a.cfg.TimeZone, time.Now())
				if err != nil {
					logger.Error("import pass failed", logging.CalendarID(cal.ID), logging.Err(err))
					return
				}
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "No upcoming events found in the next %d days.\n", a.cfg.WindowDays)
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n\n", ev.Title, calendar.FormatEventBlock(ev))
			}

			// One pass immediately, then on the schedule.
			pass()

			c := cron.New()
			if _, err := c.AddFunc(schedule, pass); err != nil {
				return fmt.Errorf("invalid schedule %q: %w", schedule, err)
			}
			c.Start()

			<-ctx.Done()
			logger.Info("shutting down")

			cronCtx := c.Stop()
			<-cronCtx.Done()
			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&calendarName, "calendar", "primary", "calendar name (or \"primary\")")
	cmd.Flags().StringVar(&schedule, "schedule", "@every 15m", "cron schedule for re-imports")
	return cmd
}
