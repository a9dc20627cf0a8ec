package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/borgmon/meeting-countdown/pkg/label"
	"github.com/borgmon/meeting-countdown/pkg/models"
)

func newParseCommand(mc *MeetingCountdown) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Print the meetings found for today without counting down",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !mc.config.HasInputs() {
				return fmt.Errorf("no meetings to read: set labels_file or ical_sources")
			}
			events, report, err := mc.collectEvents(cmd.Context(), mc.logger, time.Now())
			if err != nil {
				return err
			}
			if err := printEvents(cmd.OutOrStdout(), events); err != nil {
				return err
			}
			if report != nil {
				return printReport(cmd.OutOrStdout(), report)
			}
			return nil
		},
	}
	addInputFlags(cmd)
	return cmd
}

func printEvents(w io.Writer, events []models.Event) error {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b models.Event) int {
		return a.Start.Compare(b.Start)
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tEND\tMIN\tTITLE\tSOURCE")
	for _, e := range sorted {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			e.Start.Format("3:04 PM"), e.End.Format("3:04 PM"), e.DurationMinutes, e.Title, e.Source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d meetings\n", len(sorted))
	return err
}

func printReport(w io.Writer, r *label.Report) error {
	if _, err := fmt.Fprintf(w, "labels: %d read, %d parsed, %d duplicates\n", r.Total, r.Parsed, r.Duplicates); err != nil {
		return err
	}
	for _, reason := range slices.Sorted(maps.Keys(r.Skipped)) {
		if _, err := fmt.Fprintf(w, "  skipped %s: %d\n", reason, r.Skipped[reason]); err != nil {
			return err
		}
	}
	for _, kind := range slices.Sorted(maps.Keys(r.Failed)) {
		if _, err := fmt.Fprintf(w, "  failed %s: %d\n", kind, r.Failed[kind]); err != nil {
			return err
		}
	}
	return nil
}
