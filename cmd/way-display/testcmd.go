package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dra11y/way-display/internal/rules"
	"github.com/dra11y/way-display/internal/state"
)

func newTestCmd(a *app) *cobra.Command {
	var pattern rules.MonitorPattern
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test pattern matching against current monitors",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pattern.IsEmpty() {
				return cmd.Help()
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			client, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer client.Close()
			snapshot, err := client.CurrentState()
			if err != nil {
				return err
			}
			printPatternReport(cmd.OutOrStdout(), pattern, snapshot)
			return nil
		},
	}
	addPatternFlags(cmd, &pattern)
	return cmd
}

func printPatternReport(w io.Writer, pattern rules.MonitorPattern, snapshot *state.Snapshot) {
	fmt.Fprintln(w, "=== Testing Pattern Matching ===")
	fmt.Fprintf(w, "Pattern: %s\n", pattern)

	internal, external := state.Classify(snapshot.Monitors)
	printClassReport(w, "Internal Monitors", pattern, internal)
	printClassReport(w, "External Monitors", pattern, external)

	matched := 0
	for _, m := range snapshot.Monitors {
		if pattern.Matches(m) {
			matched++
		}
	}
	fmt.Fprintf(w, "\nSummary: %d of %d monitors matched the pattern\n", matched, len(snapshot.Monitors))
}

func printClassReport(w io.Writer, label string, pattern rules.MonitorPattern, monitors []state.Monitor) {
	fmt.Fprintf(w, "\n%s:\n", label)
	if len(monitors) == 0 {
		fmt.Fprintln(w, "  None found")
		return
	}
	matched := 0
	for _, m := range monitors {
		if pattern.Matches(m) {
			matched++
			fmt.Fprintf(w, "  %d. %s (%s)\n", matched, m.DisplayName, m.Connector)
		}
	}
	switch filtered := len(monitors) - matched; {
	case matched == 0:
		fmt.Fprintf(w, "  All %d filtered out\n", len(monitors))
	case filtered > 0:
		fmt.Fprintf(w, "  %d filtered out\n", filtered)
	default:
		fmt.Fprintln(w, "  None filtered out")
	}
}
