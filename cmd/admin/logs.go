package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var logsLimit int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Inspect xp logs",
}

var logsListCmd = &cobra.Command{
	Use:   "list <character-id>",
	Short: "Show the most recent xp log entries of a character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid character id: %w", err)
		}
		ctx := cmd.Context()
		ch, err := a.characters.GetByID(ctx, id)
		if err != nil {
			return err
		}
		entries, err := a.xpLogs.ListRecent(ctx, ch.ID, logsLimit)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s, start %d xp\n", ch.Name, ch.XpStart)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "DATE\tXP\t")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\t\n", e.Day, e.Xp)
		}
		return w.Flush()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the xp history of a character",
}

var historyResetCmd = &cobra.Command{
	Use:   "reset <character-id>",
	Short: "Delete every xp log entry of a character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid character id: %w", err)
		}
		ctx := cmd.Context()
		ch, err := a.characters.GetByID(ctx, id)
		if err != nil {
			return err
		}
		count, err := a.xpLogs.Count(ctx, ch.ID)
		if err != nil {
			return err
		}
		if !confirm(cmd, fmt.Sprintf("Delete %d xp log entries of %s?", count, ch.Name)) {
			return nil
		}
		if err := a.tracker.ResetHistory(ctx, ch.AccountID, ch.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared history of %s.\n", ch.Name)
		return nil
	},
}

func init() {
	logsListCmd.Flags().IntVar(&logsLimit, "limit", 30, "number of days to show")
	logsCmd.AddCommand(logsListCmd)
	historyCmd.AddCommand(historyResetCmd)
}
