package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"yonexus/internal/domain"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var xpCmd = &cobra.Command{
	Use:   "xp",
	Short: "Backfill xp logs",
}

var xpImportCmd = &cobra.Command{
	Use:   "import <character-id> <file|->",
	Short: "Import daily xp from a file of \"YYYY-MM-DD xp\" lines",
	Long: `Imports one entry per line in the form "YYYY-MM-DD xp". Blank lines and
lines starting with # are skipped. Imported days replace any xp already
logged for the same day.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid character id: %w", err)
		}

		in := cmd.InOrStdin()
		if args[1] != "-" {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		entries, err := parseImport(in)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		ch, err := a.characters.GetByID(ctx, id)
		if err != nil {
			return err
		}
		n, err := a.tracker.ImportXp(ctx, ch.AccountID, ch.ID, entries)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d days for %s.\n", n, ch.Name)
		return nil
	},
}

func parseImport(r io.Reader) ([]domain.XpLog, error) {
	var entries []domain.XpLog
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"YYYY-MM-DD xp\", got %q", line, text)
		}
		day, err := domain.ParseDay(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad date %q", line, fields[0])
		}
		xp, err := strconv.ParseInt(strings.ReplaceAll(fields[1], ",", ""), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad xp %q", line, fields[1])
		}
		entries = append(entries, domain.XpLog{Day: day, Xp: xp})
	}
	return entries, scanner.Err()
}

func init() {
	xpCmd.AddCommand(xpImportCmd)
}
