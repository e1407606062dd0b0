package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var vipCmd = &cobra.Command{
	Use:   "vip",
	Short: "Manage VIP periods",
}

var vipGrantCmd = &cobra.Command{
	Use:   "grant <username|email> <days>",
	Short: "Extend the VIP period of an account",
	Long: `Adds days to the VIP period. An expired or missing period is extended
from today; an active one from its current end.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid number of days %q", args[1])
		}
		ctx := cmd.Context()
		acc, err := a.accounts.GetByLogin(ctx, args[0])
		if err != nil {
			return err
		}
		until, err := a.auth.GrantVip(ctx, acc.ID, days)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is VIP until %s.\n", acc.Username, until.Format("2006-01-02"))
		return nil
	},
}

func init() {
	vipCmd.AddCommand(vipGrantCmd)
}
