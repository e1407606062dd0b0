package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var usersLimit int

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect and remove accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts with their characters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		accounts, err := a.accounts.List(ctx, usersLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tVIP UNTIL\tCHARACTERS")
		for _, acc := range accounts {
			characters, err := a.characters.ListByAccount(ctx, acc.ID)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(characters))
			for _, ch := range characters {
				names = append(names, fmt.Sprintf("%s (%s)", ch.Name, ch.ID))
			}
			vip := "-"
			if acc.IsPremium(time.Now()) {
				vip = acc.VipUntil.Format("2006-01-02")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n", acc.ID, acc.Username, acc.Email, vip, names)
		}
		return w.Flush()
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <username|email>",
	Short: "Delete an account with all of its characters and xp logs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		acc, err := a.accounts.GetByLogin(ctx, args[0])
		if err != nil {
			return err
		}
		if !confirm(cmd, fmt.Sprintf("Delete account %s (%s) and all its data?", acc.Username, acc.Email)) {
			return nil
		}
		if err := a.accounts.Delete(ctx, acc.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted account %s.\n", acc.Username)
		return nil
	},
}

func init() {
	usersListCmd.Flags().IntVar(&usersLimit, "limit", 100, "maximum number of accounts")
	usersCmd.AddCommand(usersListCmd, usersDeleteCmd)
}
