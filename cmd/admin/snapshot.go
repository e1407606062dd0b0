package main

import (
	"encoding/json"
	"fmt"

	"yonexus/internal/client"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var grpcAddr string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <character-id>",
	Short: "Fetch the progress snapshot of a character from a running API",
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

		c, err := client.NewTrackerClient(grpcAddr)
		if err != nil {
			return err
		}
		defer c.Close()

		snap, err := c.GetSnapshot(ctx, ch.AccountID, ch.ID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&grpcAddr, "grpc-addr", "127.0.0.1:50051", "address of the tracker gRPC service")
}
