package client

import (
	"context"

	"yonexus/internal/domain"
	grpc_server "yonexus/internal/transport/grpc"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

type TrackerClient struct {
	conn *grpc.ClientConn
}

func NewTrackerClient(url string, opts ...grpc.DialOption) (*TrackerClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	cc, err := grpc.NewClient(url, opts...)
	if err != nil {
		return nil, err
	}
	return &TrackerClient{conn: cc}, nil
}

func (c *TrackerClient) GetSnapshot(ctx context.Context, accountID, characterID uuid.UUID) (*domain.Snapshot, error) {
	in, err := structpb.NewStruct(map[string]any{
		"account_id":   accountID.String(),
		"character_id": characterID.String(),
	})
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, grpc_server.GetSnapshotMethod, in, out); err != nil {
		return nil, err
	}

	var snap domain.Snapshot
	if err := grpc_server.FromStruct(out, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *TrackerClient) GetLevelTable(ctx context.Context) ([]domain.LevelEntry, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, grpc_server.GetLevelTableMethod, &structpb.Struct{}, out); err != nil {
		return nil, err
	}

	var res struct {
		Table []domain.LevelEntry `json:"experience_table"`
	}
	if err := grpc_server.FromStruct(out, &res); err != nil {
		return nil, err
	}
	return res.Table, nil
}

func (c *TrackerClient) Close() error {
	return c.conn.Close()
}
