package grpc_server

import (
	"context"
	"encoding/json"
	"errors"

	"yonexus/internal/domain"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type Tracker interface {
	GetSnapshot(ctx context.Context, accountID, id uuid.UUID) (*domain.Snapshot, error)
	LevelTable() []domain.LevelEntry
}

type TrackerServer struct {
	tracker Tracker
}

func NewTrackerServer(tracker Tracker) *TrackerServer {
	return &TrackerServer{tracker: tracker}
}

func (s *TrackerServer) GetSnapshot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := uuid.Parse(req.GetFields()["account_id"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid account id")
	}
	characterID, err := uuid.Parse(req.GetFields()["character_id"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid character id")
	}

	snap, err := s.tracker.GetSnapshot(ctx, accountID, characterID)
	if err != nil {
		return nil, toStatus(err)
	}
	return ToStruct(snap)
}

func (s *TrackerServer) GetLevelTable(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return ToStruct(map[string]any{"experience_table": s.tracker.LevelTable()})
}

// ToStruct converts v through its JSON form, so the payload matches the
// HTTP API.
func ToStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode: %v", err)
	}
	return out, nil
}

// FromStruct is the inverse of ToStruct.
func FromStruct(s *structpb.Struct, v any) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound), errors.Is(err, domain.ErrCharacterNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrOracleUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, domain.ErrLevelNotFound):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Errorf(codes.Internal, "tracker: %v", err)
	}
}
