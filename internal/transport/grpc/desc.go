package grpc_server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "yonexus.tracker.v1.TrackerService"

	GetSnapshotMethod   = "/" + ServiceName + "/GetSnapshot"
	GetLevelTableMethod = "/" + ServiceName + "/GetLevelTable"
)

// TrackerServiceServer exchanges google.protobuf.Struct payloads so the
// service needs no generated code.
type TrackerServiceServer interface {
	GetSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLevelTable(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterTrackerServiceServer(s grpc.ServiceRegistrar, srv TrackerServiceServer) {
	s.RegisterService(&trackerServiceDesc, srv)
}

var trackerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TrackerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSnapshot", Handler: unaryHandler(GetSnapshotMethod, TrackerServiceServer.GetSnapshot)},
		{MethodName: "GetLevelTable", Handler: unaryHandler(GetLevelTableMethod, TrackerServiceServer.GetLevelTable)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "yonexus/tracker/v1/tracker.proto",
}

type structMethod func(TrackerServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TrackerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TrackerServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
