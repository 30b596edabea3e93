// Package rpc exposes the progression store over gRPC. Requests and responses are
// protobuf well-known types, so no generated code is needed on either side.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "wordharbor.v1.Progression"

// ProgressionServer is implemented by Service.
type ProgressionServer interface {
	StartSession(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetState(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Draw(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	AnswerQuiz(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetSecretary(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ClearNewCards(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	StartReview(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	AnswerReview(context.Context, *wrapperspb.Int32Value) (*structpb.Struct, error)
	FinishReview(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Collection(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func fullMethod(name string) string { return "/" + ServiceName + "/" + name }

// unary adapts a typed server method to grpc.MethodDesc.
func unary[Req proto.Message](name string, newReq func() Req, call func(ProgressionServer, context.Context, Req) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ProgressionServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ProgressionServer), ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func newEmpty() *emptypb.Empty           { return new(emptypb.Empty) }
func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }
func newInt32() *wrapperspb.Int32Value   { return new(wrapperspb.Int32Value) }
func newStruct() *structpb.Struct        { return new(structpb.Struct) }

// ServiceDesc describes wordharbor.v1.Progression for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProgressionServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("StartSession", newString, ProgressionServer.StartSession),
		unary("GetState", newEmpty, ProgressionServer.GetState),
		unary("Draw", newEmpty, ProgressionServer.Draw),
		unary("AnswerQuiz", newStruct, ProgressionServer.AnswerQuiz),
		unary("SetSecretary", newString, ProgressionServer.SetSecretary),
		unary("ClearNewCards", newEmpty, ProgressionServer.ClearNewCards),
		unary("StartReview", newEmpty, ProgressionServer.StartReview),
		unary("AnswerReview", newInt32, ProgressionServer.AnswerReview),
		unary("FinishReview", newEmpty, ProgressionServer.FinishReview),
		unary("Collection", newEmpty, ProgressionServer.Collection),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wordharbor/v1/progression.proto",
}

// Register attaches srv to s.
func Register(s grpc.ServiceRegistrar, srv ProgressionServer) {
	s.RegisterService(&ServiceDesc, srv)
}
