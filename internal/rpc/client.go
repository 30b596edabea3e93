package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls wordharbor.v1.Progression over an established connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) call(ctx context.Context, method string, in any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// StartSession runs the daily reset; an empty date means the server's today.
func (c *Client) StartSession(ctx context.Context, date string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "StartSession", wrapperspb.String(date), opts...)
}

func (c *Client) GetState(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "GetState", &emptypb.Empty{}, opts...)
}

func (c *Client) Draw(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "Draw", &emptypb.Empty{}, opts...)
}

func (c *Client) AnswerQuiz(ctx context.Context, cardID string, option int, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]any{"cardId": cardID, "option": option})
	if err != nil {
		return nil, err
	}
	return c.call(ctx, "AnswerQuiz", in, opts...)
}

// SetSecretary points the secretary at cardID; "" clears it.
func (c *Client) SetSecretary(ctx context.Context, cardID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "SetSecretary", wrapperspb.String(cardID), opts...)
}

func (c *Client) ClearNewCards(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "ClearNewCards", &emptypb.Empty{}, opts...)
}

func (c *Client) StartReview(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "StartReview", &emptypb.Empty{}, opts...)
}

func (c *Client) AnswerReview(ctx context.Context, option int32, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "AnswerReview", wrapperspb.Int32(option), opts...)
}

func (c *Client) FinishReview(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "FinishReview", &emptypb.Empty{}, opts...)
}

func (c *Client) Collection(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "Collection", &emptypb.Empty{}, opts...)
}
