package service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote parse service
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps a client connection
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Parse sends req to /asfront.v1.FrontEnd/Parse
func (c *Client) Parse(ctx context.Context, req Request, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, ParseMethod, req, opts...)
}

// Tokenize sends req to /asfront.v1.FrontEnd/Tokenize
func (c *Client) Tokenize(ctx context.Context, req Request, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, TokenizeMethod, req, opts...)
}

func (c *Client) call(ctx context.Context, method string, req Request, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := RequestStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
