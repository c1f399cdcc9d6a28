package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
)

// ClientConfig holds gRPC client configuration
type ClientConfig struct {
	Target         string
	MaxRecvMsgSize int
	MaxSendMsgSize int
}

// DefaultClientConfig returns a default client configuration
func DefaultClientConfig(target string) ClientConfig {
	return ClientConfig{
		Target:         target,
		MaxRecvMsgSize: 16 * 1024 * 1024, // 16MB
		MaxSendMsgSize: 16 * 1024 * 1024, // 16MB
	}
}

// Dial creates a client connection. The connection is established lazily
// on the first call.
func Dial(cfg ClientConfig, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(cfg.MaxRecvMsgSize),
			grpc.MaxCallSendMsgSize(cfg.MaxSendMsgSize),
		),
		grpc.WithChainUnaryInterceptor(ClientRequestIDInterceptor()),
	}
	dialOpts = append(dialOpts, opts...)

	conn, err := grpc.NewClient(cfg.Target, dialOpts...)
	if err != nil {
		return nil, aserror.Wrap(err, "failed to dial").
			WithCode(aserror.CodeServiceUnavailable).
			WithDetail("target", cfg.Target)
	}
	return conn, nil
}
