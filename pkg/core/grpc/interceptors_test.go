package grpc

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

var parseInfo = &grpc.UnaryServerInfo{FullMethod: "/asfront.v1.FrontEnd/Parse"}

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(aslog.Discard())

	_, err := interceptor(context.Background(), nil, parseInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("boom")
	})
	if status.Code(err) != codes.Internal {
		t.Fatalf("code = %v, want Internal", status.Code(err))
	}

	resp, err := interceptor(context.Background(), nil, parseInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	if err != nil || resp != "ok" {
		t.Errorf("resp, err = %v, %v", resp, err)
	}
}

func TestRequestIDInterceptor(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{"caller supplies id", "req-42"},
		{"id generated", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.incoming != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs(RequestIDHeader, tt.incoming))
			}

			var seen string
			_, err := RequestIDInterceptor()(ctx, nil, parseInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
				seen = GetRequestID(ctx)
				return nil, nil
			})
			if err != nil {
				t.Fatal(err)
			}
			if tt.incoming != "" {
				if seen != tt.incoming {
					t.Errorf("request id = %q, want %q", seen, tt.incoming)
				}
				return
			}
			if _, err := uuid.Parse(seen); err != nil {
				t.Errorf("generated id %q is not a uuid: %v", seen, err)
			}
		})
	}
}

func TestGetRequestID(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("empty context id = %q", got)
	}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "from-header"))
	if got := GetRequestID(ctx); got != "from-header" {
		t.Errorf("header id = %q", got)
	}
	if got := GetRequestID(WithRequestID(ctx, "from-context")); got != "from-context" {
		t.Errorf("context value should win, got %q", got)
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := aslog.NewWithConfig(aslog.Config{Level: aslog.LevelInfo, Format: aslog.FormatJSON, Output: &buf})

	_, err := LoggingInterceptor(logger)(WithRequestID(context.Background(), "req-7"), nil, parseInfo,
		func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, status.Error(codes.InvalidArgument, "path is required")
		})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %v", status.Code(err))
	}

	out := buf.String()
	for _, want := range []string{"/asfront.v1.FrontEnd/Parse", "InvalidArgument", "req-7"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %s", want, out)
		}
	}
}

func TestClientRequestIDInterceptor(t *testing.T) {
	var sent []string
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		sent = md.Get(RequestIDHeader)
		return nil
	}

	ctx := WithRequestID(context.Background(), "req-9")
	if err := ClientRequestIDInterceptor()(ctx, "/asfront.v1.FrontEnd/Parse", nil, nil, nil, invoker); err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 || sent[0] != "req-9" {
		t.Errorf("sent ids = %v, want [req-9]", sent)
	}
}
