package service

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/apache/royale-compiler-sub012/internal/parser"
	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/token"
	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
)

// Full method names of the parse service
const (
	ServiceName    = "asfront.v1.FrontEnd"
	ParseMethod    = "/asfront.v1.FrontEnd/Parse"
	TokenizeMethod = "/asfront.v1.FrontEnd/Tokenize"
)

// FrontEndServer is the server API of the parse service. Messages are
// google.protobuf.Struct values.
type FrontEndServer interface {
	Parse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Tokenize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the parse service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FrontEndServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Parse", Handler: parseHandler},
		{MethodName: "Tokenize", Handler: tokenizeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "asfront/v1/frontend.proto",
}

// Register adds the parse service to a gRPC server
func Register(s *grpc.Server, srv FrontEndServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func parseHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FrontEndServer).Parse(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ParseMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FrontEndServer).Parse(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func tokenizeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FrontEndServer).Tokenize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TokenizeMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FrontEndServer).Tokenize(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Server adapts a Service to FrontEndServer
type Server struct {
	service *Service
}

// NewServer creates the gRPC adapter for svc
func NewServer(svc *Service) *Server {
	return &Server{service: svc}
}

// Parse handles /asfront.v1.FrontEnd/Parse
func (s *Server) Parse(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	res, err := s.service.Parse(ctx, requestFromStruct(in))
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := structpb.NewStruct(encodeResult(res))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// Tokenize handles /asfront.v1.FrontEnd/Tokenize
func (s *Server) Tokenize(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	res, err := s.service.Tokenize(ctx, requestFromStruct(in))
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := structpb.NewStruct(map[string]interface{}{
		"path":     res.Path,
		"tokens":   encodeTokens(res.Tokens),
		"problems": encodeProblems(res.Problems),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

func requestFromStruct(in *structpb.Struct) Request {
	fields := in.GetFields()
	req := Request{
		Path:                fields["path"].GetStringValue(),
		Source:              fields["source"].GetStringValue(),
		BufferMode:          fields["buffer_mode"].GetStringValue(),
		DeferFunctionBodies: fields["defer_function_bodies"].GetBoolValue(),
	}
	if files := fields["files"].GetStructValue(); files != nil {
		req.Files = make(map[string]string, len(files.GetFields()))
		for path, v := range files.GetFields() {
			req.Files[path] = v.GetStringValue()
		}
	}
	return req
}

// RequestStruct builds the wire form of a request
func RequestStruct(req Request) (*structpb.Struct, error) {
	m := map[string]interface{}{
		"path":   req.Path,
		"source": req.Source,
	}
	if req.BufferMode != "" {
		m["buffer_mode"] = req.BufferMode
	}
	if req.DeferFunctionBodies {
		m["defer_function_bodies"] = true
	}
	if len(req.Files) > 0 {
		files := make(map[string]interface{}, len(req.Files))
		for path, text := range req.Files {
			files[path] = text
		}
		m["files"] = files
	}
	return structpb.NewStruct(m)
}

func encodeResult(res *parser.Result) map[string]interface{} {
	cues := make([]interface{}, 0, len(res.Cues))
	for _, c := range res.Cues {
		cues = append(cues, map[string]interface{}{
			"filename":   c.Filename,
			"absolute":   c.Absolute,
			"adjustment": c.Adjustment,
		})
	}
	return map[string]interface{}{
		"session_id":  res.SessionID,
		"path":        res.Path,
		"tree":        Tree(res.Root),
		"problems":    encodeProblems(res.Problems),
		"cues":        cues,
		"has_errors":  res.HasErrors(),
		"aborted":     res.Aborted,
		"duration_ms": float64(res.Duration.Microseconds()) / 1000,
	}
}

func encodeProblems(problems []*problem.Problem) []interface{} {
	out := make([]interface{}, 0, len(problems))
	for _, p := range problems {
		out = append(out, map[string]interface{}{
			"kind":     string(p.Kind),
			"severity": p.Severity.String(),
			"message":  p.Message,
			"path":     p.Path,
			"line":     p.Line,
			"column":   p.Column,
			"start":    p.Start,
			"end":      p.End,
		})
	}
	return out
}

func encodeTokens(tokens []*token.Token) []interface{} {
	out := make([]interface{}, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, map[string]interface{}{
			"kind":   t.Kind.String(),
			"text":   t.Text,
			"start":  t.Start,
			"end":    t.End,
			"line":   t.Line,
			"column": t.Column,
		})
	}
	return out
}

func toStatus(err error) error {
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	switch aserror.GetCode(err) {
	case aserror.CodeInvalidInput:
		return status.Error(codes.InvalidArgument, err.Error())
	case aserror.CodeNotFound:
		return status.Error(codes.NotFound, err.Error())
	case aserror.CodeServiceUnavailable:
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
