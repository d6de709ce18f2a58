// Package grpc implements the gRPC transport for the demo.
//
// The Demo service has a single unary method, Generate, whose messages are
// carried as JSON (content-subtype "json") so no generated stubs are needed.
// The standard grpc.health.v1.Health service is registered alongside it and
// follows the daemon's readiness.
package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/nadzzz/orpheusdemo/internal/dispatch"
	"github.com/nadzzz/orpheusdemo/internal/message"
	"github.com/nadzzz/orpheusdemo/internal/transport"
)

const (
	// ServiceName is the fully-qualified gRPC service name.
	ServiceName = "orpheusdemo.v1.Demo"

	// GenerateMethod is the full method path of Demo.Generate.
	GenerateMethod = "/" + ServiceName + "/Generate"

	// CodecName is the content-subtype clients must use.
	CodecName = "json"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec marshals gRPC messages as JSON.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

// DemoServer is the server API for the Demo service.
type DemoServer interface {
	Generate(ctx context.Context, req *message.SynthesisRequest) (*message.GenerateResponse, error)
}

var demoServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DemoServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Generate", Handler: generateHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func generateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := transport.APIRequest()
	if err := dec(&in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DemoServer).Generate(ctx, &in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GenerateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DemoServer).Generate(ctx, req.(*message.SynthesisRequest))
	}
	return interceptor(ctx, &in, info, handler)
}

// demoServer adapts a transport.Service to DemoServer.
type demoServer struct {
	svc transport.Service
}

func (s *demoServer) Generate(ctx context.Context, req *message.SynthesisRequest) (*message.GenerateResponse, error) {
	resp, err := transport.Generate(ctx, s.svc, *req)
	if err != nil {
		if errors.Is(err, dispatch.ErrUnknownTrigger) {
			return nil, status.Error(codes.Unimplemented, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

// Generate calls Demo.Generate on cc.
func Generate(ctx context.Context, cc grpc.ClientConnInterface, req message.SynthesisRequest) (*message.GenerateResponse, error) {
	out := new(message.GenerateResponse)
	if err := cc.Invoke(ctx, GenerateMethod, &req, out, grpc.CallContentSubtype(CodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port   int
	server *grpc.Server
	health *grpchealth.Server
}

// New creates a new gRPC transport on the given port.
func New(port int) *Transport {
	t := &Transport{
		port:   port,
		server: grpc.NewServer(),
		health: grpchealth.NewServer(),
	}
	healthpb.RegisterHealthServer(t.server, t.health)
	t.SetReady(false)
	return t
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// SetReady updates the overall and per-service health status.
func (t *Transport) SetReady(ready bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		st = healthpb.HealthCheckResponse_SERVING
	}
	t.health.SetServingStatus("", st)
	t.health.SetServingStatus(ServiceName, st)
}

// Listen starts the gRPC server and routes incoming requests to svc.
func (t *Transport) Listen(ctx context.Context, svc transport.Service) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	slog.Info("grpc transport listening", "port", t.port)
	return t.Serve(ctx, lis, svc)
}

// Serve registers the Demo service and serves on lis until ctx is cancelled.
func (t *Transport) Serve(ctx context.Context, lis net.Listener, svc transport.Service) error {
	t.server.RegisterService(&demoServiceDesc, &demoServer{svc: svc})

	go func() {
		<-ctx.Done()
		slog.Info("grpc transport shutting down")
		t.health.Shutdown()
		t.server.GracefulStop()
	}()

	if err := t.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// Close gracefully stops the gRPC server.
func (t *Transport) Close() error {
	t.health.Shutdown()
	t.server.GracefulStop()
	return nil
}
