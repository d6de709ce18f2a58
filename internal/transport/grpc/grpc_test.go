package grpc

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/nadzzz/orpheusdemo/internal/dispatch"
	"github.com/nadzzz/orpheusdemo/internal/message"
	"github.com/nadzzz/orpheusdemo/internal/tts/placeholder"
	"github.com/nadzzz/orpheusdemo/internal/ui"
)

type zeroSource struct{}

func (zeroSource) IntN(int) int { return 0 }

func startServer(t *testing.T) (*Transport, *grpc.ClientConn) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	tr := New(0)
	d := dispatch.New(ui.Build(ui.Options{}), placeholder.New(zeroSource{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Serve(ctx, lis, d) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("grpc server did not stop")
		}
	})
	return tr, conn
}

func TestGenerate(t *testing.T) {
	_, conn := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := Generate(ctx, conn, message.SynthesisRequest{
		Text: "你好", Voice: message.Voices[0], Emotion: message.Emotions[0],
		Speed: 1.0, Temperature: 0.6, TopP: 0.9,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.EventID)
	assert.Contains(t, resp.Description, message.ModelName)

	var metrics map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Metrics), &metrics))
	assert.Equal(t, "ok", metrics["status"])
	assert.Equal(t, 1.5, metrics["estimated_audio_duration_s"])
}

func TestGenerateEmptyText(t *testing.T) {
	_, conn := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := Generate(ctx, conn, message.SynthesisRequest{Text: " \n "})
	require.NoError(t, err)
	assert.Equal(t, placeholder.EmptyInputPrompt, resp.Description)
	assert.Contains(t, resp.Metrics, `"status": "empty-input"`)
}

func TestGenerateOmittedFieldsUseDefaults(t *testing.T) {
	_, conn := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Send only the text; the server fills in the rest from the page defaults.
	out := new(message.GenerateResponse)
	err := conn.Invoke(ctx, GenerateMethod, map[string]string{"text": "hello"}, out, grpc.CallContentSubtype(CodecName))
	require.NoError(t, err)

	var metrics map[string]any
	require.NoError(t, json.Unmarshal([]byte(out.Metrics), &metrics))
	assert.Equal(t, message.Voices[0], metrics["voice"])
	assert.Equal(t, 1.0, metrics["speed_ratio"])
	assert.Equal(t, map[string]any{"temperature": 0.6, "top_p": 0.9}, metrics["sampling"])
}

func TestUnknownMethod(t *testing.T) {
	_, conn := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := conn.Invoke(ctx, "/"+ServiceName+"/Explode", map[string]string{}, new(message.GenerateResponse), grpc.CallContentSubtype(CodecName))
	require.Error(t, err)
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestHealthFollowsReadiness(t *testing.T) {
	tr, conn := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := healthpb.NewHealthClient(conn)

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	tr.SetReady(true)

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestName(t *testing.T) {
	assert.Equal(t, "grpc", New(0).Name())
}
