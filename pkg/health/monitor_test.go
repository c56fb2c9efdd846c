package health

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func ok(context.Context) error   { return nil }
func fail(context.Context) error { return errors.New("down") }

func TestMonitor_CheckAll(t *testing.T) {
	tests := []struct {
		name     string
		register func(m *Monitor)
		want     Status
	}{
		{
			name:     "no checks",
			register: func(*Monitor) {},
			want:     StatusUnknown,
		},
		{
			name: "all healthy",
			register: func(m *Monitor) {
				m.Register("database", true, ok)
				m.Register("redis", false, ok)
			},
			want: StatusHealthy,
		},
		{
			name: "optional failure degrades",
			register: func(m *Monitor) {
				m.Register("database", true, ok)
				m.Register("redis", false, fail)
			},
			want: StatusDegraded,
		},
		{
			name: "critical failure",
			register: func(m *Monitor) {
				m.Register("database", true, fail)
				m.Register("redis", false, fail)
			},
			want: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor(time.Minute, zap.NewNop())
			tt.register(m)
			report := m.CheckAll(context.Background())
			assert.Equal(t, tt.want, report.Status)
		})
	}
}

func TestMonitor_Counts(t *testing.T) {
	m := NewMonitor(time.Minute, nil)
	m.Register("db", true, fail)

	m.CheckAll(context.Background())
	m.CheckAll(context.Background())

	r, found := m.GetResult("db")
	require.True(t, found)
	assert.Equal(t, 2, r.CheckCount)
	assert.Equal(t, 2, r.FailureCount)
	assert.Equal(t, "down", r.LastError)
}

func TestMonitor_GRPCStatus(t *testing.T) {
	m := NewMonitor(time.Minute, zap.NewNop())
	healthy := true
	m.Register("database", true, func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("down")
	})
	m.CheckAll(context.Background())

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, m.HealthServer())
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	client := grpc_health_v1.NewHealthClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)

	healthy = false
	m.CheckAll(context.Background())
	resp, err = client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: "database"})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestMonitor_StartStop(t *testing.T) {
	m := NewMonitor(10*time.Millisecond, zap.NewNop())
	m.Register("db", true, ok)
	m.Start(context.Background())
	m.Start(context.Background())

	assert.Eventually(t, func() bool {
		r, found := m.GetResult("db")
		return found && r.CheckCount >= 2
	}, time.Second, 5*time.Millisecond)

	m.Stop()
	m.Stop()
}
