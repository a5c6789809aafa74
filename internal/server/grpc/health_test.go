package grpc

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

func TestHealthService_Check(t *testing.T) {
	tests := []struct {
		name     string
		db       Pinger
		service  string
		want     healthpb.HealthCheckResponse_ServingStatus
		wantCode codes.Code
	}{
		{name: "overall serving", db: fakePinger{}, want: healthpb.HealthCheckResponse_SERVING},
		{name: "named serving", db: fakePinger{}, service: ServiceName, want: healthpb.HealthCheckResponse_SERVING},
		{name: "ping fails", db: fakePinger{err: errors.New("down")}, want: healthpb.HealthCheckResponse_NOT_SERVING},
		{name: "no db", want: healthpb.HealthCheckResponse_NOT_SERVING},
		{name: "unknown service", db: fakePinger{}, service: "other", wantCode: codes.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthService(tt.db)
			resp, err := h.Check(context.Background(), &healthpb.HealthCheckRequest{Service: tt.service})

			if tt.wantCode != codes.OK {
				if status.Code(err) != tt.wantCode {
					t.Fatalf("code = %v, want %v", status.Code(err), tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.GetStatus() != tt.want {
				t.Fatalf("status = %v, want %v", resp.GetStatus(), tt.want)
			}
		})
	}
}
