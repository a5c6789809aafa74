package grpc

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/postgate/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type recordingLogger struct {
	nopLogger
	mu      sync.Mutex
	entries [][]any
}

func (r *recordingLogger) Info(_ context.Context, msg string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, append([]any{msg}, args...))
}

func (r *recordingLogger) With(...any) logging.Logger { return r }

func field(entry []any, key string) any {
	for i := 1; i+1 < len(entry); i += 2 {
		if entry[i] == key {
			return entry[i+1]
		}
	}
	return nil
}

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "ok", wantCode: codes.OK.String()},
		{name: "failure", err: status.Error(codes.Unavailable, "down"), wantCode: codes.Unavailable.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			s := NewGRPCServer("127.0.0.1:0", log, fakePinger{})

			info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
			h := func(ctx context.Context, req interface{}) (interface{}, error) {
				return "resp", tt.err
			}

			resp, err := s.loggingInterceptor(context.Background(), nil, info, h)
			if err != tt.err {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if resp != "resp" {
				t.Fatalf("resp = %v", resp)
			}

			if len(log.entries) != 1 {
				t.Fatalf("expected one log entry, got %d", len(log.entries))
			}
			if got := field(log.entries[0], "method"); got != info.FullMethod {
				t.Fatalf("method = %v", got)
			}
			if got := field(log.entries[0], "code"); got != tt.wantCode {
				t.Fatalf("code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}
