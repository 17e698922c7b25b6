package net_test

import (
	"context"
	"testing"

	"fraudscore/internal/platform/logger"
	pnet "fraudscore/internal/platform/net"
)

func TestWithRequest_VisibleToChiAndLogger(t *testing.T) {
	ctx := pnet.WithRequest(context.Background(), "req-123")
	if got := pnet.RequestID(ctx); got != "req-123" {
		t.Fatalf("RequestID = %q", got)
	}
	if got := logger.RequestID(ctx); got != "req-123" {
		t.Fatalf("logger.RequestID = %q", got)
	}
}

func TestWithRequest_EmptyIsNoop(t *testing.T) {
	base := context.Background()
	if ctx := pnet.WithRequest(base, ""); ctx != base {
		t.Fatalf("empty id should return ctx unchanged")
	}
	if got := pnet.RequestID(base); got != "" {
		t.Fatalf("RequestID on bare ctx = %q", got)
	}
}
