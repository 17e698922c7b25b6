package repokit

import (
	"context"
	"fmt"
	"time"
)

// DefaultPingTimeout bounds Ping when ctx carries no deadline
const DefaultPingTimeout = 2 * time.Second

type guarder interface {
	Guard(context.Context) error
}

// Ping checks p under a deadline; a nil p reports an error rather than panicking
func Ping(ctx context.Context, name string, p Pinger) error {
	if p == nil {
		return fmt.Errorf("%s: not configured", name)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultPingTimeout)
		defer cancel()
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// MustGuard runs st.Guard and panics on any error, for process startup
func MustGuard(ctx context.Context, st guarder) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
