package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// gatewayPacer spaces calls to the external gateway using a token bucket
// of one token per interval. It is the sole concurrency-control mechanism
// protecting the gateway: record processing stays fully sequential, the
// pacer only enforces the spacing.
type gatewayPacer struct {
	limiter *limiter.Limiter
	key     string
}

// NewGatewayPacer builds a pacer admitting one call per interval. The
// batch executor constructs one per run, so unrelated tasks are not
// serialized against each other.
func NewGatewayPacer(interval time.Duration) *gatewayPacer {
	rate := limiter.Rate{
		Period: interval,
		Limit:  1,
	}
	return &gatewayPacer{
		limiter: limiter.New(memory.NewStore(), rate),
		key:     "gateway",
	}
}

// Wait blocks until the next gateway call is permitted or the context is
// cancelled.
func (p *gatewayPacer) Wait(ctx context.Context) error {
	for {
		lctx, err := p.limiter.Get(ctx, p.key)
		if err != nil {
			return fmt.Errorf("gateway pacer: %w", err)
		}
		if !lctx.Reached {
			return nil
		}

		wait := time.Until(time.Unix(lctx.Reset, 0))
		if wait <= 0 {
			wait = 100 * time.Millisecond
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
