package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finkit/bulk_payout_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayPacer_FirstCallAdmittedImmediately(t *testing.T) {
	pacer := services.NewGatewayPacer(time.Hour)

	start := time.Now()
	err := pacer.Wait(context.Background())

	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGatewayPacer_CancelledWhileWaiting(t *testing.T) {
	pacer := services.NewGatewayPacer(time.Hour)
	require.NoError(t, pacer.Wait(context.Background()))

	// The bucket is exhausted for the next hour; a cancelled context must
	// unblock the second call instead of sleeping it out.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := pacer.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGatewayPacer_AdmitsAgainAfterInterval(t *testing.T) {
	pacer := services.NewGatewayPacer(100 * time.Millisecond)
	require.NoError(t, pacer.Wait(context.Background()))

	start := time.Now()
	require.NoError(t, pacer.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
