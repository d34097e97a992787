package events_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/agrievents/internal/adapters/events"
	"github.com/zatekoja/agrievents/internal/domain/providers"
)

func TestRedisEventBus_SubscribeAfterClose(t *testing.T) {
	bus := events.NewRedisEventBus(nil)
	require.NoError(t, bus.Close())

	ch, err := bus.Subscribe(context.Background(), providers.EventChannelDatasetUpdates)
	require.Error(t, err)
	assert.Nil(t, ch)
	assert.Contains(t, err.Error(), "closed")
}

func TestRedisEventBus_CloseTwice(t *testing.T) {
	bus := events.NewRedisEventBus(nil)
	require.NoError(t, bus.Close())
	assert.NoError(t, bus.Close())
}
