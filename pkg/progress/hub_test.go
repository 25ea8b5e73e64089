package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odtrack/analytics-api/internal/models"
)

func TestHubPublishReachesSubscribers(t *testing.T) {
	hub := NewHub()
	updates, cancel := hub.Subscribe("exp-1")
	defer cancel()

	hub.Publish(models.ExportProgress{ExportID: "exp-1", Progress: 0.4, CurrentStep: "rendering"})
	hub.Publish(models.ExportProgress{ExportID: "exp-2", Progress: 1.0, CurrentStep: "completed"})

	update := <-updates
	assert.Equal(t, "exp-1", update.ExportID)
	assert.InDelta(t, 0.4, update.Progress, 1e-9)

	select {
	case unexpected := <-updates:
		t.Fatalf("received update for another export: %+v", unexpected)
	default:
	}
}

func TestHubPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	hub := NewHub()
	updates, cancel := hub.Subscribe("exp-1")
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(models.ExportProgress{ExportID: "exp-1", Progress: float64(i)})
	}

	assert.Equal(t, subscriberBuffer, len(updates))
}

func TestHubCompleteClosesChannels(t *testing.T) {
	hub := NewHub()
	first, cancelFirst := hub.Subscribe("exp-1")
	second, cancelSecond := hub.Subscribe("exp-1")

	hub.Complete("exp-1")

	_, open := <-first
	assert.False(t, open)
	_, open = <-second
	assert.False(t, open)

	// Cancel after Complete must not panic or double-close.
	cancelFirst()
	cancelSecond()

	hub.Publish(models.ExportProgress{ExportID: "exp-1", Progress: 1.0})
}

func TestHubCancelRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	updates, cancel := hub.Subscribe("exp-1")
	cancel()

	_, open := <-updates
	require.False(t, open)

	hub.Publish(models.ExportProgress{ExportID: "exp-1", Progress: 0.1})
}
