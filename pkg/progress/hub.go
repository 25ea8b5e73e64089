package progress

import (
	"sync"

	"github.com/odtrack/analytics-api/internal/models"
)

const subscriberBuffer = 16

// Hub fans out export progress updates to any number of subscribers keyed by
// export id. Publishing never blocks: a subscriber that stops draining its
// channel loses updates rather than stalling the export pipeline.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan models.ExportProgress
	nextID int
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan models.ExportProgress)}
}

// Subscribe registers a listener for the given export id. The returned
// cancel function must be called when the consumer is done; the channel is
// closed either by cancel or when the export reaches a terminal state.
func (h *Hub) Subscribe(exportID string) (<-chan models.ExportProgress, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan models.ExportProgress, subscriberBuffer)
	if h.subs[exportID] == nil {
		h.subs[exportID] = make(map[int]chan models.ExportProgress)
	}
	id := h.nextID
	h.nextID++
	h.subs[exportID][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if listeners, ok := h.subs[exportID]; ok {
			if c, ok := listeners[id]; ok {
				delete(listeners, id)
				close(c)
			}
			if len(listeners) == 0 {
				delete(h.subs, exportID)
			}
		}
	}
	return ch, cancel
}

// Publish pushes an update to every subscriber of the update's export id.
func (h *Hub) Publish(update models.ExportProgress) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[update.ExportID] {
		select {
		case ch <- update:
		default:
		}
	}
}

// Complete closes all subscriber channels for an export id. No updates for
// that id are delivered afterwards.
func (h *Hub) Complete(exportID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[exportID] {
		close(ch)
	}
	delete(h.subs, exportID)
}
