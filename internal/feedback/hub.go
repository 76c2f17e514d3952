package feedback

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edaniels/golog"

	"github.com/vehicle-control/vcc/internal/motion"
)

// Event is one SSE payload.
type Event struct {
	ID   int64                  `json:"id"`
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// Event types emitted by the hub.
const (
	EventMotion = "motion"
	EventStatus = "status"
)

// Hub fans events out to subscribed SSE clients. Each client has a buffered
// channel; a client that cannot keep up is dropped rather than allowed to
// stall the input path.
type Hub struct {
	mu      sync.Mutex
	clients map[int64]chan Event
	nextID  int64
	eventID int64
	closed  bool

	bufferSize int
	heartbeat  time.Duration
	logger     golog.Logger
}

// NewHub creates a hub with the given per-client buffer size and heartbeat
// interval.
func NewHub(bufferSize int, heartbeat time.Duration, logger golog.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return &Hub{
		clients:    make(map[int64]chan Event),
		bufferSize: bufferSize,
		heartbeat:  heartbeat,
		logger:     logger,
	}
}

// MotionChanged implements motion.Feedback. Every applied write becomes one
// motion event, so a snapshot of the UI always reflects the last write.
func (h *Hub) MotionChanged(state motion.State) {
	h.publish(EventMotion, map[string]interface{}{
		"direction":    state.Direction,
		"speedPercent": state.SpeedPercent,
		"angleRadians": state.AngleRadians,
		"magnitude":    state.Magnitude,
		"source":       state.Source,
	})
}

// Status surfaces a passive console message (transport failures, refused
// voice actions). Level is "info", "warn", or "error".
func (h *Hub) Status(level, message string) {
	h.publish(EventStatus, map[string]interface{}{
		"level":   level,
		"message": message,
	})
}

func (h *Hub) publish(eventType string, data map[string]interface{}) {
	ev := Event{
		ID:   atomic.AddInt64(&h.eventID, 1),
		Type: eventType,
		Data: data,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for id, ch := range h.clients {
		select {
		case ch <- ev:
		default:
			// Slow client: drop it instead of blocking publishers.
			delete(h.clients, id)
			close(ch)
			h.logger.Warnw("dropping slow feedback client", "client", id)
		}
	}
}

func (h *Hub) subscribe() (int64, chan Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, nil, false
	}
	h.nextID++
	id := h.nextID
	ch := make(chan Event, h.bufferSize)
	h.clients[id] = ch
	return id, ch, true
}

func (h *Hub) unsubscribe(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(ch)
	}
}

// ClientCount returns the number of subscribed clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Stop disconnects all clients. Publishes after Stop are ignored.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.clients {
		delete(h.clients, id)
		close(ch)
	}
}

// ServeSSE streams events to one client until it disconnects or the hub
// stops. Heartbeat comments keep idle connections alive through proxies.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	id, ch, ok := h.subscribe()
	if !ok {
		http.Error(w, "hub stopped", http.StatusServiceUnavailable)
		return
	}
	defer h.unsubscribe(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case ev, open := <-ch:
			if !open {
				return
			}
			payload, err := json.Marshal(ev.Data)
			if err != nil {
				h.logger.Errorw("encode feedback event", "error", err)
				continue
			}
			fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", ev.ID, ev.Type, payload)
			flusher.Flush()
		}
	}
}
