package app

import (
	"sync"

	"navigator-profiler/internal/domain"
)

// Progress is the snapshot pushed to status subscribers after each answer.
type Progress struct {
	SessionID          string        `json:"sessionId"`
	Status             domain.Status `json:"status"`
	CompletedQuestions int           `json:"completedQuestions"`
	TotalQuestions     int           `json:"totalQuestions"`
	Percentage         float64       `json:"percentage"`
}

// ProgressHub fans out progress updates to in-process subscribers, keyed by
// session id. Purely in-memory; a multi-instance deployment would pair this
// with an external pub/sub projector.
type ProgressHub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Progress]struct{}
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{subs: make(map[string]map[chan Progress]struct{})}
}

// Subscribe registers a listener for one session and immediately delivers the
// initial snapshot. The cancel function must be called to release the channel.
func (h *ProgressHub) Subscribe(sessionID string, initial Progress) (<-chan Progress, func()) {
	ch := make(chan Progress, 8)

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan Progress]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	ch <- initial

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[sessionID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, sessionID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an update to every subscriber of the session. Slow
// consumers have their stale update dropped rather than blocking the sender.
func (h *ProgressHub) Publish(update Progress) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[update.SessionID] {
		select {
		case ch <- update:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}
}
