package monitor

import "time"

// history is a fixed-capacity ring of metrics samples. When full, the oldest
// sample is evicted. Not safe for concurrent use, callers hold the service
// lock.
type history struct {
	samples []Metrics
	head    int // next write position
	size    int
}

func newHistory(capacity int) *history {
	return &history{
		samples: make([]Metrics, capacity),
	}
}

func (h *history) add(m Metrics) {
	if len(h.samples) == 0 {
		return
	}
	h.samples[h.head] = m
	h.head = (h.head + 1) % len(h.samples)
	if h.size < len(h.samples) {
		h.size++
	}
}

// since returns the samples at or after cutoff in chronological order
func (h *history) since(cutoff time.Time) []Metrics {
	out := make([]Metrics, 0, h.size)
	oldest := h.head - h.size
	for i := 0; i < h.size; i++ {
		idx := (oldest + i + len(h.samples)) % len(h.samples)
		if h.samples[idx].Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, h.samples[idx])
	}
	return out
}

func (h *history) len() int {
	return h.size
}
