package realtime

import (
	"sync"

	"ytbulkedit/domain/model"
)

// Queue hands events to a single consumer in order. Publish blocks while the buffer is full.
type Queue struct {
	mu     sync.RWMutex
	ch     chan model.Event
	closed bool
}

func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan model.Event, size)}
}

func (q *Queue) Publish(evt model.Event) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return
	}
	q.ch <- evt
}

func (q *Queue) Events() <-chan model.Event { return q.ch }

// Close ends the stream. Later publishes are dropped.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}

// Publisher is satisfied by Hub, Queue and usecase publishers.
type Publisher interface {
	Publish(evt model.Event)
}

// Fanout publishes every event to each target in turn.
type Fanout []Publisher

func (f Fanout) Publish(evt model.Event) {
	for _, p := range f {
		p.Publish(evt)
	}
}
