package jobs

import "sync"

// Frame is one sequenced outbound payload for a session connection.
type Frame struct {
	Seq     int64
	Payload any
}

// Outbox serializes outbound frames for one client connection. Pushes from
// any number of job goroutines are sequenced under a single lock, so events
// for one job keep their emission order. Delivery is best-effort: frames
// pushed after Close, or while the buffer is full, are discarded.
type Outbox struct {
	mu     sync.Mutex
	seq    int64
	frames chan Frame
	closed bool
}

// NewOutbox creates an outbox with the given buffer size.
func NewOutbox(buffer int) *Outbox {
	if buffer <= 0 {
		buffer = 256
	}
	return &Outbox{frames: make(chan Frame, buffer)}
}

// Push enqueues one payload and reports whether it was accepted.
func (o *Outbox) Push(payload any) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return false
	}
	o.seq++
	select {
	case o.frames <- Frame{Seq: o.seq, Payload: payload}:
		return true
	default:
		return false
	}
}

// Frames exposes the FIFO delivery channel for the connection writer.
func (o *Outbox) Frames() <-chan Frame {
	return o.frames
}

// Close stops accepting frames and releases the writer.
func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	close(o.frames)
}
