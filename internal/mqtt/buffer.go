package mqtt

import "log"

// bufferedMsg stores a serialized MQTT message for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is a fixed-capacity FIFO that stores messages while
// disconnected, dropping the oldest on overflow.
// Not safe for concurrent use — caller must synchronize.
type ringBuffer struct {
	msgs     []bufferedMsg
	start    int // index of the oldest message
	count    int
	overflow bool // true if any message was dropped since last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{msgs: make([]bufferedMsg, capacity)}
}

func (r *ringBuffer) push(msg bufferedMsg) {
	capacity := len(r.msgs)
	if r.count == capacity {
		if !r.overflow {
			log.Printf("mqtt: buffer full (%d messages), dropping oldest", capacity)
			r.overflow = true
		}
		r.msgs[r.start] = msg
		r.start = (r.start + 1) % capacity
		return
	}
	r.msgs[(r.start+r.count)%capacity] = msg
	r.count++
}

func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.count == 0 {
		return nil
	}

	out := make([]bufferedMsg, r.count)
	for i := range out {
		out[i] = r.msgs[(r.start+i)%len(r.msgs)]
	}

	r.start = 0
	r.count = 0
	r.overflow = false
	return out
}

func (r *ringBuffer) len() int {
	return r.count
}
