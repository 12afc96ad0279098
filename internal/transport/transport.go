// Package transport exposes the detector over the wire: newline-delimited
// JSON messages out, one-line commands in. Every transport is a pipeline
// sink; inbound bytes go through a per-connection framer so partial reads
// and oversized lines are handled uniformly.
package transport

import (
	"sync"
)

// sendQueueDepth bounds the per-client outbound buffer. A client that
// stops reading loses messages rather than stalling the pipeline.
const sendQueueDepth = 32

// client is one connected consumer with its own outbound queue.
type client struct {
	send chan []byte
}

// clientSet tracks connected clients and fans messages out to them.
type clientSet struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

func newClientSet() *clientSet {
	return &clientSet{clients: make(map[*client]struct{})}
}

func (cs *clientSet) add() *client {
	c := &client{send: make(chan []byte, sendQueueDepth)}
	cs.mu.Lock()
	cs.clients[c] = struct{}{}
	cs.mu.Unlock()
	return c
}

func (cs *clientSet) remove(c *client) {
	cs.mu.Lock()
	delete(cs.clients, c)
	cs.mu.Unlock()
}

// broadcast queues line on every client, dropping it for clients whose
// queue is full.
func (cs *clientSet) broadcast(line []byte) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for c := range cs.clients {
		select {
		case c.send <- line:
		default:
		}
	}
}

func (cs *clientSet) count() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.clients)
}
