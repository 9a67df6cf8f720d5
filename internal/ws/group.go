package ws

import "sync"

// group is the delivery set for one room id: every connection that should
// receive that room's broadcasts.
type group struct {
	mu    sync.RWMutex
	conns map[*clientConn]struct{}
}

func newGroup() *group { return &group{conns: map[*clientConn]struct{}{}} }

func (g *group) add(c *clientConn) {
	g.mu.Lock()
	g.conns[c] = struct{}{}
	g.mu.Unlock()
}

func (g *group) remove(c *clientConn) {
	g.mu.Lock()
	delete(g.conns, c)
	g.mu.Unlock()
}

// broadcast sends v to every connection in the group except the sender
// (pass nil to reach everyone). I/O happens outside the lock on a snapshot
// of the membership; connections that fail to write are dropped.
func (g *group) broadcast(sender *clientConn, v any) {
	g.mu.RLock()
	conns := make([]*clientConn, 0, len(g.conns))
	for c := range g.conns {
		if c != sender {
			conns = append(conns, c)
		}
	}
	g.mu.RUnlock()

	var failed []*clientConn
	for _, c := range conns {
		if err := c.writeJSON(v); err != nil {
			failed = append(failed, c)
		}
	}
	for _, c := range failed {
		g.remove(c)
		c.close()
	}
}
