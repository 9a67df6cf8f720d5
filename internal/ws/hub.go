package ws

import "sync"

// Hub keeps delivery groups per room id.
type Hub struct {
	groups sync.Map // roomID -> *group
}

func NewHub() *Hub { return &Hub{} }

// Broadcast sends an envelope to the room's group, excluding sender when it
// is non-nil. Unknown room ids are a silent no-op.
func (h *Hub) Broadcast(roomID string, sender *clientConn, event string, body any) {
	if v, ok := h.groups.Load(roomID); ok {
		v.(*group).broadcast(sender, map[string]any{"event": event, "body": body})
	}
}

func (h *Hub) Join(roomID string, c *clientConn) {
	g, _ := h.groups.LoadOrStore(roomID, newGroup())
	g.(*group).add(c)
}

func (h *Hub) Leave(roomID string, c *clientConn) {
	if v, ok := h.groups.Load(roomID); ok {
		v.(*group).remove(c)
	}
}
