package room

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Member is one participant inside a room. Cursor stays opaque to the
// server; whatever shape the editor surface reports is stored and relayed
// verbatim.
type Member struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Cursor json.RawMessage `json:"cursorPosition"`
}

// RoomDTO is a detached snapshot of a room (buffer + ordered member list).
type RoomDTO struct {
	ID    string   `json:"id"`
	Code  string   `json:"code"`
	Users []Member `json:"users"`
}

// RoomInfo is the summary shape served by the REST listing.
type RoomInfo struct {
	ID          string `json:"id"`
	MemberCount int    `json:"member_count"`
}

var (
	ErrRoomNotFound = errors.New("Room not found")
)

type IRoomService interface {
	Create(ownerID, ownerName string) (string, error)
	Join(roomID, userID, name string) (*RoomDTO, error)
	Leave(roomID, userID string) []Member
	Get(roomID string) (*RoomDTO, bool)
	List(limit, offset int) []RoomInfo
	SetCode(roomID, code string) bool
	SetCursor(roomID, userID string, position json.RawMessage) bool
}

// roomState is the authoritative, mutable record. Members keep join order;
// a room with zero members is deleted, never kept around.
type roomState struct {
	code  string
	users []Member
}

type roomService struct {
	mu           sync.RWMutex
	rooms        map[string]*roomState
	codeTemplate string
	order        []string // creation order, for stable listings
}

func NewRoomService(codeTemplate string) IRoomService {
	return &roomService{
		rooms:        make(map[string]*roomState),
		codeTemplate: codeTemplate,
	}
}

// Create makes a fresh room with the creator as its only member and returns
// the new id. Ids embed the owner uid plus a random suffix so they are
// unguessable and collision-free among live rooms.
func (svc *roomService) Create(ownerID, ownerName string) (string, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	var id string
	for {
		id = fmt.Sprintf("room-%s-%s", ownerID, randomSuffix())
		if _, taken := svc.rooms[id]; !taken {
			break
		}
	}

	svc.rooms[id] = &roomState{
		code:  svc.codeTemplate,
		users: []Member{{ID: ownerID, Name: ownerName}},
	}
	svc.order = append(svc.order, id)
	return id, nil
}

// Join appends the user to the room, preserving join order. Rejoining under
// the same uid (e.g. a reconnect) is idempotent and never duplicates the
// member entry. The returned snapshot seeds the new participant's view.
func (svc *roomService) Join(roomID, userID, name string) (*RoomDTO, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	st, ok := svc.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	if indexOf(st.users, userID) < 0 {
		st.users = append(st.users, Member{ID: userID, Name: name})
	}
	return snapshot(roomID, st), nil
}

// Leave removes the member and returns the remaining member list. When the
// last member leaves, the room is deleted under the same lock, so no
// concurrent Join can ever observe an empty room. Absent room or member is
// a harmless no-op.
func (svc *roomService) Leave(roomID, userID string) []Member {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	st, ok := svc.rooms[roomID]
	if !ok {
		return nil
	}

	if i := indexOf(st.users, userID); i >= 0 {
		st.users = append(st.users[:i], st.users[i+1:]...)
	}
	if len(st.users) == 0 {
		delete(svc.rooms, roomID)
		svc.dropOrder(roomID)
		return []Member{}
	}
	return copyMembers(st.users)
}

func (svc *roomService) Get(roomID string) (*RoomDTO, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	st, ok := svc.rooms[roomID]
	if !ok {
		return nil, false
	}
	return snapshot(roomID, st), true
}

func (svc *roomService) List(limit, offset int) []RoomInfo {
	if limit == 0 {
		limit = 10
	}
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	out := make([]RoomInfo, 0, limit)
	for i := offset; i < len(svc.order) && len(out) < limit; i++ {
		id := svc.order[i]
		if st, ok := svc.rooms[id]; ok {
			out = append(out, RoomInfo{ID: id, MemberCount: len(st.users)})
		}
	}
	return out
}

// SetCode overwrites the buffer unconditionally: last write wins, no merge.
func (svc *roomService) SetCode(roomID, code string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	st, ok := svc.rooms[roomID]
	if !ok {
		return false
	}
	st.code = code
	return true
}

// SetCursor updates the named member's cursor; no-op when the room or the
// member is gone (stale events race room cleanup, that is fine).
func (svc *roomService) SetCursor(roomID, userID string, position json.RawMessage) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	st, ok := svc.rooms[roomID]
	if !ok {
		return false
	}
	i := indexOf(st.users, userID)
	if i < 0 {
		return false
	}
	st.users[i].Cursor = append(json.RawMessage(nil), position...)
	return true
}

// dropOrder must be called with the lock held.
func (svc *roomService) dropOrder(roomID string) {
	for i, id := range svc.order {
		if id == roomID {
			svc.order = append(svc.order[:i], svc.order[i+1:]...)
			return
		}
	}
}

// helpers

func randomSuffix() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

func indexOf(users []Member, userID string) int {
	for i, u := range users {
		if u.ID == userID {
			return i
		}
	}
	return -1
}

func copyMembers(users []Member) []Member {
	out := make([]Member, len(users))
	copy(out, users)
	return out
}

func snapshot(roomID string, st *roomState) *RoomDTO {
	return &RoomDTO{ID: roomID, Code: st.code, Users: copyMembers(st.users)}
}
