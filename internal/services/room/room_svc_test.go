package room

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const template = "// Start coding here..."

func newSvc() IRoomService { return NewRoomService(template) }

func TestCreateSeedsOwnerAndTemplate(t *testing.T) {
	svc := newSvc()

	id, err := svc.Create("user-a", "Alice")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "room-user-a-"), "id embeds the owner uid: %s", id)

	dto, ok := svc.Get(id)
	require.True(t, ok)
	assert.Equal(t, template, dto.Code)
	require.Len(t, dto.Users, 1)
	assert.Equal(t, "user-a", dto.Users[0].ID)
	assert.Equal(t, "Alice", dto.Users[0].Name)
	assert.Nil(t, dto.Users[0].Cursor)
}

func TestCreateGeneratesDistinctIDs(t *testing.T) {
	svc := newSvc()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := svc.Create("user-a", "Alice")
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestJoinPreservesOrderAndIsIdempotent(t *testing.T) {
	svc := newSvc()
	id, _ := svc.Create("user-a", "Alice")

	dto, err := svc.Join(id, "user-b", "Bob")
	require.NoError(t, err)
	require.Len(t, dto.Users, 2)
	assert.Equal(t, "user-a", dto.Users[0].ID)
	assert.Equal(t, "user-b", dto.Users[1].ID)

	// Rejoin under the same uid (reconnect) must not duplicate the member.
	dto, err = svc.Join(id, "user-b", "Bob")
	require.NoError(t, err)
	assert.Len(t, dto.Users, 2)
}

func TestJoinUnknownRoom(t *testing.T) {
	svc := newSvc()
	_, err := svc.Join("room-nobody-123456", "user-b", "Bob")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinReturnsDetachedSnapshot(t *testing.T) {
	svc := newSvc()
	id, _ := svc.Create("user-a", "Alice")

	dto, err := svc.Join(id, "user-b", "Bob")
	require.NoError(t, err)
	dto.Users[0].Name = "mutated"
	dto.Code = "mutated"

	fresh, ok := svc.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Alice", fresh.Users[0].Name)
	assert.Equal(t, template, fresh.Code)
}

func TestLeaveRemovesMember(t *testing.T) {
	svc := newSvc()
	id, _ := svc.Create("user-a", "Alice")
	_, _ = svc.Join(id, "user-b", "Bob")

	remaining := svc.Leave(id, "user-a")
	require.Len(t, remaining, 1)
	assert.Equal(t, "user-b", remaining[0].ID)

	dto, ok := svc.Get(id)
	require.True(t, ok)
	assert.Len(t, dto.Users, 1)
}

func TestLastLeaveDestroysRoom(t *testing.T) {
	svc := newSvc()
	id, _ := svc.Create("user-a", "Alice")

	remaining := svc.Leave(id, "user-a")
	assert.Empty(t, remaining)

	_, ok := svc.Get(id)
	assert.False(t, ok, "empty room must not survive")

	_, err := svc.Join(id, "user-b", "Bob")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestLeaveUnknownRoomOrMemberIsNoop(t *testing.T) {
	svc := newSvc()
	assert.Nil(t, svc.Leave("room-missing-000000", "user-a"))

	id, _ := svc.Create("user-a", "Alice")
	remaining := svc.Leave(id, "user-z")
	assert.Len(t, remaining, 1, "unknown member leaves room untouched")
}

func TestSetCodeLastWriteWins(t *testing.T) {
	svc := newSvc()
	id, _ := svc.Create("user-a", "Alice")

	assert.True(t, svc.SetCode(id, "first"))
	assert.True(t, svc.SetCode(id, "second"))

	dto, _ := svc.Get(id)
	assert.Equal(t, "second", dto.Code)

	assert.False(t, svc.SetCode("room-missing-000000", "x"))
}

func TestSetCursorTouchesOnlyNamedMember(t *testing.T) {
	svc := newSvc()
	id, _ := svc.Create("user-a", "Alice")
	_, _ = svc.Join(id, "user-b", "Bob")

	pos := json.RawMessage(`{"line":3,"col":14}`)
	assert.True(t, svc.SetCursor(id, "user-b", pos))

	dto, _ := svc.Get(id)
	assert.Nil(t, dto.Users[0].Cursor, "other members unaffected")
	assert.JSONEq(t, string(pos), string(dto.Users[1].Cursor))

	assert.False(t, svc.SetCursor(id, "user-z", pos))
	assert.False(t, svc.SetCursor("room-missing-000000", "user-a", pos))
}

func TestListPaginates(t *testing.T) {
	svc := newSvc()
	var ids []string
	for _, uid := range []string{"u1", "u2", "u3"} {
		id, _ := svc.Create(uid, uid)
		ids = append(ids, id)
	}

	all := svc.List(0, 0)
	require.Len(t, all, 3)
	assert.Equal(t, ids[0], all[0].ID, "creation order is stable")

	page := svc.List(2, 1)
	require.Len(t, page, 2)
	assert.Equal(t, ids[1], page[0].ID)

	svc.Leave(ids[1], "u2")
	assert.Len(t, svc.List(0, 0), 2)
}
