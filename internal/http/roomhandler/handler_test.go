package roomhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coderoomgo/internal/services/room"
)

func setup() (*gin.Engine, room.IRoomService) {
	gin.SetMode(gin.TestMode)
	svc := room.NewRoomService("// start")
	engine := gin.New()
	New(svc).Register(engine)
	return engine, svc
}

func TestGetRoom(t *testing.T) {
	engine, svc := setup()
	id, _ := svc.Create("user-a", "Alice")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rooms/"+id, nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var dto room.RoomDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, id, dto.ID)
	assert.Equal(t, "// start", dto.Code)
	require.Len(t, dto.Users, 1)
}

func TestGetRoomNotFound(t *testing.T) {
	engine, _ := setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rooms/room-missing-000000", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Room not found", body.Error)
}

func TestListRooms(t *testing.T) {
	engine, svc := setup()
	for _, uid := range []string{"u1", "u2", "u3"} {
		_, err := svc.Create(uid, uid)
		require.NoError(t, err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rooms?limit=2", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var infos []room.RoomInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &infos))
	assert.Len(t, infos, 2)
	assert.Equal(t, 1, infos[0].MemberCount)
}

func TestListRoomsRejectsBadQuery(t *testing.T) {
	engine, _ := setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rooms?limit=9999", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthz(t *testing.T) {
	engine, _ := setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
