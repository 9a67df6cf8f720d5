package ws

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"coderoomgo/internal/identity"
	"coderoomgo/internal/services/room"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 12 * time.Second
	pingPeriod = 3 * time.Second // must be < pongWait
)

// Protocol event names.
const (
	evtCreateRoom    = "create-room"
	evtJoinRoom      = "join-room"
	evtLeaveRoom     = "leave-room"
	evtCodeChange    = "code-change"
	evtCursor        = "cursor-position"
	evtTyping        = "user-typing"
	evtStoppedTyping = "user-stopped-typing"

	evtRoomData   = "room-data"
	evtUserList   = "user-list"
	evtCodeUpdate = "code-update"
)

// callbackEvents answer the caller with "<event>-ack"; everything else is
// fire-and-forget.
var callbackEvents = map[string]bool{
	evtCreateRoom: true,
	evtJoinRoom:   true,
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // dev-only
}

// ConnContext is the per-connection session: the identity resolved at
// handshake time plus the room this connection has joined. It is owned by
// the connection's reader goroutine.
type ConnContext struct {
	Identity      identity.Identity
	CurrentRoomID string

	conn   *clientConn
	groups map[string]struct{} // delivery groups to tear down on disconnect
}

type WsServer struct {
	hub       *Hub
	router    *Router
	roomSvc   room.IRoomService
	readLimit int64
}

func NewWsServer(h *Hub, roomSvc room.IRoomService, readLimit int64) *WsServer {
	srv := &WsServer{
		hub:       h,
		router:    NewRouter(),
		roomSvc:   roomSvc,
		readLimit: readLimit,
	}
	srv.registerHandlers() // ← all WS events configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

// Handle upgrades the connection and resolves its identity. A handshake
// without a uid is still accepted: the connection stays open, but every
// room operation it attempts answers with an authentication error.
func (s *WsServer) Handle(ginCtx *gin.Context) {
	ident := identity.Resolve(ginCtx.Request.URL.Query())

	rawConn, err := upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(s.readLimit)

	wsConn := &clientConn{rawConn: rawConn}
	zap.L().Info("ws.connected", zap.String("user", ident.UserID))

	go s.reader(ident, wsConn)
	go s.pinger(wsConn)
}

// ---------------------------------------------------------------------------
//  Event handlers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	// 🔹 create-room ----------------------------------------------------------
	Register(
		s.router,
		evtCreateRoom,
		func(cc *ConnContext, _ struct{}) (CreateRoomAck, error) {
			if !cc.Identity.Authenticated() {
				return CreateRoomAck{}, ErrUnauthenticated
			}
			roomID, err := s.roomSvc.Create(cc.Identity.UserID, cc.Identity.DisplayName)
			if err != nil {
				return CreateRoomAck{}, err
			}
			s.joinGroup(cc, roomID)

			zap.L().Info("ws.room_created",
				zap.String("room", roomID), zap.String("user", cc.Identity.DisplayName))
			return CreateRoomAck{RoomID: roomID}, nil
		},
	)

	// 🔹 join-room ------------------------------------------------------------
	Register(
		s.router,
		evtJoinRoom,
		func(cc *ConnContext, req JoinRoomBody) (JoinRoomAck, error) {
			if !cc.Identity.Authenticated() {
				return JoinRoomAck{}, ErrUnauthenticated
			}
			dto, err := s.roomSvc.Join(req.RoomID, cc.Identity.UserID, cc.Identity.DisplayName)
			if err != nil {
				return JoinRoomAck{}, err
			}

			s.joinGroup(cc, req.RoomID)
			cc.CurrentRoomID = req.RoomID

			// Seed the new participant, then tell everyone else.
			_ = cc.conn.writeJSON(map[string]any{
				"event": evtRoomData,
				"body":  RoomData{Code: dto.Code, Users: dto.Users},
			})
			s.hub.Broadcast(req.RoomID, cc.conn, evtUserList, dto.Users)

			zap.L().Info("ws.room_joined",
				zap.String("room", req.RoomID), zap.String("user", cc.Identity.DisplayName))
			return JoinRoomAck{Success: true}, nil
		},
	)

	// 🔹 leave-room -----------------------------------------------------------
	Register(
		s.router,
		evtLeaveRoom,
		func(cc *ConnContext, req JoinRoomBody) (struct{}, error) {
			s.leaveRoom(cc, req.RoomID)
			return struct{}{}, nil
		},
	)

	// 🔹 code-change ----------------------------------------------------------
	Register(
		s.router,
		evtCodeChange,
		func(cc *ConnContext, req CodeChangeBody) (struct{}, error) {
			if !s.roomSvc.SetCode(req.RoomID, req.Code) {
				return struct{}{}, nil // room already gone, harmless race
			}
			s.hub.Broadcast(req.RoomID, cc.conn, evtCodeUpdate, req.Code)
			return struct{}{}, nil
		},
	)

	// 🔹 cursor-position ------------------------------------------------------
	Register(
		s.router,
		evtCursor,
		func(cc *ConnContext, req CursorBody) (struct{}, error) {
			if _, ok := s.roomSvc.Get(req.RoomID); !ok {
				return struct{}{}, nil
			}
			s.roomSvc.SetCursor(req.RoomID, req.UserID, req.Position)
			s.hub.Broadcast(req.RoomID, cc.conn, evtCursor, CursorUpdate{
				UserID:   req.UserID,
				Position: req.Position,
				Name:     req.Name,
			})
			return struct{}{}, nil
		},
	)

	// 🔹 typing signals: pure relays, nothing is stored -----------------------
	Register(
		s.router,
		evtTyping,
		func(cc *ConnContext, req TypingBody) (struct{}, error) {
			s.hub.Broadcast(req.RoomID, cc.conn, evtTyping, TypingUpdate{
				UserID: req.UserID,
				Name:   req.Name,
			})
			return struct{}{}, nil
		},
	)
	Register(
		s.router,
		evtStoppedTyping,
		func(cc *ConnContext, req TypingBody) (struct{}, error) {
			s.hub.Broadcast(req.RoomID, cc.conn, evtStoppedTyping, req.UserID)
			return struct{}{}, nil
		},
	)
}

// ---------------------------------------------------------------------------
//  Session lifecycle
// ---------------------------------------------------------------------------

func (s *WsServer) joinGroup(cc *ConnContext, roomID string) {
	s.hub.Join(roomID, cc.conn)
	cc.groups[roomID] = struct{}{}
}

// leaveRoom removes the membership, drops the connection from the delivery
// group and tells the remaining members. Shared by the explicit leave-room
// event and disconnect cleanup.
func (s *WsServer) leaveRoom(cc *ConnContext, roomID string) {
	members := s.roomSvc.Leave(roomID, cc.Identity.UserID)
	s.hub.Leave(roomID, cc.conn)
	delete(cc.groups, roomID)
	if cc.CurrentRoomID == roomID {
		cc.CurrentRoomID = ""
	}

	if members == nil {
		members = []room.Member{}
	}
	s.hub.Broadcast(roomID, cc.conn, evtUserList, members)

	zap.L().Info("ws.room_left",
		zap.String("room", roomID), zap.String("user", cc.Identity.DisplayName))
}

func (s *WsServer) reader(ident identity.Identity, conn *clientConn) {
	cc := &ConnContext{Identity: ident, conn: conn, groups: map[string]struct{}{}}

	defer func() {
		if cc.CurrentRoomID != "" {
			s.leaveRoom(cc, cc.CurrentRoomID)
		}
		for roomID := range cc.groups {
			s.hub.Leave(roomID, conn)
		}
		conn.close()
		zap.L().Info("ws.disconnected", zap.String("user", ident.UserID))
	}()

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env Envelope
		if err := conn.rawConn.ReadJSON(&env); err != nil {
			return // client closed or errored
		}

		res, err := s.router.dispatch(cc, env)

		// ---- error --------------------------------------------------------
		if err != nil {
			if errors.Is(err, errInternal) {
				err = errors.New(failMessage(env.Event))
			}
			if callbackEvents[env.Event] {
				// The caller's callback gets {"error": ...}.
				_ = conn.writeJSON(map[string]any{
					"event": env.Event + "-ack",
					"body":  ErrorBody{Error: err.Error()},
				})
			} else {
				_ = conn.writeJSON(map[string]any{
					"event": "error",
					"body":  ErrorBody{Error: err.Error()},
				})
			}
			continue
		}

		// ---- success -> {"event":"<evt>-ack","body":{...}} ----------------
		if callbackEvents[env.Event] {
			_ = conn.writeJSON(map[string]any{
				"event": env.Event + "-ack",
				"body":  res,
			})
		}
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.ping(); err != nil {
			conn.close()
			return
		}
	}
}

// failMessage hides internal faults behind a caller-safe string.
func failMessage(event string) string {
	switch event {
	case evtCreateRoom:
		return "Failed to create room"
	case evtJoinRoom:
		return "Failed to join room"
	default:
		return "Internal error"
	}
}
