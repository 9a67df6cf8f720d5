package roomhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coderoomgo/internal/services/room"
)

// Handler serves the read-only observability endpoints. Room state is only
// ever mutated through the websocket protocol.
type Handler struct {
	svc room.IRoomService
}

func New(svc room.IRoomService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/rooms", h.list)
	r.GET("/rooms/:id", h.info)
	r.GET("/healthz", h.health)
}

func (h *Handler) list(c *gin.Context) {
	var q ListRoomsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.svc.List(q.Limit, q.Offset))
}

func (h *Handler) info(c *gin.Context) {
	dto, ok := h.svc.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Room not found"})
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
