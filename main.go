package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"coderoomgo/internal/config"
	"coderoomgo/internal/http/http_server"
	"coderoomgo/internal/services/room"
	"coderoomgo/internal/ws"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. The in-memory room store: single authority for all room state.
	roomService := room.NewRoomService(cfg.RoomCodeTemplate)

	// 4. WebSockets hub (delivery groups per room)
	hub := ws.NewHub()

	// 5. Initialize the WS server
	wsSrv := ws.NewWsServer(hub, roomService, cfg.WsReadLimitBytes)

	// 6. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv, roomService)
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
