package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"5006" validate:"min=1000,max=65535"`

	// Initial buffer contents for a freshly created room.
	RoomCodeTemplate string `env:"ROOM_CODE_TEMPLATE" envDefault:"// Start coding here..."`

	// Upper bound for a single inbound WS frame; code buffers can be large.
	WsReadLimitBytes int64 `env:"WS_READ_LIMIT_BYTES" envDefault:"1048576" validate:"min=1024"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
