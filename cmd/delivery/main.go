package main

import (
	stdLog "log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/archive-delivery/delivery/app"
	"github.com/Astemirdum/archive-delivery/delivery/config"
)

// @title        Archive delivery API
// @version      1.0
// @description  Reservations and reproductions of archive holdings.
// @BasePath     /
func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Fatal("load envs from .env ", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
