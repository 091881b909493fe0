package main

import (
	"donorlink/internal/app"
	"donorlink/internal/logger"
)

func main() {
	if err := app.Run(); err != nil {
		logger.Fatal("server exited", "error", err)
	}
}
