package main

import (
	"os"

	"dojo-events/core/logger"
	"dojo-events/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}
