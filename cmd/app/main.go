package main

import (
	"pscafe/config"
	"pscafe/di"
	"pscafe/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
