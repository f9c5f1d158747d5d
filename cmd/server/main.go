package main

import (
	"github.com/substratehq/graphview/internal/server"
	"github.com/substratehq/graphview/internal/util"
	"github.com/substratehq/graphview/pkg/logger"
	"github.com/substratehq/graphview/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.New(console.Params{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
