package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/cinepass/internal/devserver"
	"github.com/dmitrijs2005/cinepass/internal/devserver/config"
	"github.com/dmitrijs2005/cinepass/internal/logging"
)

// Version is set by the build process
var Version = "dev"

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel)).With("version", Version)

	app, err := devserver.NewApp(cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

}
