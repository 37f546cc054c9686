package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/cinepass/internal/client/cli"
	"github.com/dmitrijs2005/cinepass/internal/client/config"
	"github.com/dmitrijs2005/cinepass/internal/logging"
)

// Version is set by the build process
var Version = "dev"

func main() {

	fmt.Fprintf(os.Stdout, "cinepass %s\n", Version)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
