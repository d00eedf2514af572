package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/signkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/signkeeper/internal/client/cli"
	"github.com/dmitrijs2005/signkeeper/internal/client/config"
	"github.com/dmitrijs2005/signkeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := cli.NewApp(cfg, logging.New("warn", os.Stderr))
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
