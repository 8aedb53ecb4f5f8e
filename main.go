package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stocklane/stocklane/config"
	"github.com/stocklane/stocklane/internal/adminapi"
	"github.com/stocklane/stocklane/internal/app"
	"github.com/stocklane/stocklane/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	h        = flag.Bool("h", false, "help usage")
	conffile = flag.String("c", "stocklane.yml", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables, WARNING: all data will be lost")
)

func printHelp() {
	if *h {
		fmt.Fprintln(os.Stderr, "stocklane inventory service\nOptions:")
		flag.PrintDefaults()
		os.Exit(0)
	}
}

func main() {
	flag.Parse()
	printHelp()

	appConfig := config.LoadConfig(*conffile)

	application := app.NewApplication(appConfig)
	if err := application.Init(appConfig); err != nil {
		fmt.Fprintf(os.Stderr, "application init failed: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	webserver.Init(appConfig, application.DB())
	adminapi.Register(appConfig, application.OrderService(), application.Bus())

	application.StartBackgroundJobs(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webserver.Listen(ctx)
	})

	if err := g.Wait(); err != nil {
		zap.S().Error(err)
	}
}
