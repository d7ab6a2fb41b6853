package main

import (
	"context"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"

	"rollbarreporter/src/app"
	"rollbarreporter/src/config"
	"rollbarreporter/src/rollbar"
	"rollbarreporter/src/server"
)

func main() {
	cfg := config.GetConfig()
	reporter, err := app.Setup(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to set up rollbar reporter")
	}
	rollbar.InstallPanicHandler(reporter.Client, reporter.PanicOptions(rollbar.WithPanicWait(5*time.Second))...)
	defer handlePanic()

	server.StartServer(cfg.Port, server.NewRouter(reporter.Client, reporter.Strategy, cfg.PanicLevel))
}

func handlePanic() {
	if r := recover(); r != nil {
		logger.WithError(fmt.Errorf("%+v", r)).Error("Application panic")
		if d := rollbar.HandlePanic(r); d != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, _ = d.Wait(ctx)
		}
	}
}
