// Package main is the entry point for the task manager API server.
//
// @title                       Task Manager API
// @version                     1.0
// @description                 Tasks, subtasks and task statistics.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"taskmanager/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatal("[app] ", err)
	}
}
