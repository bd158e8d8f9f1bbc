package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"
	"github.com/sre-norns/catalog/pkg/catalog"
	"github.com/sre-norns/catalog/pkg/redqueue"
)

// WatchCmd consumes change events from the queue the API server publishes into.
// Several watchers on the same redis share the events between them.
type WatchCmd struct {
	RedisAddress string `help:"Redis address of the event queue" default:"localhost:6379" env:"CATALOG_REDIS_ADDRESS"`
	Concurrency  int    `help:"Number of events handled in parallel" default:"1"`
}

func (c *WatchCmd) Run(cfg *commandContext) error {
	ctx, cancel := cfg.withTimeout()
	err := redqueue.Ping(ctx, c.RedisAddress)
	cancel()
	if err != nil {
		return err
	}

	workerServer := asynq.NewServer(
		asynq.RedisClientOpt{Addr: c.RedisAddress},
		asynq.Config{Concurrency: c.Concurrency},
	)

	mux := asynq.NewServeMux()
	mux.Handle(redqueue.TaskType, redqueue.HandlerFunc(func(_ context.Context, event catalog.ChangeEvent) error {
		return cfg.OutputFormatter(event)
	}))

	log.Printf("watching %q events on %s", redqueue.TaskType, c.RedisAddress)
	if err := workerServer.Start(mux); err != nil {
		return err
	}

	<-cfg.Context.Done()
	workerServer.Shutdown()

	return nil
}
