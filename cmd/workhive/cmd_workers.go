package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/workhive/workhive/internal/server"
	"github.com/workhive/workhive/pkg/cache"
	"github.com/workhive/workhive/pkg/logger"
	"github.com/workhive/workhive/pkg/queue"
	"github.com/workhive/workhive/pkg/schedule"
)

// workhive queue:work runs outbox workers in their own process.
// With the Redis driver this drains the same queue the server pushes
// to; with the in-memory driver it only serves jobs dispatched locally.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Process outbox jobs until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		if err := cache.Connect(); err != nil {
			logger.Warn("cache: running without redis", "error", err)
		}
		if rdb := cache.Client(); rdb != nil {
			queue.SetDriver(queue.NewRedisDriver(rdb))
		}

		server.Build(db)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Println("Workers running. Ctrl-C to stop.")
		queue.StartWorkers(ctx, 4)
		<-ctx.Done()
		return nil
	},
}

// workhive schedule:run runs scheduled tasks in their own process.
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Run the task scheduler until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}

		app := server.Build(db)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		schedule.EveryMinute().Name("payments.reconcile").
			WithoutOverlapping().
			Run(app.Payments.Sweep)
		schedule.Start(ctx)

		fmt.Println("Scheduler running:")
		for _, line := range schedule.List() {
			fmt.Println("  " + line)
		}
		<-ctx.Done()
		return nil
	},
}
