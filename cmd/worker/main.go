package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"filesmanager/blob"
	"filesmanager/queue"
	"filesmanager/stores"
	"filesmanager/thumbnail"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	logLevel := flag.String("loglevel", "info", "The log level (debug, info, warn, error).")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if queue.InProcess() {
		logrus.Fatal("REDIS_ADDR must be set: the in-process queue cannot be shared with a server process")
	}

	store := stores.GetStore()
	blobs := blob.GetStore()
	jobQueue := queue.GetQueue()

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	worker := thumbnail.NewWorker(store, blobs)
	if err := worker.Run(ctx, jobQueue); err != nil && err != context.Canceled {
		logrus.WithError(err).Fatal("Worker stopped")
	}
	logrus.Info("Worker shut down")
}
