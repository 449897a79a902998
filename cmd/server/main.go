package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filesmanager/auth"
	"filesmanager/blob"
	"filesmanager/cache"
	"filesmanager/core"
	"filesmanager/files"
	appHandlers "filesmanager/handlers/api/app"
	fileHandlers "filesmanager/handlers/api/files"
	userHandlers "filesmanager/handlers/api/users"
	authHandlers "filesmanager/handlers/auth"
	authMiddleware "filesmanager/middleware"
	"filesmanager/queue"
	"filesmanager/stores"
	"filesmanager/thumbnail"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func setupRouter(store stores.Store, sessions core.SessionStore, authSvc *auth.Service, fileSvc *files.Service) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "X-Token", "Origin", "Host", "Connection", "Accept-Encoding", "Accept-Language", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/status", appHandlers.HandleStatus(store, sessions))
	r.Get("/stats", appHandlers.HandleStats(store))

	r.Post("/users", userHandlers.HandlePostNew(authSvc))

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.BasicAuth(authSvc))
		r.Get("/connect", authHandlers.HandleConnect(authSvc))
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.TokenAuth(authSvc))
		r.Get("/disconnect", authHandlers.HandleDisconnect(authSvc))
		r.Get("/users/me", userHandlers.HandleGetMe())

		r.Post("/files", fileHandlers.HandleUpload(fileSvc))
		r.Get("/files", fileHandlers.HandleIndex(fileSvc))
		r.Get("/files/{id}", fileHandlers.HandleShow(fileSvc))
		r.Put("/files/{id}/publish", fileHandlers.HandleSetVisibility(fileSvc, true))
		r.Put("/files/{id}/unpublish", fileHandlers.HandleSetVisibility(fileSvc, false))
	})

	// Content reads are reachable without a token; visibility decides.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.OptionalTokenAuth(authSvc))
		r.Get("/files/{id}/data", fileHandlers.HandleData(fileSvc))
	})

	return r
}

func waitForShutdown(server *http.Server) {
	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-signalC

	logrus.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	listenAddress := flag.String("listen", ":5000", "The address to listen on.")
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

	store := stores.GetStore()
	sessions := cache.GetCache()
	blobs := blob.GetStore()
	jobQueue := queue.GetQueue()

	authSvc := auth.NewService(store, sessions)
	fileSvc := files.NewService(store, blobs, jobQueue)

	// A channel queue cannot cross processes, so run the worker here
	// when no broker is configured.
	if queue.InProcess() {
		logrus.Info("No job broker configured, running thumbnail worker in-process")
		worker := thumbnail.NewWorker(store, blobs)
		go func() {
			if err := worker.Run(context.Background(), jobQueue); err != nil && err != context.Canceled {
				logrus.WithError(err).Error("Thumbnail worker stopped")
			}
		}()
	}

	r := setupRouter(store, sessions, authSvc, fileSvc)

	server := &http.Server{Addr: *listenAddress, Handler: r}
	logrus.WithField("addr", *listenAddress).Info("starting server")
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	waitForShutdown(server)
}
