// Package server boots the marketplace: config, log sinks, database,
// cache, storage, queue workers, the notification fan-out, the scheduler
// and the HTTP surface.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chhotalabhavik/cleanout/app/jobs"
	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/app/routes"
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/config"
	"github.com/chhotalabhavik/cleanout/database/seeders"
	"github.com/chhotalabhavik/cleanout/pkg/cache"
	"github.com/chhotalabhavik/cleanout/pkg/database"
	"github.com/chhotalabhavik/cleanout/pkg/event"
	"github.com/chhotalabhavik/cleanout/pkg/logger"
	"github.com/chhotalabhavik/cleanout/pkg/metrics"
	"github.com/chhotalabhavik/cleanout/pkg/middleware"
	"github.com/chhotalabhavik/cleanout/pkg/migration"
	"github.com/chhotalabhavik/cleanout/pkg/notification"
	"github.com/chhotalabhavik/cleanout/pkg/queue"
	"github.com/chhotalabhavik/cleanout/pkg/reqid"
	"github.com/chhotalabhavik/cleanout/pkg/router"
	"github.com/chhotalabhavik/cleanout/pkg/schedule"
	"github.com/chhotalabhavik/cleanout/pkg/storage"
	"github.com/chhotalabhavik/cleanout/pkg/ws"

	_ "github.com/chhotalabhavik/cleanout/database/migrations"
)

// notificationHub carries live pushes to connected clients.
var notificationHub = ws.NewHub()

// Boot brings every subsystem up short of listening. Shared by the HTTP
// server and the CLI's queue/schedule runners.
func Boot() error {
	if err := config.Load(); err != nil {
		return err
	}

	attachMongoSink()

	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		slog.Warn("redis unavailable, cache and queue fall back to memory", "error", err)
	}
	storage.Connect()

	runner := migration.New(database.DB)
	if err := runner.Run(); err != nil && !errors.Is(err, migration.ErrNoMigrations) {
		return err
	}
	if err := seeders.RunAll(database.DB); err != nil {
		return err
	}

	queue.UseDB(database.DB)
	jobs.Register()
	if config.AppEnv() == "production" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}

	wireNotifications()
	registerListeners()
	return nil
}

// Start boots everything and serves HTTP until a shutdown signal.
func Start() error {
	if err := Boot(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go notificationHub.Run()
	queue.StartWorkers(ctx, 4)

	reminder := services.NewReminderService()
	schedule.Cron("0 7 * * *").
		Name("serviceOrderReminder").
		WithoutOverlapping().
		Run(func() {
			if err := reminder.Run(); err != nil {
				slog.Error("reminder sweep failed", "error", err)
			}
		})
	go schedule.Start(ctx)

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	routes.RegisterAPI(r, notificationHub)
	r.HandleFunc("/metrics", metrics.Handler())
	r.Handle("/storage/*", http.StripPrefix("/storage/",
		http.FileServer(http.Dir(config.StorageLocalRoot()))))

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Clean Out listening", "port", config.AppPort(), "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// attachMongoSink mirrors log lines into mongo when a sink is configured.
func attachMongoSink() {
	uri := config.LogMongoURI()
	if uri == "" {
		return
	}

	mongoHandler, err := logger.NewMongoHandler(uri, config.LogMongoDB(), "logs")
	if err != nil {
		slog.Warn("mongo log sink unavailable", "error", err)
		return
	}

	logger.L = slog.New(logger.NewMultiHandler(logger.L.Handler(), mongoHandler))
	slog.SetDefault(logger.L)
}

// wireNotifications binds the database and push channels: rows land in
// the user's inbox, pushes go out over the websocket hub.
func wireNotifications() {
	notificationsRepo := repositories.NewNotificationRepository()

	notification.SetDatabaseStore(func(d notification.DatabaseData) error {
		return notificationsRepo.Create(&models.Notification{
			UserID:      d.UserID,
			Title:       d.Title,
			Description: d.Description,
		})
	})

	notification.SetPusher(func(d notification.PushData) error {
		payload, err := json.Marshal(d.Payload)
		if err != nil {
			return err
		}
		notificationHub.SendToUser(d.UserID, payload)
		return nil
	})
}

// registerListeners hooks the order lifecycle events for audit logging.
func registerListeners() {
	for _, name := range []string{
		"item_order.placed",
		"item_order.status",
		"service_order.booked",
		"service_order.delivered",
	} {
		name := name
		event.Listen(name, func(payload interface{}) {
			slog.Info("event", "name", name, "id", payload)
		})
	}
}
