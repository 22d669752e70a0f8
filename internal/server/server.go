// Package server boots the application: config, database, cache,
// storage, outbox workers, scheduler and the HTTP stack.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/workhive/workhive/app/controllers"
	appgraphql "github.com/workhive/workhive/app/graphql"
	"github.com/workhive/workhive/app/jobs"
	"github.com/workhive/workhive/app/repositories"
	"github.com/workhive/workhive/app/routes"
	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/config"
	_ "github.com/workhive/workhive/database/migrations" // registers schema migrations
	"github.com/workhive/workhive/pkg/cache"
	"github.com/workhive/workhive/pkg/database"
	"github.com/workhive/workhive/pkg/event"
	"github.com/workhive/workhive/pkg/logger"
	"github.com/workhive/workhive/pkg/metrics"
	"github.com/workhive/workhive/pkg/middleware"
	"github.com/workhive/workhive/pkg/migration"
	"github.com/workhive/workhive/pkg/queue"
	"github.com/workhive/workhive/pkg/reqid"
	"github.com/workhive/workhive/pkg/router"
	"github.com/workhive/workhive/pkg/schedule"
	"github.com/workhive/workhive/pkg/storage"
	"github.com/workhive/workhive/pkg/ws"
	"gorm.io/gorm"
)

// App holds the wired application. Tests build one against an in-memory
// database; Start builds one from config and serves it.
type App struct {
	DB       *gorm.DB
	Router   *router.Router
	Hub      *ws.Hub
	Payments *services.PaymentService
}

// Build wires repositories, services, controllers and routes on top of
// an open database handle.
func Build(db *gorm.DB) *App {
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	notifRepo := repositories.NewNotificationRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	postRepo := repositories.NewPostRepository(db)

	hub := ws.NewHub()

	authSvc := services.NewAuthService(userRepo)
	projectSvc := services.NewProjectService(projectRepo)
	orderSvc := services.NewOrderService(orderRepo, projectRepo)
	gatewaySvc := services.NewGatewayConfigService()
	paymentSvc := services.NewPaymentService(orderRepo, orderSvc, gatewaySvc)
	contactSvc := services.NewContactService(contactRepo)
	notifSvc := services.NewNotificationService(notifRepo, userRepo)
	chatSvc := services.NewChatService(chatRepo, hub)
	postSvc := services.NewPostService(postRepo)

	jobs.SetDeps(notifSvc)
	jobs.Register()
	jobs.RegisterListeners()
	event.Listen(event.OrderPaid, chatSvc.HandleOrderPaid)
	queue.UseDB(db)

	adminGraphQL, err := appgraphql.NewHandler(orderRepo, contactRepo)
	if err != nil {
		logger.Error("graphql: schema build failed", "error", err)
	}

	r := router.New()
	r.Use(
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		metrics.Middleware(),
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(120, time.Minute),
	)
	r.HandleFunc("/metrics", metrics.Handler())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	routes.RegisterAPI(r, routes.Controllers{
		Auth:          controllers.NewAuthController(authSvc),
		Projects:      controllers.NewProjectController(projectSvc),
		Orders:        controllers.NewOrderController(orderSvc),
		Payments:      controllers.NewPaymentController(paymentSvc),
		Contact:       controllers.NewContactController(contactSvc),
		Notifications: controllers.NewNotificationController(notifSvc),
		AdminConfig:   controllers.NewAdminConfigController(gatewaySvc),
		Chat:          controllers.NewChatController(chatSvc, hub),
		Posts:         controllers.NewPostController(postSvc),
		AdminGraphQL:  adminGraphQL,
	})

	return &App{DB: db, Router: r, Hub: hub, Payments: paymentSvc}
}

// Start boots everything and serves until SIGINT/SIGTERM, then drains
// in-flight requests.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}
	if uri := config.Get("MONGO_LOG_URI", ""); uri != "" {
		if err := logger.AttachMongo(uri, config.Get("MONGO_LOG_DB", "workhive"), "logs"); err != nil {
			logger.Warn("logger: mongo sink disabled", "error", err)
		}
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}
	if err := migration.New(db).Run(); err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("cache: running without redis", "error", err)
	}
	storage.Connect()

	if rdb := cache.Client(); rdb != nil {
		queue.SetDriver(queue.NewRedisDriver(rdb))
	}

	app := Build(db)
	go app.Hub.Run()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(ctx, 4)

	schedule.Every(10).Minutes().Name("payments.reconcile").
		WithoutOverlapping().
		Run(app.Payments.Sweep)
	schedule.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           app.Router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("http: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
