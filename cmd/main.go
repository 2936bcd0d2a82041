package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"delivery-web-server/config"
	_ "delivery-web-server/docs"
	"delivery-web-server/internal/handler"
	"delivery-web-server/internal/model"
	"delivery-web-server/internal/notifier"
	"delivery-web-server/internal/repository"
	"delivery-web-server/internal/security"
	"delivery-web-server/internal/service"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Delivery-web-server
// @version 1.0
// @description REST API для отложенной отправки файлов на email

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Ошибка создания логгера: %v", err)
	}
	defer logger.Sync()

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	if err := config.RunMigrations(cfg.DatabaseConfig.DSN); err != nil {
		log.Fatalf("Ошибка применения миграций: %v", err)
	}

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	linkTTL := time.Duration(cfg.TTL.AccessLink) * time.Second
	cacheTTL := time.Duration(cfg.TTL.Redis) * time.Second

	deliveryRepo := repository.NewDeliveryRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, cacheTTL)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	mailService, err := service.NewMailService(&cfg.SMTP, linkTTL)
	if err != nil {
		log.Fatalf("Ошибка создания почтового сервиса: %v", err)
	}

	changeNotifier := notifier.NewRedisNotifier(redisClient, cfg.RedisConfig.Channel, logger)
	go changeNotifier.Start(ctx)

	dispatchService := service.NewDispatchService(db, deliveryRepo, cacheRepo, mailService, changeNotifier, &cfg.Dispatch, cfg.PublicBaseURL, logger)

	triggerService, err := service.NewTriggerService(dispatchService, &cfg.Dispatch, logger)
	if err != nil {
		log.Fatalf("Ошибка создания координатора запусков: %v", err)
	}

	// события об изменениях будят координатор, данные он перечитывает сам
	unsubscribe := changeNotifier.Subscribe(func(model.ChangeEvent) {
		triggerService.NotifyChange()
	})
	defer unsubscribe()

	triggerService.Start(ctx)
	defer triggerService.Stop()

	deliveryService := service.NewDeliveryService(db, deliveryRepo, cacheRepo, s3Service, changeNotifier, triggerService, linkTTL)

	jwtService := security.NewJWTService(&cfg.JWT)
	userService := service.NewUserService(db, userRepo, jwtService)

	authHandler := handler.NewAuthenticationHandler(userService)
	userHandler := handler.NewUserHandler(userService)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService, triggerService, cfg.PublicBaseURL)
	accessHandler := handler.NewAccessHandler(deliveryService, cfg.TTL.AccessLink)
	watchHandler := handler.NewWatchHandler(deliveryService, triggerService, changeNotifier, logger)

	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Handle("/metrics", promhttp.Handler())

	setupAuthRoutes(router, authHandler, jwtService, cfg)
	setupUserRoutes(router, userHandler)
	setupDeliveryRoutes(router, deliveryHandler, watchHandler, jwtService, cfg)
	setupAccessRoutes(router, accessHandler)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtService, cfg.Admin.AdminToken))
			r.Get("/me", h.GetCurrentUsersUUID)
		})
		r.Group(func(r chi.Router) {
			r.Post("/", h.Login)
		})
	})
}

func setupUserRoutes(r chi.Router, h *handler.UserHandler) {
	r.Post("/api/register", h.RegisterUser)
}

func setupDeliveryRoutes(r chi.Router, h *handler.DeliveryHandler, wh *handler.WatchHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/deliveries", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtService, cfg.Admin.AdminToken))
		r.Get("/", h.ListDeliveries)
		r.Post("/", h.CreateDelivery)
		r.Get("/watch", wh.WatchDeliveries)

		r.Route("/{delivery_id}", func(r chi.Router) {
			r.Get("/", h.GetDelivery)
			r.Put("/", h.UpdateDelivery)
			r.Delete("/", h.DeleteDelivery)
			r.Post("/retry", h.RetryDelivery)
		})
	})

	r.Route("/api/dispatch", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtService, cfg.Admin.AdminToken))
		r.Post("/run", h.RunDispatch)
	})
}

func setupAccessRoutes(r chi.Router, h *handler.AccessHandler) {
	r.Get("/access/{token}", h.ResolveAccess)
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
