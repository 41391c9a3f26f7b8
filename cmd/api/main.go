package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"waveBackend/internal/auth"
	"waveBackend/internal/config"
	"waveBackend/internal/handlers"
	"waveBackend/internal/logger"
	"waveBackend/internal/middleware"
	"waveBackend/internal/repository/inmemory"
	"waveBackend/internal/repository/postgres"
	"waveBackend/internal/service"
	"waveBackend/internal/upload"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Development)
	defer logger.Sync()

	ctx := context.Background()

	var repo service.Repository
	switch cfg.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, cfg.Database.URL, postgres.PoolConfig{
			MaxConns:    int32(cfg.Database.MaxConnections),
			MinConns:    int32(cfg.Database.MinConnections),
			IdleTimeout: time.Duration(cfg.Database.IdleTimeout),
		})
		if err != nil {
			logger.Error("Main: Не удалось подключиться к базе", err)
			os.Exit(1)
		}
		defer storage.Close()

		if err := storage.Migrate(ctx); err != nil {
			logger.Error("Main: Миграции не прошли", err)
			os.Exit(1)
		}
		repo = storage
	case "inmemory":
		repo = inmemory.New()
	default:
		logger.Error("Main: Неизвестный тип репозитория", nil,
			zap.String("type", cfg.Repository.Type))
		os.Exit(1)
	}

	blobs, err := upload.New(cfg.Upload.Dir, cfg.Upload.BaseURL, cfg.Upload.MaxSizeMiB)
	if err != nil {
		logger.Error("Main: Не удалось подготовить каталог загрузок", err)
		os.Exit(1)
	}

	tokens := auth.NewJWTManager(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTL))

	userService := service.NewUserService(repo, tokens, blobs, cfg.Auth.AdminEmail)
	taskService := service.NewTaskService(repo, blobs)
	quoteService := service.NewQuoteService(repo, repo)
	ratingService := service.NewRatingService(repo, repo, repo)
	notificationService := service.NewNotificationService(repo)
	proximityService := service.NewProximityService(repo, repo)

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, ratingService)
	taskHandler := handlers.NewTaskHandler(taskService)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	mapHandler := handlers.NewMapHandler(proximityService)
	healthHandler := handlers.NewHealthHandler(repo)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register) // POST /api/auth/register
			r.Post("/login", authHandler.Login)       // POST /api/auth/login
		})

		// публичный профиль со статистикой
		r.Get("/profile/{userId}", userHandler.GetProfile)
		r.Get("/tasks/completed/{userId}", taskHandler.ListCompletedTasks)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokens))

			r.Get("/me", userHandler.Me)
			r.Put("/profile/location", userHandler.UpdateLocation)
			r.Post("/profile/upload", userHandler.UploadProfileImage)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.ListOpenTasks)          // GET /api/tasks
				r.Post("/", taskHandler.CreateTask)            // POST /api/tasks
				r.Get("/mine", taskHandler.ListMyTasks)        // GET /api/tasks/mine
				r.Get("/assigned", taskHandler.ListAssignedTasks)

				r.Route("/{id}", func(r chi.Router) {
					r.Delete("/", taskHandler.DeleteTask)           // DELETE /api/tasks/{id}
					r.Post("/complete", taskHandler.CompleteTask)   // POST /api/tasks/{id}/complete
					r.Post("/image", taskHandler.UploadTaskImage)   // POST /api/tasks/{id}/image
					r.Post("/quote", quoteHandler.SubmitQuote)      // POST /api/tasks/{id}/quote
					r.Get("/quotes", quoteHandler.ListQuotesByTask) // GET /api/tasks/{id}/quotes
				})
			})

			r.Post("/quotes/{id}/accept", quoteHandler.AcceptQuote)
			r.Post("/rating", ratingHandler.SubmitRating)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.ListNotifications)
				r.Post("/{id}/read", notificationHandler.MarkRead)
			})

			r.Get("/map/tasks", mapHandler.NearbyTasks)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(&userService))

				r.Get("/users", userHandler.ListUsers)
				r.Get("/tasks", taskHandler.ListAllTasks)
			})
		})
	})

	// отдаём загруженные файлы как статику
	fileServer := http.StripPrefix(cfg.Upload.BaseURL+"/", http.FileServer(http.Dir(blobs.Dir())))
	r.Get(cfg.Upload.BaseURL+"/*", fileServer.ServeHTTP)

	r.Get("/health", healthHandler.HealthCheck)

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Info("Server started", zap.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil {
		logger.Error("Main: Сервер остановлен", err)
	}
}
