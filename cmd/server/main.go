package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Dias221467/Growth_Platform/internal/config"
	"github.com/Dias221467/Growth_Platform/internal/database"
	"github.com/Dias221467/Growth_Platform/internal/handlers"
	"github.com/Dias221467/Growth_Platform/internal/jobs"
	"github.com/Dias221467/Growth_Platform/internal/repository"
	cron "github.com/Dias221467/Growth_Platform/internal/scheduler"
	"github.com/Dias221467/Growth_Platform/internal/services"
	"github.com/Dias221467/Growth_Platform/pkg/delivery"
	"github.com/Dias221467/Growth_Platform/pkg/logger"
	"github.com/Dias221467/Growth_Platform/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	notifRepo := repository.NewNotificationRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	streakRepo := repository.NewStreakRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	pathwayRepo := repository.NewPathwayRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := notifRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Index creation error: %v", err)
	}
	cancel()

	// --- Services ---
	notifService := services.NewNotificationService(notifRepo, prefRepo, delivery.NewLogChannel(), cfg.Location)
	scheduleService := services.NewScheduleService(scheduleRepo, goalRepo, pathwayRepo, notifRepo, notifService, cfg.Location)
	streakService := services.NewStreakService(streakRepo, notifService, cfg.Location)

	// --- Jobs ---
	deadlineNotifier := jobs.NewDeadlineNotifier(goalRepo, notifService, cfg.Location)
	pathwayNotifier := jobs.NewPathwayNotifier(pathwayRepo, notifService, cfg.Location)

	cron.StartNotificationCronJobs(deadlineNotifier, pathwayNotifier, scheduleService, streakService, notifService, cfg.Location)

	// --- Handlers ---
	notifHandler := handlers.NewNotificationHandler(notifService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	streakHandler := handlers.NewStreakHandler(streakService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Notification routes
	protectedNotifRoutes := router.PathPrefix("/notifications").Subrouter()
	protectedNotifRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedNotifRoutes.HandleFunc("", notifHandler.GetUserNotificationsHandler).Methods("GET")
	protectedNotifRoutes.HandleFunc("/read-all", notifHandler.MarkAllAsReadHandler).Methods("POST")
	protectedNotifRoutes.HandleFunc("/preferences", notifHandler.GetPreferencesHandler).Methods("GET")
	protectedNotifRoutes.HandleFunc("/preferences", notifHandler.UpdatePreferencesHandler).Methods("PUT")
	protectedNotifRoutes.HandleFunc("/{id}/read", notifHandler.MarkAsReadHandler).Methods("POST")

	// Schedule routes
	protectedScheduleRoutes := router.PathPrefix("/schedules").Subrouter()
	protectedScheduleRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedScheduleRoutes.HandleFunc("", scheduleHandler.CreateScheduleHandler).Methods("POST")
	protectedScheduleRoutes.HandleFunc("", scheduleHandler.GetSchedulesHandler).Methods("GET")
	protectedScheduleRoutes.HandleFunc("/{id}", scheduleHandler.DeactivateScheduleHandler).Methods("DELETE")

	// Streak routes
	protectedStreakRoutes := router.PathPrefix("/streaks").Subrouter()
	protectedStreakRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedStreakRoutes.HandleFunc("/activity", streakHandler.RecordActivityHandler).Methods("POST")
	protectedStreakRoutes.HandleFunc("/me", streakHandler.GetStreakHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
