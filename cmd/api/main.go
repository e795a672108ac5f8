package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"accesspoint/internal/classify"
	"accesspoint/internal/database"
	"accesspoint/internal/middleware"
	"accesspoint/internal/modules/business"
	"accesspoint/internal/modules/moderation"
	"accesspoint/internal/modules/notification"
	"accesspoint/internal/modules/review"
	jwtsvc "accesspoint/internal/pkg/jwt"
	"accesspoint/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	reportRepo := repository.NewReportRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)
	pipeline := classify.DefaultPipeline()

	hub := notification.NewHub()
	defer hub.Close()

	notifService := notification.NewService(notifRepo, userRepo, hub)
	notifHandler := notification.NewHandler(notifService, hub)

	businessService := business.NewService(businessRepo)
	businessHandler := business.NewHandler(businessService)

	reviewService := review.NewService(
		reviewRepo,
		businessRepo,
		reportRepo,
		likeRepo,
		notifService,
		pipeline,
	)
	reviewHandler := review.NewHandler(reviewService)

	moderationService := moderation.NewService(
		reportRepo,
		historyRepo,
		reviewRepo,
		userRepo,
		notifService,
		pipeline,
	)
	moderationHandler := moderation.NewHandler(moderationService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))

		admin := v1.Group("/")
		admin.Use(middleware.Auth(j), middleware.AdminOnly())

		businessHandler.RegisterRoutes(v1, protected)
		reviewHandler.RegisterRoutes(v1, protected, admin)
		moderationHandler.RegisterRoutes(protected, admin)
		notifHandler.RegisterRoutes(protected)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
