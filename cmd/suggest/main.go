package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"accesspoint/internal/database"
	"accesspoint/internal/modules/business"
	"accesspoint/internal/modules/notification"
	"accesspoint/internal/repository"
)

// Periodic suggestion job: finds the best-rated business above the
// threshold and fans a suggestion out to every regular user.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	threshold := 4.0
	if v := os.Getenv("SUGGEST_MIN_RATING"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Fatal("invalid SUGGEST_MIN_RATING:", v)
		}
		threshold = f
	}

	schedule := os.Getenv("SUGGEST_CRON")
	if schedule == "" {
		schedule = "0 * * * *" // hourly
	}

	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	notifService := notification.NewService(notifRepo, userRepo, nil)
	businessService := business.NewService(businessRepo)

	run := func() {
		ctx := context.Background()

		top, err := businessService.TopRated(ctx, threshold)
		if err != nil {
			log.Printf("suggest: top-rated lookup failed: %v", err)
			return
		}
		if top == nil {
			log.Printf("suggest: no business above %.2f yet", threshold)
			return
		}

		if err := notifService.NotifyTopRated(ctx, top.ID, top.Name, top.AverageRating); err != nil {
			log.Printf("suggest: fan-out failed: %v", err)
			return
		}
		log.Printf("suggest: recommended %q (%.2f)", top.Name, top.AverageRating)
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, run); err != nil {
		log.Fatal("invalid SUGGEST_CRON:", err)
	}

	log.Printf("suggest job scheduled: %q threshold=%.2f", schedule, threshold)
	run() // once at startup
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	<-c.Stop().Done()
}
