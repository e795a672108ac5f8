package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"accesspoint/internal/classify"
	"accesspoint/internal/database"
	"accesspoint/internal/domain"
	"accesspoint/internal/repository"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "reviews.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM report_history")
	db.Exec("DELETE FROM review_reports")
	db.Exec("DELETE FROM review_likes")
	db.Exec("DELETE FROM reviews")
	db.Exec("DELETE FROM businesses")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	pipeline := classify.DefaultPipeline()

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@accesspoint.dev",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Administrator",
	}
	if err := userRepo.Create(ctx, &admin); err != nil {
		log.Fatal(err)
	}
	log.Println("Admin created: admin@accesspoint.dev / admin123")

	users := make([]domain.User, 0, 4)
	emails := []string{"asel@mail.kz", "bekzat@gmail.com", "dina@yandex.kz", "marco@gmail.com"}
	for i, email := range emails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
		u := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleUser,
			Name:         fmt.Sprintf("User %d", i+1),
		}
		if err := userRepo.Create(ctx, &u); err != nil {
			log.Fatal(err)
		}
		users = append(users, u)
	}

	// ================== BUSINESSES ==================
	log.Println("Creating businesses...")

	businesses := []domain.Business{
		{OwnerID: users[0].ID, Name: "Coffee Lab", Category: "cafe", Address: "12 Abay Ave", Description: "Specialty coffee and breakfast"},
		{OwnerID: users[1].ID, Name: "Pixel Repair", Category: "electronics", Address: "3 Dostyk St", Description: "Phone and laptop repair"},
		{OwnerID: users[2].ID, Name: "Green Garden", Category: "restaurant", Address: "45 Tole Bi", Description: "Vegetarian kitchen"},
	}
	for i := range businesses {
		if err := businessRepo.Create(ctx, &businesses[i]); err != nil {
			log.Fatal(err)
		}
	}

	// ================== REVIEWS ==================
	log.Println("Creating reviews...")

	type seedReview struct {
		user     int
		business int
		rating   int
		comment  string
	}

	seeds := []seedReview{
		{0, 1, 5, "Excellent service, fast and friendly"},
		{1, 0, 4, "Good coffee, a bit crowded at noon"},
		{2, 0, 2, "Terrible wait, never again"},
		{3, 0, 5, ""},
		{3, 2, 5, "Amazing food, will come back"},
		{0, 2, 1, "The soup was basura"},
	}

	for _, s := range seeds {
		res := pipeline.Run(s.rating, s.comment)
		rv := domain.Review{
			BusinessID:      businesses[s.business].ID,
			UserID:          users[s.user].ID,
			Rating:          s.rating,
			Comment:         s.comment,
			Sentiment:       res.Sentiment,
			Coherence:       res.Coherence,
			SuggestedAction: res.SuggestedAction,
			IsOffensive:     res.Offensive,
			Status:          domain.ReviewApproved,
		}
		if res.SuggestedAction == domain.ActionManualReview {
			rv.Status = domain.ReviewInReview
		}
		avg, err := reviewRepo.CreateAndRecalc(ctx, &rv)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("review #%d: rating=%d sentiment=%s action=%s avg=%.2f",
			rv.ID, rv.Rating, rv.Sentiment, rv.SuggestedAction, avg)
	}

	log.Println("Seed complete")
}
