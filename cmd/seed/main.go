package main

import (
	"context"
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// Seeds a demo account with a handful of tasks so a fresh install has
// something to show. Idempotent: re-running skips the existing user.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	email := getEnv("SEED_EMAIL", "demo@example.com")
	password := getEnv("SEED_PASSWORD", "demo-password")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	if existing, err := userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		log.Printf("Demo user %s already exists, nothing to do", email)
		return
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check demo user: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &model.User{
		Name:         "Demo User",
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	log.Printf("Created demo user %s (id %d)", email, user.ID)

	samples := []model.Task{
		{UserID: user.ID, Title: "Try the dashboard", Description: "List, search, and filter your tasks"},
		{UserID: user.ID, Title: "Add your first task", Description: ""},
		{UserID: user.ID, Title: "Read the API docs", Description: "Swagger UI is served at /swagger/index.html"},
	}
	for i := range samples {
		if err := taskRepo.Create(ctx, &samples[i]); err != nil {
			log.Fatalf("Failed to create sample task: %v", err)
		}
	}
	log.Printf("Seeded %d sample tasks", len(samples))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
