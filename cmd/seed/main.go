// Command seed fills the configured database with demo data.
package main

import (
	"context"
	"log"

	"gridcode/internal/config"
	"gridcode/internal/database"
	"gridcode/internal/repository"
	"gridcode/internal/seed"

	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// All or nothing: a partial seed is worse than none.
	err = db.Transaction(func(tx *gorm.DB) error {
		return seed.Seed(context.Background(), seed.Repos{
			Users:       repository.NewUserRepository(tx),
			Posts:       repository.NewPostRepository(tx),
			Engagements: repository.NewEngagementRepository(tx),
			Comments:    repository.NewCommentRepository(tx),
			Invites:     repository.NewInviteRepository(tx),
		})
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding completed")
}
