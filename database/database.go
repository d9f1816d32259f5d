package database

import (
	"fmt"
	"log"
	"os"

	"coaching-app/internal/domain/billing"
	"coaching-app/internal/domain/plans"
	"coaching-app/internal/domain/users"
	"coaching-app/internal/domain/videos"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(Models()...); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}

	fmt.Println("Connected and migrated successfully")
}

// Models lists every persisted model; tests migrate the same set against an
// in-memory database.
func Models() []interface{} {
	return []interface{}{
		&users.User{},
		&users.VerificationToken{},
		&plans.Plan{},
		&billing.Payment{},
		&billing.ProcessedEvent{},
		&videos.WorkoutVideo{},
	}
}
