// seed preloads a starter set of keyword filters so a freshly deployed
// bot has something to moderate with. Safe to re-run: filters upsert on
// their trigger.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/grouppal/grouppal/model"
)

var starterFilters = []model.Filter{
	{Trigger: "welcome", Reply: "👋 Welcome to the group! Check /help to see what I can do."},
	{Trigger: "rules", Reply: "📜 Be kind, no spam, keep it on topic."},
	{Trigger: "admin", Reply: "🧑‍💻 Need an admin? Mention one or use /getchatid to report an issue."},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		dsn  = flag.String("dsn", "", "Database DSN (overrides DB_* env vars)")
		wipe = flag.Bool("wipe", false, "Delete existing filters before seeding")
	)
	flag.Parse()

	database := *dsn
	if database == "" {
		database = os.Getenv("DATABASE_URL")
	}
	if database == "" {
		database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			envOr("DB_HOST", "localhost"),
			envOr("DB_USER", "postgres"),
			envOr("DB_PASSWORD", "postgres"),
			envOr("DB_NAME", "grouppal"),
			envOr("DB_PORT", "5432"))
	}

	db, err := gorm.Open(postgres.Open(database), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&model.Filter{}); err != nil {
		log.Fatalf("Failed to migrate filters table: %v", err)
	}

	if *wipe {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Filter{}).Error; err != nil {
			log.Fatalf("Failed to wipe filters: %v", err)
		}
		log.Println("Existing filters removed")
	}

	for _, f := range starterFilters {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "trigger"}},
			DoUpdates: clause.AssignmentColumns([]string{"reply"}),
		}).Create(&f).Error
		if err != nil {
			log.Fatalf("Failed to seed filter %q: %v", f.Trigger, err)
		}
		log.Printf("Seeded filter: %s -> %s", f.Trigger, f.Reply)
	}

	log.Printf("Seeding complete (%d filters)", len(starterFilters))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
