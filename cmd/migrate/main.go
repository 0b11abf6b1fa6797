package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"zattar/config"
	"zattar/internal/domain/category"
	"zattar/internal/domain/chat"
	"zattar/internal/domain/deal"
	"zattar/internal/domain/listing"
	"zattar/internal/domain/user"
	"zattar/internal/repository"
	"zattar/pkg/database"
	zattar_errors "zattar/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const usage = `
Zattar - Database CLI Tool

Usage:
  migrate [command]

Commands:
  up       Run GORM migrations for all tables
  seed     Insert the base category catalogue
  status   Show database connection status

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed
  go run cmd/migrate/main.go status
`

func main() {
	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.LoadConfig()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	switch flag.Arg(0) {
	case "up":
		runMigrationsUp(db)
	case "seed":
		seedCategories(db)
	case "status":
		showStatus(db)
	default:
		fmt.Printf("Unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(db *gorm.DB) {
	log.Println("Running migrations...")

	if err := db.AutoMigrate(
		&user.User{},
		&category.Category{},
		&listing.Listing{},
		&chat.Conversation{},
		&chat.Message{},
		&deal.SafeDeal{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully")
}

func seedCategories(db *gorm.DB) {
	repo := repository.NewCategoryRepository(db)
	ctx := context.Background()

	seeds := []category.Category{
		{Name: "Electronics", Slug: "electronics", SortOrder: 1},
		{Name: "Home & Furniture", Slug: "home-furniture", SortOrder: 2},
		{Name: "Clothing", Slug: "clothing", SortOrder: 3},
		{Name: "Transport", Slug: "transport", SortOrder: 4},
		{Name: "Hobby & Sport", Slug: "hobby-sport", SortOrder: 5},
		{Name: "Other", Slug: "other", SortOrder: 6},
	}

	created := 0
	for _, c := range seeds {
		c.ID = uuid.New()
		err := repo.Create(ctx, &c)
		if errors.Is(err, zattar_errors.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			log.Fatalf("Seeding category %q failed: %v", c.Slug, err)
		}
		created++
	}

	log.Printf("Seeded %d categories (%d already present)", created, len(seeds)-created)
}

func showStatus(db *gorm.DB) {
	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	tables := []string{"users", "categories", "listings", "conversations", "messages", "safe_deals"}
	for _, table := range tables {
		if db.Migrator().HasTable(table) {
			var count int64
			db.Table(table).Count(&count)
			log.Printf("Table %-15s exists (%d rows)", table, count)
		} else {
			log.Printf("Table %-15s does not exist", table)
		}
	}
}
