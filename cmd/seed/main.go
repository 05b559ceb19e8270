package main

import (
	"log"
	"os"
	"strings"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Notification Types...")
	SeedNotificationTypes(db)

	log.Println("Seeding Categories...")
	seedCategories(db)

	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		log.Println("Seeding Admin...")
		seedAdmin(db, strings.ToLower(strings.TrimSpace(email)), os.Getenv("ADMIN_PASSWORD"))
	}
}

func seedCategories(db *gorm.DB) {
	categories := []model.Category{
		{Name: "Music", Description: "Concerts, gigs and festivals", IsActive: true},
		{Name: "Sports", Description: "Matches and tournaments", IsActive: true},
		{Name: "Comedy", Description: "Stand-up and improv", IsActive: true},
		{Name: "Theatre", Description: "Plays and musicals", IsActive: true},
		{Name: "Workshops", Description: "Classes and hands-on sessions", IsActive: true},
		{Name: "Conferences", Description: "Talks and meetups", IsActive: true},
	}

	for _, c := range categories {
		var existing model.Category
		if err := db.Where("name = ?", c.Name).First(&existing).Error; err == nil {
			log.Printf("Category '%s' already exists, skipping...", c.Name)
			continue
		}
		if err := db.Create(&c).Error; err != nil {
			log.Printf("Error creating category '%s': %v", c.Name, err)
		} else {
			log.Printf("Created category: %s", c.Name)
		}
	}
}

func seedAdmin(db *gorm.DB, email, password string) {
	if len(password) < 8 {
		log.Fatal("Error: ADMIN_PASSWORD must be at least 8 characters")
	}

	var existing model.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		if existing.Role != string(entity.UserRoleAdmin) {
			if err := db.Model(&existing).Update("role", string(entity.UserRoleAdmin)).Error; err != nil {
				log.Fatalf("Error promoting %s: %v", email, err)
			}
			log.Printf("Promoted %s to admin", email)
		}
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error hashing admin password: %v", err)
	}
	hashed := string(hash)

	admin := model.User{
		Email:        email,
		PasswordHash: &hashed,
		FullName:     "Administrator",
		Role:         string(entity.UserRoleAdmin),
		Status:       string(entity.UserStatusActive),
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Error creating admin: %v", err)
	}
	log.Printf("Created admin: %s", email)
}
