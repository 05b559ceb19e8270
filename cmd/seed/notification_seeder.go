package main

import (
	"log"

	"ticket-marketplace-be/internal/model"

	"gorm.io/gorm"
)

// SeedNotificationTypes makes sure every default notification type exists.
// Existing rows are left alone so admin edits to templates survive a reseed.
func SeedNotificationTypes(db *gorm.DB) {
	for _, t := range model.DefaultNotificationTypes() {
		if err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error; err != nil {
			log.Printf("Error seeding notification type %s: %v", t.Code, err)
		}
	}
	log.Println("Notification types seeded")
}
