package main

import (
	"fmt"
	"log"
	"os"

	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// checkConstraint is a table-level CHECK that AutoMigrate cannot express from tags.
type checkConstraint struct {
	table string
	name  string
	expr  string
}

var checks = []checkConstraint{
	{table: "events", name: "events_booked_within_capacity", expr: "booked_count >= 0 AND booked_count <= capacity"},
	{table: "wallets", name: "wallets_balance_nonnegative", expr: "balance >= 0"},
}

func tables() []interface{} {
	return []interface{}{
		&model.User{},
		&model.UserProvider{},
		&model.UserRefreshToken{},
		&model.Category{},
		&model.Event{},
		&model.Coupon{},
		&model.Booking{},
		&model.Payment{},
		&model.Wallet{},
		&model.WalletTransaction{},
		&model.Report{},
		&model.FeatureRequest{},
		&model.NotificationType{},
		&model.Notification{},
		&model.UserNotificationPreference{},
	}
}

func main() {
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

	// gen_random_uuid() defaults need pgcrypto on Postgres < 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		log.Printf("Warn: pgcrypto extension not created: %v", err)
	}

	models := tables()
	log.Printf("Migrating %d tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	for _, c := range checks {
		if err := addCheck(db, c); err != nil {
			log.Printf("Warn: constraint %s: %v", c.name, err)
		}
	}

	log.Println("Migration complete")
}

func addCheck(db *gorm.DB, c checkConstraint) error {
	if db.Migrator().HasConstraint(c.table, c.name) {
		return nil
	}
	return db.Exec(fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)", c.table, c.name, c.expr)).Error
}
