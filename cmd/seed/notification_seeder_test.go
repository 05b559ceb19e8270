package main

import (
	"bytes"
	"log"
	"os"
	"testing"
	"unicode"

	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a migrated database inside a rolled-back transaction. Skipped without a DSN.
func TestSeedNotificationTypes(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	tx := db.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() { tx.Rollback() })

	var out bytes.Buffer
	log.SetOutput(&out)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	defaults := model.DefaultNotificationTypes()
	codes := make([]string, len(defaults))
	for i, d := range defaults {
		codes[i] = d.Code
	}

	SeedNotificationTypes(tx)
	SeedNotificationTypes(tx)

	var count int64
	require.NoError(t, tx.Model(&model.NotificationType{}).Where("code IN ?", codes).Count(&count).Error)
	assert.Equal(t, int64(len(defaults)), count)

	assert.Contains(t, out.String(), "Notification types seeded")
	for _, r := range out.String() {
		assert.LessOrEqual(t, r, rune(unicode.MaxASCII), "log output should be plain ASCII")
	}
}
