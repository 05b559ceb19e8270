package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestGormConfig_DSN(t *testing.T) {
	cfg := GormConfig{Host: "db", Port: "5432", User: "app", Password: "pw", DBName: "tickets"}
	assert.Equal(t, "host=db user=app password=pw dbname=tickets port=5432 sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.DSN(), "sslmode=require")
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  logger.LogLevel
	}{
		{"", logger.Warn},
		{"silent", logger.Silent},
		{"ERROR", logger.Error},
		{"info", logger.Info},
		{"verbose", logger.Warn},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("GORM_LOG_LEVEL", tt.value)
			assert.Equal(t, tt.want, logLevel())
		})
	}
}

func TestNewGormDBFromDSN_Empty(t *testing.T) {
	_, err := NewGormDBFromDSN("")
	assert.Error(t, err)
}
