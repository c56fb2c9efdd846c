// Package testutil holds helpers shared by package tests.
package testutil

import (
	"encoding/base64"
	"testing"

	"github.com/Payphone-Digital/jury/config"
	"github.com/Payphone-Digital/jury/pkg/database"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory sqlite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := database.GormConfig("test")
	cfg.Logger = gormLogger.Discard
	cfg.PrepareStmt = false

	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// AuthConfig returns a complete key set with access token encryption on.
func AuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SigningKey:         base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
		EncryptionKey:      base64.StdEncoding.EncodeToString([]byte("fedcba9876543210fedcba9876543210")),
		ClockSkewMinutes:   config.DefaultClockSkewMinutes,
		EncryptAccessToken: true,
	}
}
