package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fleet-registry/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Vehicle{},
		&model.License{},
		&model.MilitaryLicense{},
		&model.User{},
	))
	return db
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func mustParseDate(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := model.ParseDate(raw)
	require.NoError(t, err)
	return parsed
}
