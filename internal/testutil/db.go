package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"yonexus/internal/domain"
	"yonexus/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory sqlite database private to t.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
}

// NewFileTestDB returns a migrated sqlite database stored under t.TempDir.
// Writers wait on the file lock instead of failing, which makes it the
// right choice for tests that hit the database from several goroutines.
func NewFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yonexus.db")
	return openTestDB(t, "file:"+path+"?_busy_timeout=5000&_journal_mode=WAL")
}

func openTestDB(t *testing.T, dsn string) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, dsn, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// InsertAccount stores an account directly. A premium account gets a VIP
// period that covers the next 30 days.
func InsertAccount(t *testing.T, db *gorm.DB, username string, premium bool) *domain.Account {
	t.Helper()

	acc := &domain.Account{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
	}
	if premium {
		until := time.Now().AddDate(0, 0, 30)
		acc.VipUntil = &until
	}
	require.NoError(t, db.Create(acc).Error)
	return acc
}

func InsertCharacter(t *testing.T, db *gorm.DB, accountID uuid.UUID, name string, xpStart int64) *domain.Character {
	t.Helper()

	ch := &domain.Character{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      name,
		XpStart:   xpStart,
	}
	require.NoError(t, db.Create(ch).Error)
	return ch
}

func InsertXpLog(t *testing.T, db *gorm.DB, characterID uuid.UUID, day string, xp int64) {
	t.Helper()
	require.NoError(t, db.Create(&domain.XpLog{CharacterID: characterID, Day: day, Xp: xp}).Error)
}
