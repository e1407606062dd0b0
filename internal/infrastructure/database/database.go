package database

import (
	"fmt"

	"yonexus/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to postgres or sqlite. Driver errors are translated so
// repositories can match gorm.ErrDuplicatedKey.
func Open(driver, dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	if cfg == nil {
		cfg = &gorm.Config{}
	}
	cfg.TranslateError = true
	return gorm.Open(dialector, cfg)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Account{}, &domain.Character{}, &domain.XpLog{})
}
