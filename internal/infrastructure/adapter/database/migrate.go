package database

import (
	"fmt"

	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"github.com/bookkeeper-app/bookkeeper/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date for all persisted models
func Migrate(db *gorm.DB, logger coreport.Logger) error {
	logger.Info("running schema migration", nil)

	if err := db.AutoMigrate(&model.Company{}, &model.LedgerEntry{}); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	logger.Info("schema migration completed", nil)
	return nil
}
