package migrations

import (
	"basvuru.link/configs/configslog"
	"basvuru.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateSectionsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating sections table...")
	err := db.AutoMigrate(&models.Section{})
	if err != nil {
		configslog.Log.Error("Failed to migrate sections table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Sections table migrated successfully")
	return nil
}
