package migrations

import (
	"basvuru.link/configs/configslog"
	"basvuru.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateAuditLogsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating audit_logs table...")
	err := db.AutoMigrate(&models.AuditLog{})
	if err != nil {
		configslog.Log.Error("Failed to migrate audit_logs table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Audit_logs table migrated successfully")
	return nil
}
