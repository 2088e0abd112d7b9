package migrations

import (
	"basvuru.link/configs/configslog"
	"basvuru.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateQuestionsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating questions table...")
	err := db.AutoMigrate(&models.Question{})
	if err != nil {
		configslog.Log.Error("Failed to migrate questions table", zap.Error(err))
		return err
	}

	// Her soru tam olarak bir kapsayıcıya bağlı olmalı; model ve servis
	// kontrolünün yanında veritabanı da bu değişmezi korur.
	err = db.Exec(`
		ALTER TABLE questions DROP CONSTRAINT IF EXISTS chk_questions_single_container;
		ALTER TABLE questions ADD CONSTRAINT chk_questions_single_container CHECK (
			(CASE WHEN form_id IS NULL THEN 0 ELSE 1 END +
			 CASE WHEN section_id IS NULL THEN 0 ELSE 1 END +
			 CASE WHEN parent_id IS NULL THEN 0 ELSE 1 END) = 1
		);
	`).Error
	if err != nil {
		configslog.Log.Error("Failed to add single-container check constraint", zap.Error(err))
		return err
	}

	configslog.SLog.Info("Questions table migrated successfully")
	return nil
}
