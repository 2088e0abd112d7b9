package seeders

import (
	"errors"
	"os"

	"basvuru.link/configs/configslog"
	"basvuru.link/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSystemUser sistem kullanıcısını oluşturur veya günceller. Form tanımı
// mutasyonları sistem rolü gerektirdiğinden en az bir sistem kullanıcısı
// bulunmalıdır.
func SeedSystemUser(db *gorm.DB) error {
	email := os.Getenv("SYSTEM_USER_EMAIL")
	if email == "" {
		email = "system@basvuru.link"
	}
	password := os.Getenv("SYSTEM_USER_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
		configslog.SLog.Warn("SYSTEM_USER_PASSWORD tanımlı değil, varsayılan şifre kullanılıyor. Üretimde mutlaka değiştirin.")
	}

	var existing models.User
	result := db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		if !existing.IsSystem || !existing.IsActive {
			existing.IsSystem = true
			existing.IsActive = true
			if err := db.Save(&existing).Error; err != nil {
				configslog.Log.Error("Sistem kullanıcısı güncellenemedi", zap.Error(err))
				return err
			}
			configslog.SLog.Infof("Sistem kullanıcısı güncellendi: %s", email)
		} else {
			configslog.SLog.Debugf("Sistem kullanıcısı '%s' zaten mevcut, oluşturma atlanıyor.", email)
		}
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Sistem kullanıcısı kontrol edilirken veritabanı hatası", zap.Error(result.Error))
		return result.Error
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Sistem kullanıcısı şifresi hashlenemedi", zap.Error(err))
		return err
	}

	user := models.User{
		Name:     "System",
		Email:    email,
		Password: string(hashed),
		IsSystem: true,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		configslog.Log.Error("Sistem kullanıcısı oluşturulamadı", zap.Error(err))
		return err
	}

	configslog.SLog.Infof("Sistem kullanıcısı oluşturuldu: %s (ID: %d)", email, user.ID)
	return nil
}
