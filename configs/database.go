package configs

import (
	"fmt"
	"os"
	"time"

	"basvuru.link/configs/configslog"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

// LoadEnv .env dosyasını yükler (varsa). Ortam değişkenleri önceliklidir.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		configslog.SLog.Info(".env dosyası bulunamadı, ortam değişkenleri kullanılacak.")
	}
}

func buildDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	pass := getEnv("DB_PASSWORD", "postgres")
	name := getEnv("DB_NAME", "basvuru")
	sslmode := getEnv("DB_SSLMODE", "disable")
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		host, port, user, pass, name, sslmode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB veritabanı bağlantısını kurar ve bağlantı havuzunu ayarlar.
func InitDB() {
	LoadEnv()

	gormLogLevel := gormlogger.Warn
	if os.Getenv("APP_ENV") != "production" {
		gormLogLevel = gormlogger.Info
	}

	var err error
	db, err = gorm.Open(postgres.Open(buildDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel),
		TranslateError: true, // gorm.ErrDuplicatedKey gibi hatalar için
	})
	if err != nil {
		configslog.Log.Fatal("Veritabanı bağlantısı kurulamadı", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Fatal("Veritabanı bağlantı havuzu alınamadı", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	configslog.SLog.Info("Veritabanı bağlantısı başarıyla kuruldu.")
}

// GetDB aktif veritabanı bağlantısını döndürür.
func GetDB() *gorm.DB {
	return db
}

// CloseDB bağlantı havuzunu kapatır. main'de defer ile çağrılır.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("Veritabanı kapatılırken bağlantı alınamadı", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Veritabanı bağlantısı kapatılamadı", zap.Error(err))
	}
}
