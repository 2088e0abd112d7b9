package configslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log yapılandırılmış (structured) logger.
// SLog printf tarzı loglama için sugared logger.
// InitLogger çağrılana kadar no-op logger kullanılır.
var (
	Log  = zap.NewNop()
	SLog = zap.NewNop().Sugar()
)

// InitLogger ortam değişkenine göre logger'ı başlatır.
// APP_ENV=production ise JSON formatında, aksi halde konsol formatında loglar.
func InitLogger() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		// Logger kurulamazsa uygulama devam edemez.
		panic("logger başlatılamadı: " + err.Error())
	}
	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger tamponlanmış log kayıtlarını boşaltır. main'de defer ile çağrılır.
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
