package main

import (
	"flag"
	"os"

	"basvuru.link/configs"
	"basvuru.link/configs/configslog"
	"basvuru.link/database"
	"basvuru.link/routes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	migrateFlag := flag.Bool("migrate", false, "Açılışta migrasyonları çalıştır")
	seedFlag := flag.Bool("seed", false, "Açılışta seeder'ları çalıştır")
	flag.Parse()

	configs.InitDB()
	defer configs.CloseDB()

	if *migrateFlag || *seedFlag {
		database.Initialize(configs.GetDB(), *migrateFlag, *seedFlag)
	}

	app := fiber.New(fiber.Config{
		AppName: "basvuru.link form tanım servisi",
	})
	routes.SetupRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	configslog.SLog.Infof("Sunucu %s portunda başlatılıyor...", port)
	if err := app.Listen(":" + port); err != nil {
		configslog.Log.Fatal("Sunucu başlatılamadı", zap.Error(err))
	}
}
