package main

import (
	"flag"

	"basvuru.link/configs"
	"basvuru.link/configs/configslog"
	"basvuru.link/database"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()
	migrateFlag := flag.Bool("migrate", false, "Veritabanı başlatma işlemini çalıştır (migrasyonları içerir)")
	seedFlag := flag.Bool("seed", false, "Veritabanı başlatma işlemini çalıştır (seederları içerir)")
	flag.Parse()

	configs.InitDB()
	defer configs.CloseDB()

	db := configs.GetDB()

	configslog.SLog.Info("Veritabanı başlatma işlemi çalıştırılıyor...")
	database.Initialize(db, *migrateFlag, *seedFlag)

	configslog.SLog.Info("Veritabanı başlatma işlemi tamamlandı.")
}
