package main

import (
	"flag"
	"os"

	"marinehub.app/configs/configsapp"
	"marinehub.app/configs/configsdatabase"
	"marinehub.app/configs/configslog"
	"marinehub.app/database"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	migrateFlag := flag.Bool("migrate", false, "Run ordered table migrations")
	seedFlag := flag.Bool("seed", false, "Seed the admin user and default blog categories")
	flag.Parse()

	cfg := configsapp.Load()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	err := database.Initialize(configsdatabase.GetDB(), database.Options{
		Migrate:       *migrateFlag,
		Seed:          *seedFlag,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		configsdatabase.CloseDB()
		configslog.SyncLogger()
		os.Exit(1)
	}
}
