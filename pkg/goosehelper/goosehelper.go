package goosehelper

import (
	"database/sql"

	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// MigrateUp выполняет миграции из директории migrationsDir
func MigrateUp(db *sql.DB, migrationsDir string) {
	if err := goose.Up(db, migrationsDir); err != nil {
		log.Fatalf("Ошибка при выполнении миграций: %v", err)
	}
}
