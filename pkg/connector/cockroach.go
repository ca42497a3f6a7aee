package connector

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func GetCockroachConnector(dsn string) (*sqlx.DB, error) {
	// cockroach работает с драйвером postgres
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(0)
	return db, nil
}
