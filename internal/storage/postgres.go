package storage

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// DB backs the results history (see ResultStore). Nil when the server
// runs without postgres; play is unaffected, nothing gets recorded.
var DB *sql.DB

func InitPostgres(dsn string) error {
	var err error
	DB, err = sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	DB.SetMaxOpenConns(10)
	return DB.Ping()
}
