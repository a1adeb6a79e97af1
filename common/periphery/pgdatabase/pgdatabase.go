package pgdatabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

type PgDatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSlMode  string
}

func (c PgDatabaseConfig) connString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSlMode)
}

type PgDatabase struct {
	db *sql.DB
}

func (d *PgDatabase) GetDB() (*sql.DB, error) {
	if d == nil || d.db == nil {
		return nil, errors.New("pg database uninitialized")
	}

	return d.db, nil
}

func (d *PgDatabase) Ping(ctx context.Context) error {
	db, err := d.GetDB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

func (d *PgDatabase) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// New opens the pool lazily; use Ping to check the connection.
func New(config PgDatabaseConfig) (*PgDatabase, error) {
	db, err := sql.Open("postgres", config.connString())
	if err != nil {
		return nil, err
	}

	return &PgDatabase{
		db: db,
	}, nil
}
