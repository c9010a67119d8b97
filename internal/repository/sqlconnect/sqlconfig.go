package sqlconnect

import (
	"context"
	"fmt"
	"time"

	"github.com/5w1tchy/ai-books-api/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ConnectDB opens the pool behind the store and checks it answers.
// Idle connections default to zero, so every released session is closed.
func ConnectDB(ctx context.Context, c config.DB) (*sqlx.DB, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	driver := c.Driver
	if driver == "" {
		driver = "pgx"
	}

	db, err := sqlx.Open(driver, c.URL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxIdleConns)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}
