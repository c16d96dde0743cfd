// Command cleanup physically removes applied and failed corrections older
// than the retention period. It is intended to be invoked by an external
// cron job, not as an in-process goroutine.
//
// Usage:
//
//	cleanup [-retention 720h]
//
// Requires DATABASE_DSN environment variable to be set.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	retention := flag.Duration("retention", 30*24*time.Hour, "delete applied/failed corrections older than this")
	flag.Parse()

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	tag, err := pool.Exec(ctx,
		"DELETE FROM corrections WHERE status IN ('applied', 'failed') AND created_at < $1",
		time.Now().UTC().Add(-*retention),
	)
	if err != nil {
		log.Fatalf("cleanup corrections: %v", err)
	}

	fmt.Printf("Deleted %d settled corrections older than %s.\n", tag.RowsAffected(), *retention)
}
