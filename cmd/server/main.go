// Command server runs the corrections API: submission, re-processing
// status, history, and cancellation endpoints for the tracking dashboard.
package main

import (
	"context"
	"log"
	"os"

	"github.com/paddockvision/paddock-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Printf("server exited with error: %v", err)
		os.Exit(1)
	}
}
