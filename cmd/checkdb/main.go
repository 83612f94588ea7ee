// Command checkdb inspects the EduBot database out-of-band: connection
// health, registered users and the most recent transcripts. It reads the
// same config.yaml as the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"edubot-backend/internal/config"
	"edubot-backend/internal/database"
	"edubot-backend/internal/models"
	"edubot-backend/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	recent := flag.Int64("recent", 3, "number of recent transcripts to show")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("connect storage: %v", err)
	}
	defer db.Close(context.Background())

	users, err := store.NewUserStore(db.DB).All(ctx)
	if err != nil {
		log.Fatalf("read users: %v", err)
	}

	records, err := store.NewChatStore(db.DB).Recent(ctx, *recent)
	if err != nil {
		log.Fatalf("read transcripts: %v", err)
	}

	writeReport(os.Stdout, users, records)
}

// writeReport renders the diagnostic summary.
func writeReport(w io.Writer, users []models.User, records []models.ChatRecord) {
	fmt.Fprintln(w, "storage connection ok")

	fmt.Fprintf(w, "users: %d\n", len(users))
	for _, u := range users {
		fmt.Fprintf(w, "  - %s (%s)\n", u.Username, u.Email)
	}

	fmt.Fprintf(w, "recent transcripts: %d\n", len(records))
	for _, rec := range records {
		msg := rec.UserMessage
		if len(msg) > 50 {
			msg = msg[:50] + "..."
		}
		fmt.Fprintf(w, "  %s  %s: %s\n", rec.Timestamp.Format(time.RFC3339), rec.UserEmail, msg)
	}
}
