// cmd/initdata fills a NoteHub API with fake notes.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"notehub/internal/clients/notehub"
	"notehub/internal/config"
	"notehub/internal/services/notestore"

	"github.com/brianvoe/gofakeit/v6"
)

var nNotes = flag.Int("n", envInt("COUNT", 50), "How many notes to create")

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return def
}

// noteCreator is the part of the client initdata needs
type noteCreator interface {
	Create(ctx context.Context, req notehub.CreateNoteRequest) (*notehub.Note, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	baseURL := flag.String("url", cfg.NoteHubBaseURL, "API base URL")
	token := flag.String("token", cfg.NoteHubToken, "Bearer token")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Seeding %d notes on %s\n", *nNotes, *baseURL)

	client := notehub.New(*baseURL, notehub.StaticToken(*token), notehub.WithTimeout(cfg.HTTPTimeout()))
	f := gofakeit.New(time.Now().UnixNano())

	if err := createNotes(ctx, client, f, *nNotes, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	fmt.Println("✔ done")
}

func createNotes(ctx context.Context, c noteCreator, f *gofakeit.Faker, total int, out io.Writer) error {
	for i := 1; i <= total; i++ {
		if _, err := c.Create(ctx, notestore.FakeRequest(f)); err != nil {
			return fmt.Errorf("create note %d: %w", i, err)
		}

		if i%10 == 0 || i == total {
			fmt.Fprintf(out, "  … %d/%d\n", i, total)
		}
	}
	return nil
}
