package notestore

import (
	"context"
	"strings"
	"unicode/utf8"

	"notehub/internal/clients/notehub"

	"github.com/brianvoe/gofakeit/v6"
)

// FakeRequest returns a random note that passes validation.
func FakeRequest(f *gofakeit.Faker) notehub.CreateNoteRequest {
	title := strings.TrimSuffix(f.Sentence(f.Number(1, 5)), ".")
	title = truncate(title, 50)
	for utf8.RuneCountInString(title) < 3 {
		title += " " + f.Word()
	}

	return notehub.CreateNoteRequest{
		Title:   truncate(title, 50),
		Content: truncate(f.Paragraph(1, f.Number(1, 4), 12, " "), 500),
		Tag:     notehub.Tags[f.Number(0, len(notehub.Tags)-1)],
	}
}

// Seed creates n fake notes.
func (s *Service) Seed(ctx context.Context, f *gofakeit.Faker, n int) (int, error) {
	for i := 0; i < n; i++ {
		if _, err := s.Create(ctx, FakeRequest(f)); err != nil {
			return i, err
		}
	}
	return n, nil
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}
