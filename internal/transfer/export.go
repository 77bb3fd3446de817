package transfer

import (
	"strings"
	"time"
)

// ExportBookmarks renders the user's bookmarks as CSV, oldest first.
// Timestamps are RFC3339 in UTC so a later import round-trips cleanly.
func (s *Service) ExportBookmarks(userID uint) (string, error) {
	bookmarks, err := s.store.ListBookmarks(userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("path,title,description,isFavorite,tags,createdAt\n")

	for _, bm := range bookmarks {
		tagNames := make([]string, 0, len(bm.Tags))
		for _, tag := range bm.Tags {
			tagNames = append(tagNames, tag.Name)
		}

		fields := []string{
			EscapeCSV(bm.Path),
			EscapeCSV(bm.Title),
			EscapeCSV(bm.Description),
			boolField(bm.IsFavorite),
			EscapeCSV(strings.Join(tagNames, ",")),
			bm.CreatedAt.UTC().Format(time.RFC3339),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// ExportTags renders the user's tags as CSV, sorted by name.
func (s *Service) ExportTags(userID uint) (string, error) {
	tags, err := s.store.ListTags(userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("name,isFavorite\n")

	for _, tag := range tags {
		b.WriteString(EscapeCSV(tag.Name))
		b.WriteByte(',')
		b.WriteString(boolField(tag.IsFavorite))
		b.WriteByte('\n')
	}

	return b.String(), nil
}

func boolField(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
