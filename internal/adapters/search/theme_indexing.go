package search

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/zatekoja/agrievents/internal/domain/entities"
)

// MaxIndexedThemes caps the themes stored per document.
const MaxIndexedThemes = 50

// EventDocumentID derives a stable document id from the fields that identify
// an event, so re-indexing the same file upserts instead of duplicating.
func EventDocumentID(event *entities.Event) string {
	h := sha256.New()
	for _, part := range []string{event.Title, event.Type, event.Venue, event.Summary} {
		h.Write([]byte(strings.TrimSpace(part)))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:24]
}

// buildThemeTags lowercases and de-duplicates themes, keeping first-seen order.
func buildThemeTags(event *entities.Event) []string {
	if event == nil {
		return nil
	}
	seen := make(map[string]struct{})
	tags := []string{}
	for _, theme := range event.Themes() {
		tag := strings.ToLower(theme)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) >= MaxIndexedThemes {
			break
		}
	}
	return tags
}

func buildEventDocument(id string, position int, event *entities.Event) map[string]interface{} {
	return map[string]interface{}{
		"id":       id,
		"title":    strings.TrimSpace(event.Title),
		"type":     strings.TrimSpace(event.Type),
		"venue":    strings.TrimSpace(event.Venue),
		"themes":   buildThemeTags(event),
		"position": int32(position),
	}
}
