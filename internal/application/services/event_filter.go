package services

import (
	"strings"

	"github.com/zatekoja/agrievents/internal/domain/entities"
)

// FilterEvents returns the events whose title, summary, body or topics contain
// query, ignoring case. The result keeps the input order. Callers must not pass
// a blank query.
func FilterEvents(events []*entities.Event, query string) []*entities.Event {
	needle := strings.ToLower(query)
	matched := make([]*entities.Event, 0)
	for _, event := range events {
		if event == nil {
			continue
		}
		for _, field := range event.SearchableText() {
			if strings.Contains(strings.ToLower(field), needle) {
				matched = append(matched, event)
				break
			}
		}
	}
	return matched
}
