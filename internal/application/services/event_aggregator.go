package services

import (
	"strings"

	"github.com/zatekoja/agrievents/internal/domain/entities"
)

// AggregateThemes counts every (event, theme) pair.
func AggregateThemes(events []*entities.Event) *entities.FrequencyTable {
	table := entities.NewFrequencyTable()
	for _, event := range events {
		if event == nil {
			continue
		}
		for _, theme := range event.Themes() {
			table.Add(theme)
		}
	}
	return table
}

// AggregateTypes counts events per type. Events without a type are not counted.
func AggregateTypes(events []*entities.Event) *entities.FrequencyTable {
	table := entities.NewFrequencyTable()
	for _, event := range events {
		if event == nil {
			continue
		}
		if eventType := strings.TrimSpace(event.Type); eventType != "" {
			table.Add(eventType)
		}
	}
	return table
}
