package services_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/agrievents/internal/application/services"
	"github.com/zatekoja/agrievents/internal/domain/entities"
)

func TestAggregateThemes(t *testing.T) {
	events := []*entities.Event{{Topics: "Soil,Water"}, {Topics: "Soil"}}

	table := services.AggregateThemes(events)

	assert.Equal(t, map[string]int{"Soil": 2, "Water": 1}, table.Map())
	data, err := json.Marshal(table)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Soil":2,"Water":1}`, string(data))
}

func TestAggregateThemes_EmptyTopics(t *testing.T) {
	events := []*entities.Event{{Title: "A"}, {Title: "B", Topics: " , "}}

	table := services.AggregateThemes(events)

	assert.Equal(t, 0, table.Len())
	data, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestAggregateThemes_TotalEqualsThemePairs(t *testing.T) {
	events := sampleEvents()

	pairs := 0
	for _, e := range events {
		pairs += len(e.Themes())
	}

	assert.Equal(t, pairs, services.AggregateThemes(events).Total())
}

func TestAggregateThemes_KeysAreExactStrings(t *testing.T) {
	events := []*entities.Event{{Topics: "soil"}, {Topics: "Soil "}}

	table := services.AggregateThemes(events)

	assert.Equal(t, []string{"soil", "Soil"}, table.Keys())
}

func TestAggregateTypes(t *testing.T) {
	events := []*entities.Event{
		{Type: "Koulutus"},
		{Type: "Webinaari"},
		{Type: ""},
		{Type: "Koulutus"},
	}

	table := services.AggregateTypes(events)

	assert.Equal(t, []string{"Koulutus", "Webinaari"}, table.Keys())
	assert.Equal(t, 2, table.Count("Koulutus"))
	assert.Equal(t, 3, table.Total())
}

func TestAggregateThemes_TopTen(t *testing.T) {
	var events []*entities.Event
	for i, theme := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		for n := 0; n <= i%3; n++ {
			events = append(events, &entities.Event{Topics: theme})
		}
	}

	top := services.AggregateThemes(events).Top(10)

	require.Len(t, top, 10)
	assert.Equal(t, "c", top[0].Key)
	assert.Equal(t, 3, top[0].Count)
	assert.Equal(t, "f", top[1].Key)
}
