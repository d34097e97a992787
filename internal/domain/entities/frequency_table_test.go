package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyTable_TopBreaksTiesByFirstSeen(t *testing.T) {
	table := NewFrequencyTable()
	for _, k := range []string{"Water", "Soil", "Forest", "Soil", "Forest", "Bees"} {
		table.Add(k)
	}

	assert.Equal(t, []KeyCount{
		{Key: "Soil", Count: 2},
		{Key: "Forest", Count: 2},
		{Key: "Water", Count: 1},
	}, table.Top(3))
	assert.Len(t, table.Top(0), 4)
	assert.Equal(t, 6, table.Total())
	assert.Equal(t, []string{"Water", "Soil", "Forest", "Bees"}, table.Keys())
}

func TestFrequencyTable_JSONKeepsFirstSeenOrder(t *testing.T) {
	table := NewFrequencyTable()
	table.Add("Vesi")
	table.Add("Maaperä")
	table.Add("Vesi")

	raw, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Equal(t, `{"Vesi":2,"Maaperä":1}`, string(raw))

	var back FrequencyTable
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, []string{"Vesi", "Maaperä"}, back.Keys())
	assert.Equal(t, 2, back.Count("Vesi"))
}

func TestFrequencyTable_EmptyEncodesAsObject(t *testing.T) {
	raw, err := json.Marshal(NewFrequencyTable())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))
}
