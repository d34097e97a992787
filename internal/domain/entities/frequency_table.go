package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
)

// FrequencyTable counts occurrences per key and remembers the order in
// which keys were first seen.
type FrequencyTable struct {
	counts map[string]int
	order  []string
}

// KeyCount is one row of a FrequencyTable.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: make(map[string]int)}
}

// Add increments key by one.
func (t *FrequencyTable) Add(key string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// Count returns the count for key.
func (t *FrequencyTable) Count(key string) int {
	return t.counts[key]
}

// Len returns the number of distinct keys.
func (t *FrequencyTable) Len() int {
	return len(t.order)
}

// Total returns the sum of all counts.
func (t *FrequencyTable) Total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Keys returns the keys in first-seen order.
func (t *FrequencyTable) Keys() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Map returns a plain copy of the counts.
func (t *FrequencyTable) Map() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Top returns up to n rows by descending count. Equal counts keep first-seen
// order. n <= 0 returns every row.
func (t *FrequencyTable) Top(n int) []KeyCount {
	rows := make([]KeyCount, 0, len(t.order))
	for _, k := range t.order {
		rows = append(rows, KeyCount{Key: k, Count: t.counts[k]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// MarshalJSON encodes the table as an object in first-seen key order.
func (t *FrequencyTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(t.counts[k]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object produced by MarshalJSON, keeping its key order.
func (t *FrequencyTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("frequency table must be a JSON object")
	}

	*t = FrequencyTable{counts: make(map[string]int)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var count int
		if err := dec.Decode(&count); err != nil {
			return err
		}
		if _, seen := t.counts[key]; !seen {
			t.order = append(t.order, key)
		}
		t.counts[key] = count
	}
	_, err = dec.Token()
	return err
}
