package entities

import (
	"encoding/json"
	"sort"
	"strings"
)

// CSV column names of the event data file. They are also the JSON keys
// served to clients and must not be translated.
const (
	FieldTitle   = "Otsikko"
	FieldSummary = "Tiivistelmä"
	FieldBody    = "Sisältö"
	FieldTopics  = "Aiheet"
	FieldType    = "Tyyppi"
	FieldVenue   = "Tapahtumapaikan_nimi"
)

// Event is one agricultural event row from the data file.
type Event struct {
	Title   string
	Summary string
	Body    string
	// Topics is the raw comma-separated theme list; see Themes.
	Topics string
	Type   string
	Venue  string
	// Extra holds columns outside the known schema, keyed by header name.
	Extra map[string]string
}

// NewEventFromFields builds an Event from a header-keyed row. Missing keys
// become empty strings.
func NewEventFromFields(fields map[string]string) *Event {
	e := &Event{}
	for key, value := range fields {
		e.Set(key, value)
	}
	return e
}

// Set assigns a column value by its header name.
func (e *Event) Set(column, value string) {
	switch column {
	case FieldTitle:
		e.Title = value
	case FieldSummary:
		e.Summary = value
	case FieldBody:
		e.Body = value
	case FieldTopics:
		e.Topics = value
	case FieldType:
		e.Type = value
	case FieldVenue:
		e.Venue = value
	default:
		if e.Extra == nil {
			e.Extra = make(map[string]string)
		}
		e.Extra[column] = value
	}
}

// Themes splits Topics on commas, trimming whitespace and dropping empty segments.
func (e *Event) Themes() []string {
	if e == nil || e.Topics == "" {
		return nil
	}
	parts := strings.Split(e.Topics, ",")
	themes := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			themes = append(themes, part)
		}
	}
	return themes
}

// SearchableText returns the fields free-text search runs against.
func (e *Event) SearchableText() [4]string {
	return [4]string{e.Title, e.Summary, e.Body, e.Topics}
}

// MarshalJSON emits the known columns under their source names followed by
// any extra columns in key order.
func (e Event) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')

	write := func(key, value string) error {
		if b.Len() > 1 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
		return nil
	}

	known := [][2]string{
		{FieldTitle, e.Title},
		{FieldSummary, e.Summary},
		{FieldBody, e.Body},
		{FieldTopics, e.Topics},
		{FieldType, e.Type},
		{FieldVenue, e.Venue},
	}
	for _, kv := range known {
		if err := write(kv[0], kv[1]); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(e.Extra))
	for k := range e.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := write(k, e.Extra[k]); err != nil {
			return nil, err
		}
	}

	b.WriteByte('}')
	return []byte(b.String()), nil
}

// UnmarshalJSON accepts the same flat object MarshalJSON produces.
func (e *Event) UnmarshalJSON(data []byte) error {
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*e = *NewEventFromFields(fields)
	return nil
}
