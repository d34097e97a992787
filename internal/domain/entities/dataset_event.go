package entities

import "time"

// DatasetEventType identifies what happened to the event data file
type DatasetEventType string

const (
	// DatasetEventChanged is published when the data file was written, replaced or removed
	DatasetEventChanged DatasetEventType = "dataset_changed"
)

// DatasetEvent notifies other instances that cached event data is stale
type DatasetEvent struct {
	ID        string           `json:"id"`
	EventType DatasetEventType `json:"event_type"`
	Path      string           `json:"path"`
	Timestamp time.Time        `json:"timestamp"`
}
