package filestore

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/agrievents/internal/domain/entities"
	"github.com/zatekoja/agrievents/internal/domain/repositories"
)

type fileStamp struct {
	modTime time.Time
	size    int64
}

// CachedEventAdapter keeps the last parse of the data file and serves it
// while the file's modification time and size are unchanged.
// Returned events are shared between callers and must not be mutated.
type CachedEventAdapter struct {
	source repositories.EventRepository
	path   string
	stat   func(string) (os.FileInfo, error)

	mu       sync.Mutex
	snapshot []*entities.Event
	stamp    fileStamp
	valid    bool
}

var _ repositories.EventRepository = (*CachedEventAdapter)(nil)

// NewCachedEventAdapter wraps source, using path to detect changes.
func NewCachedEventAdapter(source repositories.EventRepository, path string) *CachedEventAdapter {
	return &CachedEventAdapter{
		source: source,
		path:   path,
		stat:   os.Stat,
	}
}

// List returns the cached events, re-reading the source when the file changed.
func (a *CachedEventAdapter) List(ctx context.Context) ([]*entities.Event, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	info, err := a.stat(a.path)
	if err != nil {
		a.valid = false
		a.snapshot = nil
		return a.source.List(ctx)
	}
	current := fileStamp{modTime: info.ModTime(), size: info.Size()}

	if a.valid && current == a.stamp {
		return cloneEvents(a.snapshot), nil
	}

	events, err := a.source.List(ctx)
	if err != nil {
		a.valid = false
		a.snapshot = nil
		return nil, err
	}

	// The stamp taken before the read is kept, so a write racing the read
	// causes another read on the next call.
	a.snapshot = events
	a.stamp = current
	a.valid = true
	log.Debug().Str("path", a.path).Int("events", len(events)).Msg("event cache refreshed")

	return cloneEvents(events), nil
}

// Invalidate drops the cached snapshot.
func (a *CachedEventAdapter) Invalidate() {
	a.mu.Lock()
	a.valid = false
	a.snapshot = nil
	a.mu.Unlock()
}

func cloneEvents(events []*entities.Event) []*entities.Event {
	out := make([]*entities.Event, len(events))
	copy(out, events)
	return out
}
