package filestore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zatekoja/agrievents/internal/domain/entities"
	"github.com/zatekoja/agrievents/internal/domain/repositories"
	apperrors "github.com/zatekoja/agrievents/pkg/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVEventAdapter reads every event from a delimited file on each call.
type CSVEventAdapter struct {
	path      string
	delimiter rune
}

var _ repositories.EventRepository = (*CSVEventAdapter)(nil)

// NewCSVEventAdapter creates an adapter for the file at path.
func NewCSVEventAdapter(path string, delimiter rune) *CSVEventAdapter {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVEventAdapter{path: path, delimiter: delimiter}
}

// Path returns the file the adapter reads.
func (a *CSVEventAdapter) Path() string {
	return a.path
}

// List opens and parses the whole file.
func (a *CSVEventAdapter) List(ctx context.Context) ([]*entities.Event, error) {
	f, err := os.Open(a.path)
	if err != nil {
		return nil, apperrors.NewDataUnavailableError("events file is unavailable", err)
	}
	defer f.Close()

	events, err := ParseEvents(ctx, f, a.delimiter)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ParseEvents reads a header row followed by data rows. Short rows leave the
// missing columns empty; cells past the header are ignored.
func ParseEvents(ctx context.Context, r io.Reader, delimiter rune) ([]*entities.Event, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []*entities.Event{}, nil
	}
	if err != nil {
		return nil, apperrors.NewDataUnavailableError("events file header is malformed", err)
	}
	columns := normalizeHeader(header)

	events := []*entities.Event{}
	for row := 1; ; row++ {
		if row%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewDataUnavailableError(fmt.Sprintf("events file row %d is malformed", row), err)
		}

		event := &entities.Event{}
		for i, column := range columns {
			if column == "" {
				continue
			}
			value := ""
			if i < len(record) {
				value = record[i]
			}
			event.Set(column, value)
		}
		events = append(events, event)
	}

	return events, nil
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}
	return columns
}
