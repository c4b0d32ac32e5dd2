// Package output defines the four emitted JSON datasets and their
// serialization. The query service consumes these documents read-only.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Feiyang472/naive-text/internal/event"
	"github.com/Feiyang472/naive-text/internal/intext"
)

const (
	PersonsFile   = "persons.json"
	LocationsFile = "locations.json"
	EventsFile    = "events.json"
	TimelineFile  = "timeline.json"
)

// ErrNotExtracted signals that the output directory holds no usable
// dataset; the user must run extract first.
var ErrNotExtracted = errors.New("output dataset missing or unreadable; run 'extract' first")

// RefStats records how a person is referred to in their own biography.
type RefStats struct {
	// AliasCounts maps each alias to its occurrence count in the text.
	AliasCounts map[string]int `json:"alias_counts"`
	TotalLines  int            `json:"total_lines"`
}

// PersonSummary is the emitted form of a parsed biography subject.
type PersonSummary struct {
	DisplayName  string   `json:"display_name"`
	Book         string   `json:"book"`
	Section      string   `json:"section"`
	Kind         string   `json:"kind"`
	Aliases      []string `json:"aliases"`
	RefStats     RefStats `json:"ref_stats"`
	CourtesyName *string  `json:"courtesy_name,omitempty"`
	Origin       *string  `json:"origin,omitempty"`
	File         string   `json:"file"`
}

// EventPersonCount pairs a person name with its corpus-wide event count.
type EventPersonCount struct {
	Name       string `json:"name"`
	EventCount int    `json:"event_count"`
}

// PersonsDoc is persons.json.
type PersonsDoc struct {
	Persons        []PersonSummary    `json:"persons"`
	InTextMentions []intext.Person    `json:"in_text_mentions"`
	EventPersons   []EventPersonCount `json:"event_persons"`
}

// LocationOccurrence is one sighting of a place in an event.
type LocationOccurrence struct {
	SourceFile string         `json:"source_file"`
	ByteOffset int            `json:"byte_offset"`
	Time       *event.TimeRef `json:"time,omitempty"`
}

// LocationAgg aggregates all occurrences of one place, locations.json is
// the list sorted by event count descending.
type LocationAgg struct {
	Name       string               `json:"name"`
	IsQiao     bool                 `json:"is_qiao"`
	RoleSuffix *string              `json:"role_suffix,omitempty"`
	EventCount int                  `json:"event_count"`
	Sources    []LocationOccurrence `json:"sources"`
}

// EventsDoc is events.json.
type EventsDoc struct {
	Events             []event.Event `json:"events"`
	UnstructuredEvents []event.Event `json:"unstructured_events"`
}

// TimelineDoc is timeline.json.
type TimelineDoc struct {
	Timeline  event.Timeline  `json:"timeline"`
	TimeIndex event.TimeIndex `json:"time_index"`
	Stats     event.Stats     `json:"stats"`
}

// Datasets bundles the four documents of one extraction run.
type Datasets struct {
	Persons   PersonsDoc
	Locations []LocationAgg
	Events    EventsDoc
	Timeline  TimelineDoc
}

// Write emits the four documents into dir, creating it if needed. Any
// write failure is fatal to the extraction run.
func (d *Datasets) Write(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files := []struct {
		name string
		data any
	}{
		{PersonsFile, &d.Persons},
		{LocationsFile, d.Locations},
		{EventsFile, &d.Events},
		{TimelineFile, &d.Timeline},
	}
	for _, f := range files {
		if err := writeJSON(filepath.Join(dir, f.name), f.data); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the four documents back from dir. A missing or unparseable
// file yields ErrNotExtracted so callers can tell the user to run extract.
func Load(dir string) (*Datasets, error) {
	var d Datasets
	if err := readJSON(filepath.Join(dir, PersonsFile), &d.Persons); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotExtracted, err)
	}
	if err := readJSON(filepath.Join(dir, LocationsFile), &d.Locations); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotExtracted, err)
	}
	if err := readJSON(filepath.Join(dir, EventsFile), &d.Events); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotExtracted, err)
	}
	if err := readJSON(filepath.Join(dir, TimelineFile), &d.Timeline); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotExtracted, err)
	}
	return &d, nil
}

func writeJSON(path string, data any) error {
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, out any) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
