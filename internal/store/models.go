// Package store exports the extracted dataset into a SQLite database for
// downstream tooling that prefers SQL over the JSON documents.
package store

import "gorm.io/datatypes"

// PersonRow is one biography subject.
type PersonRow struct {
	ID          int64          `gorm:"primaryKey"`
	DisplayName string         `gorm:"index;not null"`
	Book        string         `gorm:"index"`
	Section     string         `gorm:"index"`
	Kind        string         `gorm:"index"`
	Aliases     datatypes.JSON // JSON array of alias strings
	File        string
}

// TableName overrides the default pluralization.
func (PersonRow) TableName() string { return "persons" }

// EventRow is one extracted event, flattened for querying.
type EventRow struct {
	ID         int64  `gorm:"primaryKey"`
	Type       string `gorm:"index;not null"`
	Person     string `gorm:"index;not null"`
	Verb       string
	Detail     string
	Place      string `gorm:"index"`
	Era        string `gorm:"index"`
	Regime     string `gorm:"index"`
	Year       int
	ADYear     *int `gorm:"index"`
	SourceFile string
	ByteOffset int
	Context    string
	Locations  datatypes.JSON // JSON array of context place names
	Structured bool           `gorm:"index"`
}

// TableName overrides the default pluralization.
func (EventRow) TableName() string { return "events" }

// TimePointRow is one distinct (regime, era, year) triple.
type TimePointRow struct {
	ID              int64  `gorm:"primaryKey"`
	Regime          string `gorm:"index;not null"`
	Era             string `gorm:"index;not null"`
	Year            int
	ADYear          *int `gorm:"index"`
	OccurrenceCount int
	Files           datatypes.JSON // JSON array of source files
}

// TableName overrides the default pluralization.
func (TimePointRow) TableName() string { return "time_points" }
