package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Feiyang472/naive-text/internal/event"
	"github.com/Feiyang472/naive-text/internal/logger"
	"github.com/Feiyang472/naive-text/internal/output"
	"github.com/Feiyang472/naive-text/internal/regime"
)

const insertBatchSize = 500

// Store wraps a SQLite database holding one exported dataset.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&PersonRow{}, &EventRow{}, &TimePointRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying gorm handle (tests, ad-hoc queries).
func (s *Store) DB() *gorm.DB { return s.db }

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Export writes a full dataset into the database using batched
// transactional inserts. showProgress controls the mpb bar.
func (s *Store) Export(data *output.Datasets, showProgress bool) error {
	persons := personRows(data)
	events := eventRows(data)
	points := timePointRows(data)

	total := len(persons) + len(events) + len(points)
	var bar *mpb.Bar
	var progress *mpb.Progress
	if showProgress {
		progress = mpb.New(
			mpb.WithWidth(60),
			mpb.WithRefreshRate(100*time.Millisecond),
		)
		bar = progress.AddBar(int64(total),
			mpb.PrependDecorators(
				decor.Name("Exporting: ", decor.WC{W: 11, C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(decor.Percentage(decor.WC{W: 5})),
		)
	}

	logger.Phase("export").Info("exporting dataset to sqlite",
		zap.Int("persons", len(persons)),
		zap.Int("events", len(events)),
		zap.Int("time_points", len(points)))

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := batchInsert(tx, persons, bar); err != nil {
			return fmt.Errorf("failed to insert persons: %w", err)
		}
		if err := batchInsert(tx, events, bar); err != nil {
			return fmt.Errorf("failed to insert events: %w", err)
		}
		if err := batchInsert(tx, points, bar); err != nil {
			return fmt.Errorf("failed to insert time points: %w", err)
		}
		return nil
	})

	if progress != nil {
		bar.SetTotal(int64(total), true)
		progress.Wait()
	}
	return err
}

func batchInsert[T any](tx *gorm.DB, rows []T, bar *mpb.Bar) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))
		batch := rows[start:end]
		if err := tx.CreateInBatches(&batch, insertBatchSize).Error; err != nil {
			return err
		}
		if bar != nil {
			bar.IncrBy(len(batch))
		}
	}
	return nil
}

func mustJSON(v any) []byte {
	buf, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return buf
}

func personRows(data *output.Datasets) []PersonRow {
	rows := make([]PersonRow, 0, len(data.Persons.Persons))
	for _, p := range data.Persons.Persons {
		rows = append(rows, PersonRow{
			DisplayName: p.DisplayName,
			Book:        p.Book,
			Section:     p.Section,
			Kind:        p.Kind,
			Aliases:     mustJSON(p.Aliases),
			File:        p.File,
		})
	}
	return rows
}

func eventRow(e *event.Event, structured bool) EventRow {
	row := EventRow{
		Type:       string(e.Kind.Type),
		Person:     e.Kind.Person,
		Verb:       e.Kind.Verb,
		Detail:     e.Detail(),
		SourceFile: e.SourceFile,
		ByteOffset: e.ByteOffset,
		Context:    e.Context,
		Locations:  mustJSON(e.AllLocationNames()),
		Structured: structured,
	}
	if p := e.StructuredPlace(); p != nil {
		row.Place = p.Name
	}
	if e.Time != nil {
		row.Era = e.Time.Era
		row.Regime = e.Time.Regime
		row.Year = e.Time.Year
		if ad, ok := regime.ExactADYear(regime.Regime(e.Time.Regime), e.Time.Era, e.Time.Year); ok {
			row.ADYear = &ad
		}
	}
	return row
}

func eventRows(data *output.Datasets) []EventRow {
	rows := make([]EventRow, 0,
		len(data.Events.Events)+len(data.Events.UnstructuredEvents))
	for i := range data.Events.Events {
		rows = append(rows, eventRow(&data.Events.Events[i], true))
	}
	for i := range data.Events.UnstructuredEvents {
		rows = append(rows, eventRow(&data.Events.UnstructuredEvents[i], false))
	}
	return rows
}

func timePointRows(data *output.Datasets) []TimePointRow {
	var rows []TimePointRow
	for _, rt := range data.Timeline.Timeline.Regimes {
		for _, et := range rt.Eras {
			for _, tp := range et.Years {
				row := TimePointRow{
					Regime:          rt.Regime,
					Era:             et.Era,
					Year:            tp.Year,
					OccurrenceCount: tp.OccurrenceCount,
					Files:           mustJSON(tp.Files),
				}
				if ad, ok := regime.ExactADYear(regime.Regime(rt.Regime), et.Era, tp.Year); ok {
					row.ADYear = &ad
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}
