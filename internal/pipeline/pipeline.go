// Package pipeline orchestrates the extraction run: corpus discovery,
// biography parsing, in-text and event scanning, confidence filtering, and
// dataset assembly.
package pipeline

import (
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"

	"github.com/Feiyang472/naive-text/internal/biography"
	"github.com/Feiyang472/naive-text/internal/corpus"
	"github.com/Feiyang472/naive-text/internal/event"
	"github.com/Feiyang472/naive-text/internal/intext"
	"github.com/Feiyang472/naive-text/internal/logger"
	"github.com/Feiyang472/naive-text/internal/output"
)

// minEventFrequency is the confidence threshold: a person (or place) must
// be attested in at least this many events to be treated as structured.
const minEventFrequency = 2

// Result carries everything one extraction run produced.
type Result struct {
	Datasets    *output.Datasets
	Persons     []*biography.Person
	FailedFiles []string
	FileCount   int
}

// Extractor runs the pipeline over a corpus root.
type Extractor struct {
	workers  int
	progress bool
}

// New creates an extractor. workers <= 0 means one worker per CPU.
// showProgress controls the mpb progress bars (disabled in tests).
func New(workers int, showProgress bool) *Extractor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Extractor{workers: workers, progress: showProgress}
}

// fileResult is the per-file scan outcome; results are reordered into a
// deterministic total order before aggregation.
type fileResult struct {
	path     string
	events   []event.Event
	scopes   []event.TimeScope
	mentions []intext.Mention
}

// Run executes the full pipeline.
func (x *Extractor) Run(root string) (*Result, error) {
	// Phase 1: discover all biography files.
	bioFiles := corpus.Scan(root)
	logger.Phase("scan").Info("corpus scanned",
		zap.String("root", root), zap.Int("files", len(bioFiles)))

	// Phase 2: parse person info from each file.
	parseLog := logger.Phase("parse")
	var persons []*biography.Person
	var failed []string
	for _, bio := range bioFiles {
		if p, ok := biography.Parse(bio); ok {
			persons = append(persons, p)
		} else {
			parseLog.Debug("no header template matched", logger.File(bio.Path))
			failed = append(failed, bio.Path)
		}
	}
	parseLog.Info("biography headers parsed",
		zap.Int("persons", len(persons)), zap.Int("unparsed", len(failed)))

	// Phase 3: scan every file for events, time scopes, and name mentions.
	// Runtime-discovered surnames feed the scanners, so both are built
	// after parsing.
	eventScanner := event.NewScanner(persons)
	nameScanner := intext.NewScanner(persons)

	results := x.scanFiles(bioFiles, eventScanner, nameScanner)

	var allEvents []event.Event
	var allScopes []event.TimeScope
	for _, r := range results {
		allEvents = append(allEvents, r.events...)
		allScopes = append(allScopes, r.scopes...)
	}
	logger.Phase("extract").Info("events extracted",
		zap.Int("events", len(allEvents)), zap.Int("time_scopes", len(allScopes)))

	// Phase 4: aggregate in-text mentions (reuses the per-file scans).
	inText := aggregateMentions(results, nameScanner)

	// Phase 5: confidence filter and dataset assembly.
	structured, unstructured := splitByConfidence(allEvents)
	logger.Phase("filter").Info("confidence filter applied",
		zap.Int("structured", len(structured)),
		zap.Int("unstructured", len(unstructured)))

	summaries := make([]output.PersonSummary, 0, len(persons))
	for _, p := range persons {
		summaries = append(summaries, buildPersonSummary(p))
	}

	datasets := &output.Datasets{
		Persons: output.PersonsDoc{
			Persons:        summaries,
			InTextMentions: inText,
			EventPersons:   countEventPersons(allEvents),
		},
		Locations: aggregateLocations(allEvents),
		Events: output.EventsDoc{
			Events:             structured,
			UnstructuredEvents: unstructured,
		},
		Timeline: output.TimelineDoc{
			Timeline:  event.BuildTimeline(allScopes),
			TimeIndex: event.TimeIndex{Scopes: allScopes},
			Stats:     event.BuildStats(allEvents),
		},
	}

	return &Result{
		Datasets:    datasets,
		Persons:     persons,
		FailedFiles: failed,
		FileCount:   len(bioFiles),
	}, nil
}

// scanFiles runs the per-file scanners across a worker pool, then restores
// a deterministic order: the time-attribution and confidence phases depend
// on seeing all files' results in a stable sequence.
func (x *Extractor) scanFiles(bioFiles []corpus.BiographyFile, es *event.Scanner, ns *intext.Scanner) []fileResult {
	var bar *mpb.Bar
	var progress *mpb.Progress
	if x.progress {
		progress = mpb.New(
			mpb.WithWidth(60),
			mpb.WithRefreshRate(100*time.Millisecond),
		)
		bar = progress.AddBar(int64(len(bioFiles)),
			mpb.PrependDecorators(
				decor.Name("Scanning: ", decor.WC{W: 10, C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Percentage(decor.WC{W: 5}),
				decor.Name(" | "),
				decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}),
			),
		)
	}

	workCh := make(chan corpus.BiographyFile, x.workers)
	resultCh := make(chan fileResult, len(bioFiles))

	var wg sync.WaitGroup
	for range x.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for bio := range workCh {
				data, err := os.ReadFile(bio.Path)
				if err != nil {
					logger.Warn("failed to read corpus file",
						logger.File(bio.Path), zap.Error(err))
					if bar != nil {
						bar.Increment()
					}
					continue
				}
				content := string(data)
				events, scopes := es.ScanFile(content, bio.Source.Book, bio.Path)
				resultCh <- fileResult{
					path:     bio.Path,
					events:   events,
					scopes:   scopes,
					mentions: ns.ScanText(content, bio.Path),
				}
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}

	go func() {
		for _, bio := range bioFiles {
			workCh <- bio
		}
		close(workCh)
	}()

	wg.Wait()
	close(resultCh)
	if progress != nil {
		bar.SetTotal(int64(len(bioFiles)), true)
		progress.Wait()
	}

	results := make([]fileResult, 0, len(bioFiles))
	for r := range resultCh {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })
	return results
}

// aggregateMentions folds the per-file mention lists into the per-name
// aggregation the scanner produces for a whole corpus.
func aggregateMentions(results []fileResult, ns *intext.Scanner) []intext.Person {
	var mentions []intext.Mention
	for _, r := range results {
		mentions = append(mentions, r.mentions...)
	}
	return ns.Aggregate(mentions)
}

// countEventPersons tallies events per person name, sorted by count.
func countEventPersons(events []event.Event) []output.EventPersonCount {
	counts := make(map[string]int)
	for i := range events {
		counts[events[i].PersonName()]++
	}
	out := make([]output.EventPersonCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, output.EventPersonCount{Name: name, EventCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EventCount != out[j].EventCount {
			return out[i].EventCount > out[j].EventCount
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// personFrequencies counts, per person name, the number of events that
// name appears in across the corpus.
func personFrequencies(events []event.Event) map[string]int {
	freq := make(map[string]int)
	for i := range events {
		freq[events[i].PersonName()]++
	}
	return freq
}

// locationFrequencies counts place occurrences over the union of the
// structured place fields and the context-window locations.
func locationFrequencies(events []event.Event) map[string]int {
	freq := make(map[string]int)
	for i := range events {
		for _, name := range events[i].AllLocationNames() {
			freq[name]++
		}
	}
	return freq
}

// splitByConfidence separates high-confidence events (person attested in at
// least minEventFrequency events) from unstructured ones. High-confidence
// events keep only locations above the same threshold; a structured place
// below it is cleared.
func splitByConfidence(events []event.Event) (structured, unstructured []event.Event) {
	personFreq := personFrequencies(events)
	locFreq := locationFrequencies(events)

	for i := range events {
		e := events[i]
		if personFreq[e.PersonName()] < minEventFrequency {
			unstructured = append(unstructured, e)
			continue
		}

		var kept []event.PlaceRef
		for _, l := range e.Locations {
			if locFreq[l.Name] >= minEventFrequency {
				kept = append(kept, l)
			}
		}
		e.Locations = kept

		if p := e.StructuredPlace(); p != nil && locFreq[p.Name] < minEventFrequency {
			switch e.Kind.Type {
			case event.Appointment, event.Promotion:
				e.Kind.Place = nil
			case event.Battle:
				e.Kind.TargetPlace = nil
			}
		}

		structured = append(structured, e)
	}
	return structured, unstructured
}

// aggregateLocations builds the locations dataset from all events, sorted
// by event count descending.
func aggregateLocations(events []event.Event) []output.LocationAgg {
	byName := make(map[string]*output.LocationAgg)

	record := func(p *event.PlaceRef, e *event.Event) {
		agg := byName[p.Name]
		if agg == nil {
			agg = &output.LocationAgg{
				Name:       p.Name,
				IsQiao:     p.IsQiao,
				RoleSuffix: p.RoleSuffix,
			}
			byName[p.Name] = agg
		}
		agg.EventCount++
		agg.Sources = append(agg.Sources, output.LocationOccurrence{
			SourceFile: e.SourceFile,
			ByteOffset: e.ByteOffset,
			Time:       e.Time,
		})
	}

	for i := range events {
		e := &events[i]
		if p := e.StructuredPlace(); p != nil {
			record(p, e)
		}
		for j := range e.Locations {
			record(&e.Locations[j], e)
		}
	}

	out := make([]output.LocationAgg, 0, len(byName))
	for _, agg := range byName {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EventCount != out[j].EventCount {
			return out[i].EventCount > out[j].EventCount
		}
		return out[i].Name < out[j].Name
	})
	return out
}
