package query

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Feiyang472/naive-text/internal/event"
	"github.com/Feiyang472/naive-text/internal/output"
	"github.com/Feiyang472/naive-text/internal/regime"
	"github.com/Feiyang472/naive-text/internal/textwin"
)

// DefaultStalenessYears bounds how far back a person's last sighting may be
// for the locate query to still report them. Heuristic; configurable.
const DefaultStalenessYears = 30

const untimedSortKey = 1 << 30

// Service answers queries against one emitted dataset.
type Service struct {
	data *output.Datasets
}

// NewService wraps a loaded dataset.
func NewService(data *output.Datasets) *Service {
	return &Service{data: data}
}

// Load reads the dataset from dir and wraps it.
func Load(dir string) (*Service, error) {
	data, err := output.Load(dir)
	if err != nil {
		return nil, err
	}
	return NewService(data), nil
}

// Timeline returns the emitted chronological inventory.
func (s *Service) Timeline() event.Timeline {
	return s.data.Timeline.Timeline
}

// ScopeText reads the raw source text governed by a scope.
func (s *Service) ScopeText(scope event.TimeScope) (string, error) {
	data, err := os.ReadFile(scope.Span.File)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", scope.Span.File, err)
	}
	start := scope.Span.ByteStart
	end := scope.Span.ByteEnd
	if start > len(data) {
		start = len(data)
	}
	if end > len(data) {
		end = len(data)
	}
	return string(data[start:end]), nil
}

// Scopes returns the time scopes matching an expression.
func (s *Service) Scopes(expr *Expr) []event.TimeScope {
	idx := &s.data.Timeline.TimeIndex
	switch expr.Kind {
	case Single:
		return idx.Query(expr.Era, expr.Year)
	case Range:
		return idx.QueryRange(expr.Era, expr.YearFrom, expr.YearTo)
	case ByRegime:
		return idx.QueryRegime(expr.Regime)
	case ADYear:
		return idx.QueryAD(expr.AD)
	case ADRange:
		return idx.QueryADRange(expr.ADFrom, expr.ADTo)
	}
	return nil
}

// matchesTime reports whether a time reference satisfies the expression.
func matchesTime(expr *Expr, t *event.TimeRef) bool {
	if t == nil {
		return false
	}
	switch expr.Kind {
	case Single:
		return t.Era == expr.Era && (expr.Year == nil || t.Year == *expr.Year)
	case Range:
		return t.Era == expr.Era && t.Year >= expr.YearFrom && t.Year <= expr.YearTo
	case ByRegime:
		return t.Regime == expr.Regime
	case ADYear, ADRange:
		ad, ok := adYearOf(t)
		if !ok {
			return false
		}
		if expr.Kind == ADYear {
			return ad == expr.AD
		}
		return ad >= expr.ADFrom && ad <= expr.ADTo
	}
	return false
}

// Events returns the structured and unstructured events whose time matches
// the expression.
func (s *Service) Events(expr *Expr) []event.Event {
	var out []event.Event
	for _, pool := range [][]event.Event{s.data.Events.Events, s.data.Events.UnstructuredEvents} {
		for i := range pool {
			if matchesTime(expr, pool[i].Time) {
				out = append(out, pool[i])
			}
		}
	}
	return out
}

// AvailableEras lists the distinct "regime/era" keys present in the
// dataset, for no-match diagnostics.
func (s *Service) AvailableEras() []string {
	seen := make(map[string]bool)
	var out []string
	for _, rt := range s.data.Timeline.Timeline.Regimes {
		for _, et := range rt.Eras {
			key := rt.Regime + "/" + et.Era
			if !seen[key] {
				seen[key] = true
				out = append(out, key)
			}
		}
	}
	sort.Strings(out)
	return out
}

func adYearOf(t *event.TimeRef) (int, bool) {
	return regime.ExactADYear(regime.Regime(t.Regime), t.Era, t.Year)
}

// cutoffAD is the latest AD year among the expression's matches; the
// locate walk stops there. Deriving it from the dataset (rather than the
// catalogue) keeps ambiguous era names bound to the regime the matches
// actually carry. False when nothing matching resolves to an AD year.
func (s *Service) cutoffAD(expr *Expr) (int, bool) {
	switch expr.Kind {
	case ADYear:
		return expr.AD, true
	case ADRange:
		return expr.ADTo, true
	}

	best := 0
	for _, sc := range s.Scopes(expr) {
		if ad, ok := adYearOf(&sc.Time); ok && ad > best {
			best = ad
		}
	}
	for _, e := range s.Events(expr) {
		if ad, ok := adYearOf(e.Time); ok && ad > best {
			best = ad
		}
	}
	return best, best > 0
}

// LocatedPerson is one entry of the locate query output.
type LocatedPerson struct {
	Person   string `json:"person"`
	Location string `json:"location"`
	// Status is "current" when the location was recorded at the cutoff
	// year, else "last_known".
	Status     string `json:"status"`
	LastSeenAD int    `json:"last_seen_ad"`
}

// Locate walks all timed events chronologically up to the expression's
// latest matching AD year and reports where each person was last placed.
// stalenessYears bounds how old a sighting may be; <= 0 uses the default.
func (s *Service) Locate(expr *Expr, stalenessYears int) []LocatedPerson {
	if stalenessYears <= 0 {
		stalenessYears = DefaultStalenessYears
	}
	cutoff, ok := s.cutoffAD(expr)
	if !ok {
		return nil
	}

	type timed struct {
		ad int
		ev *event.Event
	}
	var walk []timed
	personFreq := make(map[string]int)
	for _, pool := range [][]event.Event{s.data.Events.Events, s.data.Events.UnstructuredEvents} {
		for i := range pool {
			e := &pool[i]
			personFreq[e.PersonName()]++
			if e.Time == nil {
				continue
			}
			if ad, ok := adYearOf(e.Time); ok && ad <= cutoff {
				walk = append(walk, timed{ad: ad, ev: e})
			}
		}
	}
	sort.SliceStable(walk, func(i, j int) bool { return walk[i].ad < walk[j].ad })

	type track struct {
		location   string
		locationAD int
		lastSeenAD int
		dead       bool
	}
	state := make(map[string]*track)

	for _, w := range walk {
		name := w.ev.PersonName()
		tr := state[name]
		if tr == nil {
			tr = &track{}
			state[name] = tr
		}
		tr.lastSeenAD = w.ad

		switch w.ev.Kind.Type {
		case event.Death:
			tr.dead = true
		default:
			if p := w.ev.StructuredPlace(); p != nil {
				tr.location = p.Name
				tr.locationAD = w.ad
			} else if tr.location == "" && len(w.ev.Locations) > 0 {
				tr.location = w.ev.Locations[0].Name
				tr.locationAD = w.ad
			}
		}
	}

	var out []LocatedPerson
	for name, tr := range state {
		if tr.dead || tr.location == "" {
			continue
		}
		if cutoff-tr.lastSeenAD > stalenessYears {
			continue
		}
		if personFreq[name] < 2 {
			continue
		}
		status := "last_known"
		if tr.locationAD == cutoff {
			status = "current"
		}
		out = append(out, LocatedPerson{
			Person:     name,
			Location:   tr.location,
			Status:     status,
			LastSeenAD: tr.lastSeenAD,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Person < out[j].Person })
	return out
}

// PersonEvent is one entry of the per-person event timeline.
type PersonEvent struct {
	Kind     string         `json:"kind"`
	Detail   string         `json:"detail"`
	Time     *event.TimeRef `json:"time,omitempty"`
	ADYear   *int           `json:"ad_year,omitempty"`
	Location *string        `json:"location,omitempty"`
	Source   string         `json:"source"`
	Snippet  string         `json:"snippet"`
}

// PersonResult is the person query output: either a timeline of events or,
// when nothing matched, candidate name suggestions.
type PersonResult struct {
	Name       string        `json:"name"`
	Events     []PersonEvent `json:"events,omitempty"`
	Candidates []string      `json:"candidates,omitempty"`
}

const (
	maxCandidates = 8
	snippetRadius = 120
)

// Person returns the chronological event timeline of one exactly-named
// person, with text excerpts read from the source files. Untimed events
// sort last. When no events match, up to eight candidate names are offered
// ranked by shared-character count.
func (s *Service) Person(name string) PersonResult {
	var matched []*event.Event
	for _, pool := range [][]event.Event{s.data.Events.Events, s.data.Events.UnstructuredEvents} {
		for i := range pool {
			if pool[i].PersonName() == name {
				matched = append(matched, &pool[i])
			}
		}
	}

	if len(matched) == 0 {
		return PersonResult{Name: name, Candidates: s.candidates(name)}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return personSortKey(matched[i]) < personSortKey(matched[j])
	})

	events := make([]PersonEvent, 0, len(matched))
	for _, e := range matched {
		pe := PersonEvent{
			Kind:    e.KindZh(),
			Detail:  e.Detail(),
			Time:    e.Time,
			Source:  e.SourceFile,
			Snippet: readSnippet(e.SourceFile, e.ByteOffset),
		}
		if e.Time != nil {
			if ad, ok := adYearOf(e.Time); ok {
				pe.ADYear = &ad
			}
		}
		if p := e.StructuredPlace(); p != nil {
			loc := p.Name
			pe.Location = &loc
		}
		events = append(events, pe)
	}
	return PersonResult{Name: name, Events: events}
}

func personSortKey(e *event.Event) int {
	if e.Time == nil {
		return untimedSortKey
	}
	if ad, ok := adYearOf(e.Time); ok {
		return ad
	}
	return untimedSortKey
}

// readSnippet reads a generous excerpt around the event offset, snapped to
// rune boundaries. Unreadable files yield an empty snippet rather than an
// error: the snippet is display-only.
func readSnippet(path string, byteOffset int) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return textwin.Snippet(string(data), byteOffset, snippetRadius)
}

// candidates ranks event-person names by how many characters they share
// with the query, event count breaking ties.
func (s *Service) candidates(name string) []string {
	queryRunes := make(map[rune]bool)
	for _, r := range name {
		queryRunes[r] = true
	}

	type scored struct {
		name   string
		shared int
		count  int
	}
	var all []scored
	for _, ep := range s.data.Persons.EventPersons {
		shared := 0
		for _, r := range ep.Name {
			if queryRunes[r] {
				shared++
			}
		}
		if shared > 0 {
			all = append(all, scored{name: ep.Name, shared: shared, count: ep.EventCount})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].shared != all[j].shared {
			return all[i].shared > all[j].shared
		}
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return strings.Compare(all[i].name, all[j].name) < 0
	})

	out := make([]string, 0, maxCandidates)
	for _, c := range all {
		if len(out) == maxCandidates {
			break
		}
		out = append(out, c.name)
	}
	return out
}
