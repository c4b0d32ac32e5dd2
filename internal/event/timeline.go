package event

import (
	"fmt"
	"sort"

	"github.com/Feiyang472/naive-text/internal/regime"
)

// TimeIndex is the corpus-wide ordered list of time scopes.
type TimeIndex struct {
	Scopes []TimeScope `json:"scopes"`
}

// Query returns the scopes matching an era name and, when given, a year.
func (idx *TimeIndex) Query(era string, year *int) []TimeScope {
	var out []TimeScope
	for _, s := range idx.Scopes {
		if s.Time.Era == era && (year == nil || s.Time.Year == *year) {
			out = append(out, s)
		}
	}
	return out
}

// QueryRange returns the scopes of one era with year in [from, to].
func (idx *TimeIndex) QueryRange(era string, from, to int) []TimeScope {
	var out []TimeScope
	for _, s := range idx.Scopes {
		if s.Time.Era == era && s.Time.Year >= from && s.Time.Year <= to {
			out = append(out, s)
		}
	}
	return out
}

// QueryRegime returns all scopes of one regime.
func (idx *TimeIndex) QueryRegime(reg string) []TimeScope {
	var out []TimeScope
	for _, s := range idx.Scopes {
		if s.Time.Regime == reg {
			out = append(out, s)
		}
	}
	return out
}

// QueryAD returns all scopes whose exact AD year equals year.
func (idx *TimeIndex) QueryAD(year int) []TimeScope {
	return idx.QueryADRange(year, year)
}

// QueryADRange returns all scopes whose exact AD year lies in [from, to].
// Scopes whose (regime, era) is not in the catalogue never match.
func (idx *TimeIndex) QueryADRange(from, to int) []TimeScope {
	var out []TimeScope
	for _, s := range idx.Scopes {
		ad, ok := regime.ExactADYear(regime.Regime(s.Time.Regime), s.Time.Era, s.Time.Year)
		if ok && ad >= from && ad <= to {
			out = append(out, s)
		}
	}
	return out
}

// TimePoint is one observed (era, year) with its source files.
type TimePoint struct {
	Era  string `json:"era"`
	Year int    `json:"year"`
	// OccurrenceCount is the number of distinct source files in which the
	// (regime, era, year) triple appears.
	OccurrenceCount int      `json:"occurrence_count"`
	Files           []string `json:"files"`
}

// EraTimeline collects the observed years of one era under one regime.
type EraTimeline struct {
	Era   string      `json:"era"`
	Years []TimePoint `json:"years"`
}

// RegimeTimeline collects the observed eras of one regime.
type RegimeTimeline struct {
	Regime string        `json:"regime"`
	Eras   []EraTimeline `json:"eras"`
}

// Timeline is the full corpus chronological inventory: regimes in AD order,
// eras in catalogue order within each regime, years ascending.
type Timeline struct {
	Regimes []RegimeTimeline `json:"regimes"`
	// TotalTimePoints is the count of distinct (regime, era, year) triples.
	TotalTimePoints int `json:"total_time_points"`
}

// BuildTimeline aggregates all collected scopes into a Timeline.
func BuildTimeline(scopes []TimeScope) Timeline {
	type key struct {
		regime, era string
		year        int
	}
	files := make(map[key][]string)
	for _, s := range scopes {
		k := key{s.Time.Regime, s.Time.Era, s.Time.Year}
		f := s.Span.File
		found := false
		for _, existing := range files[k] {
			if existing == f {
				found = true
				break
			}
		}
		if !found {
			files[k] = append(files[k], f)
		}
	}

	regimeEras := make(map[string]map[string][]TimePoint)
	for k, fs := range files {
		eras := regimeEras[k.regime]
		if eras == nil {
			eras = make(map[string][]TimePoint)
			regimeEras[k.regime] = eras
		}
		eras[k.era] = append(eras[k.era], TimePoint{
			Era:             k.era,
			Year:            k.year,
			OccurrenceCount: len(fs),
			Files:           fs,
		})
	}

	regimes := make([]RegimeTimeline, 0, len(regimeEras))
	for reg, eraMap := range regimeEras {
		eras := make([]EraTimeline, 0, len(eraMap))
		for era, years := range eraMap {
			sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })
			for _, tp := range years {
				sort.Strings(tp.Files)
			}
			eras = append(eras, EraTimeline{Era: era, Years: years})
		}
		sort.Slice(eras, func(i, j int) bool {
			return regime.EraSortKey(regime.Regime(reg), eras[i].Era) <
				regime.EraSortKey(regime.Regime(reg), eras[j].Era)
		})
		regimes = append(regimes, RegimeTimeline{Regime: reg, Eras: eras})
	}
	sort.Slice(regimes, func(i, j int) bool {
		si := regime.StartAD(regime.Regime(regimes[i].Regime))
		sj := regime.StartAD(regime.Regime(regimes[j].Regime))
		if si != sj {
			return si < sj
		}
		return regimes[i].Regime < regimes[j].Regime
	})

	return Timeline{Regimes: regimes, TotalTimePoints: len(files)}
}

// PlaceCount pairs a place name with its frequency.
type PlaceCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarizes an extraction run.
type Stats struct {
	TotalEvents  int `json:"total_events"`
	Appointments int `json:"appointments"`
	Promotions   int `json:"promotions"`
	Accessions   int `json:"accessions"`
	Battles      int `json:"battles"`
	Deaths       int `json:"deaths"`
	// UniqueTimeRefs counts distinct era+year strings over timed events.
	UniqueTimeRefs int `json:"unique_time_refs"`
	UniquePlaces   int `json:"unique_places"`
	// EraDistribution is keyed by "regime/era".
	EraDistribution map[string]int `json:"era_distribution"`
	// TopPlaces holds the 30 most frequent structured places.
	TopPlaces []PlaceCount `json:"top_places"`
}

const topPlaceLimit = 30

// BuildStats computes summary statistics over all extracted events.
func BuildStats(events []Event) Stats {
	stats := Stats{EraDistribution: make(map[string]int)}
	placeCounts := make(map[string]int)
	timeSet := make(map[string]bool)

	for i := range events {
		e := &events[i]
		switch e.Kind.Type {
		case Appointment:
			stats.Appointments++
		case Promotion:
			stats.Promotions++
		case Accession:
			stats.Accessions++
		case Battle:
			stats.Battles++
		case Death:
			stats.Deaths++
		}
		if p := e.StructuredPlace(); p != nil {
			placeCounts[p.Name]++
		}
		if e.Time != nil {
			stats.EraDistribution[e.Time.Regime+"/"+e.Time.Era]++
			timeSet[fmt.Sprintf("%s%d", e.Time.Era, e.Time.Year)] = true
		}
	}

	top := make([]PlaceCount, 0, len(placeCounts))
	for name, count := range placeCounts {
		top = append(top, PlaceCount{Name: name, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > topPlaceLimit {
		top = top[:topPlaceLimit]
	}

	stats.TotalEvents = len(events)
	stats.UniqueTimeRefs = len(timeSet)
	stats.TopPlaces = top
	stats.UniquePlaces = len(top)
	return stats
}
