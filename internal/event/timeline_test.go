package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scope(file, reg, era string, year, start, end int) TimeScope {
	return TimeScope{
		Time: TimeRef{Era: era, Regime: reg, Year: year, ByteOffset: start,
			Raw: era + "年"},
		Span: TextSpan{File: file, ByteStart: start, ByteEnd: end},
	}
}

func sampleScopes() []TimeScope {
	return []TimeScope{
		scope("a.txt", "劉宋", "元嘉", 3, 0, 50),
		scope("a.txt", "劉宋", "元嘉", 5, 50, 90),
		scope("b.txt", "劉宋", "元嘉", 3, 0, 40),
		scope("b.txt", "劉宋", "永初", 1, 40, 80),
		scope("c.txt", "北魏", "太和", 10, 0, 60),
	}
}

func TestBuildTimelineCounts(t *testing.T) {
	tl := BuildTimeline(sampleScopes())

	// Distinct (regime, era, year) triples: 元嘉3, 元嘉5, 永初1, 太和10.
	assert.Equal(t, 4, tl.TotalTimePoints)

	// Regimes in AD order: 北魏 (386) before 劉宋 (420).
	require.Len(t, tl.Regimes, 2)
	assert.Equal(t, "北魏", tl.Regimes[0].Regime)
	assert.Equal(t, "劉宋", tl.Regimes[1].Regime)

	// Eras within 劉宋 in catalogue order: 永初 before 元嘉.
	song := tl.Regimes[1]
	require.Len(t, song.Eras, 2)
	assert.Equal(t, "永初", song.Eras[0].Era)
	assert.Equal(t, "元嘉", song.Eras[1].Era)

	// 元嘉3 appears in two files.
	yuanjia := song.Eras[1]
	require.Len(t, yuanjia.Years, 2)
	assert.Equal(t, 3, yuanjia.Years[0].Year)
	assert.Equal(t, 2, yuanjia.Years[0].OccurrenceCount)
	assert.Equal(t, 5, yuanjia.Years[1].Year)
}

func TestTimeIndexQuery(t *testing.T) {
	idx := TimeIndex{Scopes: sampleScopes()}

	assert.Len(t, idx.Query("元嘉", nil), 3)
	year := 3
	assert.Len(t, idx.Query("元嘉", &year), 2)

	// Single-year query is a refinement of the era query.
	all := idx.Query("元嘉", nil)
	sub := idx.Query("元嘉", &year)
	for _, s := range sub {
		assert.Contains(t, all, s)
	}
}

func TestTimeIndexQueryRangeCollapse(t *testing.T) {
	idx := TimeIndex{Scopes: sampleScopes()}
	year := 5
	assert.Equal(t, idx.Query("元嘉", &year), idx.QueryRange("元嘉", 5, 5))
	assert.Len(t, idx.QueryRange("元嘉", 3, 5), 3)
}

func TestTimeIndexQueryRegime(t *testing.T) {
	idx := TimeIndex{Scopes: sampleScopes()}
	assert.Len(t, idx.QueryRegime("劉宋"), 4)
	assert.Len(t, idx.QueryRegime("北魏"), 1)
	assert.Empty(t, idx.QueryRegime("梁"))
}

func TestTimeIndexQueryAD(t *testing.T) {
	idx := TimeIndex{Scopes: sampleScopes()}

	// 元嘉3 = AD 426
	assert.Len(t, idx.QueryAD(426), 2)
	// AD range [n,n] equals the single AD year query.
	assert.Equal(t, idx.QueryAD(426), idx.QueryADRange(426, 426))
	// 元嘉5 = 428, 太和10 = 486; 永初1 = 420 falls outside [424, 430]
	assert.Len(t, idx.QueryADRange(424, 430), 3)
	assert.Len(t, idx.QueryADRange(480, 490), 1)
	assert.Empty(t, idx.QueryAD(300))
}

func TestBuildStats(t *testing.T) {
	suffix := "刺史"
	timed := &TimeRef{Era: "元嘉", Regime: "劉宋", Year: 3}
	events := []Event{
		{Kind: Kind{Type: Appointment, Person: "王進", NewTitle: "益州刺史",
			Place: &PlaceRef{Name: "益州", RoleSuffix: &suffix}}, Time: timed},
		{Kind: Kind{Type: Promotion, Person: "王進", Verb: "拜", NewTitle: "司徒"}, Time: timed},
		{Kind: Kind{Type: Battle, Person: "王進", Verb: "攻", Target: "壽陽城",
			TargetPlace: &PlaceRef{Name: "壽陽城"}}},
		{Kind: Kind{Type: Death, Person: "王進", Verb: "卒"}},
		{Kind: Kind{Type: Accession, Person: "蕭衍", Verb: "即位"}},
	}

	stats := BuildStats(events)
	assert.Equal(t, 5, stats.TotalEvents)
	assert.Equal(t, 1, stats.Appointments)
	assert.Equal(t, 1, stats.Promotions)
	assert.Equal(t, 1, stats.Battles)
	assert.Equal(t, 1, stats.Deaths)
	assert.Equal(t, 1, stats.Accessions)
	assert.Equal(t, 1, stats.UniqueTimeRefs)
	assert.Equal(t, 2, stats.EraDistribution["劉宋/元嘉"])
	assert.Equal(t, 2, stats.UniquePlaces)
	require.NotEmpty(t, stats.TopPlaces)
}
