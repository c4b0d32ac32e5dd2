package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Feiyang472/naive-text/internal/event"
	"github.com/Feiyang472/naive-text/internal/output"
	"github.com/Feiyang472/naive-text/internal/testutil"
)

func sampleCorpus(t *testing.T) string {
	return testutil.WriteCorpus(t, []testutil.CorpusFile{
		{
			Book: "宋書", Section: "03_列傳", Volume: "04_列傳第四　褚淵",
			Name: "02_褚淵.txt",
			Content: "褚淵字彥回，河南陽翟人也。\n" +
				"元嘉三年，以王進為冠軍將軍。元嘉五年，拜王進為益州刺史。\n" +
				"大明二年，王進卒。\n",
		},
		{
			Book: "宋書", Section: "03_列傳", Volume: "05_列傳第五　柳世隆",
			Name: "01_柳世隆.txt",
			Content: "柳世隆字彥緒，河東解人也。\n" +
				"元嘉三年，王進攻壽陽城，克之。\n",
		},
		{
			Book: "宋書", Section: "03_列傳", Volume: "06_列傳第六",
			Name:    "01_史論.txt",
			Content: "史臣曰：此文不含傳主。\n",
		},
	})
}

func runPipeline(t *testing.T) *Result {
	t.Helper()
	result, err := New(2, false).Run(sampleCorpus(t))
	require.NoError(t, err)
	return result
}

func TestRunParsesSubjects(t *testing.T) {
	result := runPipeline(t)

	assert.Equal(t, 2, result.FileCount)
	require.Len(t, result.Persons, 2)
	names := []string{result.Persons[0].DisplayName(), result.Persons[1].DisplayName()}
	assert.Contains(t, names, "褚淵")
	assert.Contains(t, names, "柳世隆")
	assert.Empty(t, result.FailedFiles)
}

func TestRunExtractsTimedEvents(t *testing.T) {
	result := runPipeline(t)
	ds := result.Datasets

	// 王進 appears in 4 events: structured. All four land in events.
	require.NotEmpty(t, ds.Events.Events)
	for _, e := range ds.Events.Events {
		assert.Equal(t, "王進", e.Kind.Person)
	}

	// Invariant: each timed event's time precedes it with nothing between.
	scopesByFile := make(map[string][]event.TimeScope)
	for _, sc := range ds.Timeline.TimeIndex.Scopes {
		scopesByFile[sc.Span.File] = append(scopesByFile[sc.Span.File], sc)
	}
	for _, e := range ds.Events.Events {
		if e.Time == nil {
			continue
		}
		assert.Less(t, e.Time.ByteOffset, e.ByteOffset)
		for _, sc := range scopesByFile[e.SourceFile] {
			off := sc.Time.ByteOffset
			assert.False(t, off > e.Time.ByteOffset && off < e.ByteOffset)
		}
	}
}

func TestRunScopesTileFiles(t *testing.T) {
	result := runPipeline(t)

	scopesByFile := make(map[string][]event.TimeScope)
	for _, sc := range result.Datasets.Timeline.TimeIndex.Scopes {
		scopesByFile[sc.Span.File] = append(scopesByFile[sc.Span.File], sc)
	}
	require.NotEmpty(t, scopesByFile)

	for file, scopes := range scopesByFile {
		for i, sc := range scopes {
			assert.Less(t, sc.Span.ByteStart, sc.Span.ByteEnd, file)
			if i+1 < len(scopes) {
				assert.Equal(t, sc.Span.ByteEnd, scopes[i+1].Span.ByteStart,
					"scopes must tile without gaps in %s", file)
			}
		}
	}
}

func TestRunTimelineCountsDistinctTriples(t *testing.T) {
	result := runPipeline(t)
	tl := result.Datasets.Timeline.Timeline

	distinct := make(map[string]bool)
	for _, sc := range result.Datasets.Timeline.TimeIndex.Scopes {
		distinct[fmt.Sprintf("%s/%s/%d", sc.Time.Regime, sc.Time.Era, sc.Time.Year)] = true
	}
	assert.Equal(t, len(distinct), tl.TotalTimePoints)

	// 元嘉3 appears in both biography files.
	for _, rt := range tl.Regimes {
		for _, et := range rt.Eras {
			for _, tp := range et.Years {
				if et.Era == "元嘉" && tp.Year == 3 {
					assert.Equal(t, 2, tp.OccurrenceCount)
				}
			}
		}
	}
}

func TestRunConfidenceFilter(t *testing.T) {
	result := runPipeline(t)
	ds := result.Datasets

	freq := make(map[string]int)
	for _, ep := range ds.Persons.EventPersons {
		freq[ep.Name] = ep.EventCount
	}
	for _, e := range ds.Events.Events {
		assert.GreaterOrEqual(t, freq[e.Kind.Person], 2,
			"structured event person %s must be attested twice", e.Kind.Person)
	}
	for _, e := range ds.Events.UnstructuredEvents {
		assert.Less(t, freq[e.Kind.Person], 2)
	}
}

func TestRunInTextMentions(t *testing.T) {
	result := runPipeline(t)

	var found bool
	for _, p := range result.Datasets.Persons.InTextMentions {
		if p.Name == "褚淵" {
			found = true
			assert.True(t, p.HasOwnBiography)
		}
	}
	assert.True(t, found, "褚淵 should be mentioned in text")
}

func TestRunPersonSummaries(t *testing.T) {
	result := runPipeline(t)

	var chuyuan *output.PersonSummary
	for i := range result.Datasets.Persons.Persons {
		if result.Datasets.Persons.Persons[i].DisplayName == "褚淵" {
			chuyuan = &result.Datasets.Persons.Persons[i]
		}
	}
	require.NotNil(t, chuyuan)
	assert.Equal(t, "宋書", chuyuan.Book)
	assert.Equal(t, "Official", chuyuan.Kind)
	assert.Contains(t, chuyuan.Aliases, "褚淵")
	assert.Positive(t, chuyuan.RefStats.AliasCounts["褚淵"])
}

func TestRunOutputRoundTrip(t *testing.T) {
	result := runPipeline(t)

	dir := t.TempDir()
	require.NoError(t, result.Datasets.Write(dir))

	loaded, err := output.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, result.Datasets.Timeline.Timeline.TotalTimePoints,
		loaded.Timeline.Timeline.TotalTimePoints)
	assert.Len(t, loaded.Events.Events, len(result.Datasets.Events.Events))
	assert.Len(t, loaded.Persons.Persons, len(result.Datasets.Persons.Persons))
	assert.Len(t, loaded.Locations, len(result.Datasets.Locations))
}

func TestSplitByConfidenceClearsRarePlaces(t *testing.T) {
	suffix := "刺史"
	events := []event.Event{
		{Kind: event.Kind{Type: event.Appointment, Person: "王進", NewTitle: "益州刺史",
			Place: &event.PlaceRef{Name: "益州", RoleSuffix: &suffix}}},
		{Kind: event.Kind{Type: event.Promotion, Person: "王進", Verb: "拜", NewTitle: "洛州刺史",
			Place: &event.PlaceRef{Name: "洛州", RoleSuffix: &suffix}},
			Locations: []event.PlaceRef{{Name: "益州", RoleSuffix: &suffix}}},
		{Kind: event.Kind{Type: event.Death, Person: "趙某", Verb: "卒"}},
	}

	structured, unstructured := splitByConfidence(events)
	require.Len(t, structured, 2)
	require.Len(t, unstructured, 1)

	// 益州 appears twice (structured + context): retained everywhere.
	require.NotNil(t, structured[0].Kind.Place)
	assert.Equal(t, "益州", structured[0].Kind.Place.Name)
	assert.Len(t, structured[1].Locations, 1)

	// 洛州 appears once: the structured place is cleared.
	assert.Nil(t, structured[1].Kind.Place)
}
