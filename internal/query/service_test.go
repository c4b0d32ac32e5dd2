package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Feiyang472/naive-text/internal/event"
	"github.com/Feiyang472/naive-text/internal/output"
)

func intPtr(n int) *int { return &n }

// fixtureService builds a small dataset by hand: two structured persons and
// a one-off, spanning 劉宋/元嘉 and 北魏/太和.
func fixtureService(t *testing.T) *Service {
	t.Helper()

	srcPath := filepath.Join(t.TempDir(), "01_bio.txt")
	require.NoError(t, os.WriteFile(srcPath,
		[]byte("元嘉三年，以王進為益州刺史。元嘉五年，王進卒。"), 0o644))

	timeY3 := &event.TimeRef{Era: "元嘉", Regime: "劉宋", Year: 3, ByteOffset: 0, Raw: "元嘉三年"}
	timeY5 := &event.TimeRef{Era: "元嘉", Regime: "劉宋", Year: 5, ByteOffset: 39, Raw: "元嘉五年"}
	timeWei := &event.TimeRef{Era: "太和", Regime: "北魏", Year: 10, ByteOffset: 0, Raw: "太和十年"}
	suffix := "刺史"

	events := []event.Event{
		{
			Kind: event.Kind{Type: event.Appointment, Person: "王進",
				NewTitle: "益州刺史",
				Place:    &event.PlaceRef{Name: "益州", RoleSuffix: &suffix}},
			Time: timeY3, SourceFile: srcPath, ByteOffset: 15,
		},
		{
			Kind: event.Kind{Type: event.Death, Person: "王進", Verb: "卒"},
			Time: timeY5, SourceFile: srcPath, ByteOffset: 54,
		},
		{
			Kind: event.Kind{Type: event.Promotion, Person: "李安", Verb: "拜",
				NewTitle: "洛州刺史",
				Place:    &event.PlaceRef{Name: "洛州", RoleSuffix: &suffix}},
			Time: timeWei, SourceFile: srcPath, ByteOffset: 10,
		},
		{
			Kind: event.Kind{Type: event.Battle, Person: "李安", Verb: "攻",
				Target: "壽陽城", TargetPlace: &event.PlaceRef{Name: "壽陽城"}},
			Time: timeWei, SourceFile: srcPath, ByteOffset: 20,
		},
	}
	unstructured := []event.Event{
		{
			Kind: event.Kind{Type: event.Death, Person: "趙某", Verb: "卒"},
			Time: timeY3, SourceFile: srcPath, ByteOffset: 30,
		},
	}

	scopes := []event.TimeScope{
		{Time: *timeY3, Span: event.TextSpan{File: srcPath, ByteStart: 0, ByteEnd: 39}},
		{Time: *timeY5, Span: event.TextSpan{File: srcPath, ByteStart: 39, ByteEnd: 69}},
		{Time: *timeWei, Span: event.TextSpan{File: srcPath, ByteStart: 0, ByteEnd: 10}},
	}

	data := &output.Datasets{
		Persons: output.PersonsDoc{
			EventPersons: []output.EventPersonCount{
				{Name: "王進", EventCount: 2},
				{Name: "李安", EventCount: 2},
				{Name: "趙某", EventCount: 1},
			},
		},
		Events: output.EventsDoc{Events: events, UnstructuredEvents: unstructured},
		Timeline: output.TimelineDoc{
			Timeline:  event.BuildTimeline(scopes),
			TimeIndex: event.TimeIndex{Scopes: scopes},
			Stats:     event.BuildStats(events),
		},
	}
	return NewService(data)
}

func TestScopesSingleRefinesEraOnly(t *testing.T) {
	s := fixtureService(t)

	eraOnly, err := Parse("元嘉")
	require.NoError(t, err)
	withYear, err := Parse("元嘉3")
	require.NoError(t, err)

	all := s.Scopes(eraOnly)
	sub := s.Scopes(withYear)
	assert.Len(t, all, 2)
	require.Len(t, sub, 1)
	assert.Contains(t, all, sub[0])
}

func TestScopesRangeCollapseLaw(t *testing.T) {
	s := fixtureService(t)

	single, err := Parse("元嘉5")
	require.NoError(t, err)
	collapsed, err := Parse("元嘉5-5")
	require.NoError(t, err)

	assert.Equal(t, s.Scopes(single), s.Scopes(collapsed))
}

func TestScopesADLaws(t *testing.T) {
	s := fixtureService(t)

	// 元嘉3 = AD 426
	adYear, err := Parse("426AD")
	require.NoError(t, err)
	adRange, err := Parse("426AD-426AD")
	require.NoError(t, err)
	assert.Equal(t, s.Scopes(adYear), s.Scopes(adRange))
	assert.Len(t, s.Scopes(adYear), 1)
}

func TestScopesRegimeQuery(t *testing.T) {
	s := fixtureService(t)
	expr, err := Parse("@劉宋")
	require.NoError(t, err)
	assert.Len(t, s.Scopes(expr), 2)
}

func TestEventsByExpression(t *testing.T) {
	s := fixtureService(t)

	expr, err := Parse("元嘉3")
	require.NoError(t, err)
	events := s.Events(expr)
	// Appointment (structured) + 趙某's death (unstructured), both at 元嘉3.
	assert.Len(t, events, 2)

	expr, err = Parse("@北魏")
	require.NoError(t, err)
	assert.Len(t, s.Events(expr), 2)
}

func TestAvailableEras(t *testing.T) {
	s := fixtureService(t)
	eras := s.AvailableEras()
	assert.Contains(t, eras, "劉宋/元嘉")
	assert.Contains(t, eras, "北魏/太和")
}

func TestLocateReportsLastKnownLocation(t *testing.T) {
	s := fixtureService(t)

	// 太和10 = AD 486. 王進 died in 元嘉5 (428) and must not appear;
	// 李安 was placed at 洛州 in 486.
	expr, err := Parse("太和十年")
	require.NoError(t, err)
	located := s.Locate(expr, 0)

	names := make(map[string]LocatedPerson)
	for _, lp := range located {
		names[lp.Person] = lp
	}
	require.Contains(t, names, "李安")
	// Both 486 events carry structured places; the battle target is the
	// later update within the year.
	assert.Equal(t, "壽陽城", names["李安"].Location)
	assert.Equal(t, "current", names["李安"].Status)
	assert.NotContains(t, names, "王進", "dead persons are excluded")
	assert.NotContains(t, names, "趙某", "below frequency threshold")
}

func TestLocateStalenessWindow(t *testing.T) {
	s := fixtureService(t)

	// Cutoff far in the future: everything is stale.
	expr := &Expr{Kind: ADYear, AD: 580}
	assert.Empty(t, s.Locate(expr, 30))

	// A generous window brings 李安 back (dead 王進 stays excluded).
	located := s.Locate(expr, 200)
	require.Len(t, located, 1)
	assert.Equal(t, "李安", located[0].Person)
	assert.Equal(t, "last_known", located[0].Status)
}

func TestPersonTimeline(t *testing.T) {
	s := fixtureService(t)

	res := s.Person("王進")
	require.Len(t, res.Events, 2)
	assert.Empty(t, res.Candidates)

	// Chronological: appointment (426) before death (428).
	assert.Equal(t, "任命", res.Events[0].Kind)
	assert.Equal(t, "薨卒", res.Events[1].Kind)
	require.NotNil(t, res.Events[0].ADYear)
	assert.Equal(t, 426, *res.Events[0].ADYear)
	require.NotNil(t, res.Events[0].Location)
	assert.Equal(t, "益州", *res.Events[0].Location)
	assert.NotEmpty(t, res.Events[0].Snippet)
}

func TestPersonCandidates(t *testing.T) {
	s := fixtureService(t)

	res := s.Person("王某")
	assert.Empty(t, res.Events)
	require.NotEmpty(t, res.Candidates)
	// 王進 shares 王; 趙某 shares 某.
	assert.Contains(t, res.Candidates, "王進")
	assert.Contains(t, res.Candidates, "趙某")
	assert.LessOrEqual(t, len(res.Candidates), 8)
}

func TestLoadMissingDataset(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, output.ErrNotExtracted)
}
