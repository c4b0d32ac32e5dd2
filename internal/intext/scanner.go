package intext

import (
	"os"
	"regexp"
	"sort"

	"go.uber.org/zap"

	"github.com/Feiyang472/naive-text/internal/biography"
	"github.com/Feiyang472/naive-text/internal/corpus"
	"github.com/Feiyang472/naive-text/internal/logger"
	"github.com/Feiyang472/naive-text/internal/nametable"
	"github.com/Feiyang472/naive-text/internal/textwin"
)

// Pattern identifies which anchor regex produced a match.
type Pattern string

const (
	// PatternAppointment — 以X為Y appointment structure.
	PatternAppointment Pattern = "以X為"
	// PatternTitleName — a title immediately followed by a name.
	PatternTitleName Pattern = "官銜+名"
	// PatternCourtesyIntro — {name}字{courtesy} introduction.
	PatternCourtesyIntro Pattern = "X字Y"
	// PatternSpeech — 問/謂{name}曰 speech attribution.
	PatternSpeech Pattern = "問/謂X曰"
)

// Mention is a single in-text occurrence of a person name.
type Mention struct {
	Name       string
	Surname    string
	Given      string
	Pattern    Pattern
	Context    string
	SourceFile string
}

// Person aggregates all mentions of one name across the corpus.
type Person struct {
	Name            string         `json:"name"`
	Surname         string         `json:"surname"`
	Given           string         `json:"given"`
	MentionCount    int            `json:"mention_count"`
	MentionedIn     []string       `json:"mentioned_in"`
	PatternCounts   map[string]int `json:"pattern_counts"`
	HasOwnBiography bool           `json:"has_own_biography"`
	SampleContexts  []string       `json:"sample_contexts"`
}

const (
	contextRadius     = 20
	maxSampleContexts = 3
)

// Scanner holds the compiled anchor regexes for in-text name extraction.
type Scanner struct {
	reAppointment *regexp.Regexp // 以[^為]{0,10}({name})為
	reTitleName   *regexp.Regexp // ({title})({name})
	reCourtesy    *regexp.Regexp // ({name})字([^\s，。字]{1,2})
	reSpeech      *regexp.Regexp // [問謂]({name})曰

	// Display names and aliases of subjects with their own biography file.
	knownNames map[string]bool
}

// NewScanner builds a scanner. knownPersons are the already-parsed
// biography subjects; their surnames extend the name alternation.
func NewScanner(knownPersons []*biography.Person) *Scanner {
	nameRe := nametable.BuildNameRegex(CollectExtraSurnames(knownPersons))
	titleRe := nametable.BuildTitleRegex()

	known := make(map[string]bool)
	for _, p := range knownPersons {
		known[p.DisplayName()] = true
		for _, a := range p.Aliases {
			if len([]rune(a)) >= 2 {
				known[a] = true
			}
		}
	}

	return &Scanner{
		reAppointment: regexp.MustCompile("以[^為]{0,10}(" + nameRe + ")為"),
		reTitleName:   regexp.MustCompile(titleRe + "(" + nameRe + ")"),
		reCourtesy:    regexp.MustCompile("(" + nameRe + `)字([^\s，。字]{1,2})`),
		reSpeech:      regexp.MustCompile("[問謂](" + nameRe + ")曰"),
		knownNames:    known,
	}
}

// CollectExtraSurnames gathers the surnames of parsed subjects so that the
// name alternation also covers surnames absent from the static tables.
func CollectExtraSurnames(persons []*biography.Person) []string {
	set := make(map[string]bool)
	for _, p := range persons {
		if p.Surname != "" {
			set[p.Surname] = true
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ScanText extracts all person-name mentions from one text.
func (s *Scanner) ScanText(content, sourceFile string) []Mention {
	var mentions []Mention

	scan := func(re *regexp.Regexp, pattern Pattern) {
		for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
			start, end := m[2], m[3]
			if start < 0 {
				continue
			}
			if mention, ok := s.makeMention(content[start:end], pattern, content, start, sourceFile); ok {
				mentions = append(mentions, mention)
			}
		}
	}

	scan(s.reAppointment, PatternAppointment)
	scan(s.reTitleName, PatternTitleName)
	scan(s.reCourtesy, PatternCourtesyIntro)
	scan(s.reSpeech, PatternSpeech)

	return mentions
}

func (s *Scanner) makeMention(matched string, pattern Pattern, fullText string, byteOffset int, sourceFile string) (Mention, bool) {
	if IsFalsePositive(matched) {
		return Mention{}, false
	}

	surname, given, ok := nametable.SplitName(matched)
	if !ok {
		return Mention{}, false
	}
	givenLen := len([]rune(given))
	if givenLen < 1 || givenLen > 2 {
		return Mention{}, false
	}

	return Mention{
		Name:       matched,
		Surname:    surname,
		Given:      given,
		Pattern:    pattern,
		Context:    textwin.Extract(fullText, byteOffset, contextRadius),
		SourceFile: sourceFile,
	}, true
}

// ScanCorpus scans all biography files and aggregates mentions per name,
// sorted by mention count descending.
func (s *Scanner) ScanCorpus(bioFiles []corpus.BiographyFile) []Person {
	var mentions []Mention
	for _, bio := range bioFiles {
		data, err := os.ReadFile(bio.Path)
		if err != nil {
			logger.Warn("failed to read corpus file",
				logger.File(bio.Path), zap.Error(err))
			continue
		}
		mentions = append(mentions, s.ScanText(string(data), bio.Path)...)
	}
	return s.Aggregate(mentions)
}

// Aggregate folds raw mentions into per-name aggregates, sorted by mention
// count descending.
func (s *Scanner) Aggregate(mentions []Mention) []Person {
	type agg struct {
		surname  string
		given    string
		files    map[string]bool
		patterns map[string]int
		contexts []string
	}
	byName := make(map[string]*agg)

	for _, m := range mentions {
		entry := byName[m.Name]
		if entry == nil {
			entry = &agg{
				surname:  m.Surname,
				given:    m.Given,
				files:    make(map[string]bool),
				patterns: make(map[string]int),
			}
			byName[m.Name] = entry
		}
		entry.files[m.SourceFile] = true
		entry.patterns[string(m.Pattern)]++
		if len(entry.contexts) < maxSampleContexts {
			entry.contexts = append(entry.contexts, m.Context)
		}
	}

	results := make([]Person, 0, len(byName))
	for name, entry := range byName {
		total := 0
		for _, c := range entry.patterns {
			total += c
		}
		files := make([]string, 0, len(entry.files))
		for f := range entry.files {
			files = append(files, f)
		}
		sort.Strings(files)

		results = append(results, Person{
			Name:            name,
			Surname:         entry.surname,
			Given:           entry.given,
			MentionCount:    total,
			MentionedIn:     files,
			PatternCounts:   entry.patterns,
			HasOwnBiography: s.knownNames[name],
			SampleContexts:  entry.contexts,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MentionCount != results[j].MentionCount {
			return results[i].MentionCount > results[j].MentionCount
		}
		return results[i].Name < results[j].Name
	})
	return results
}
