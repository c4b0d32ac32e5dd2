package event

import (
	"regexp"
	"strings"

	"github.com/Feiyang472/naive-text/internal/biography"
	"github.com/Feiyang472/naive-text/internal/corpus"
	"github.com/Feiyang472/naive-text/internal/intext"
	"github.com/Feiyang472/naive-text/internal/nametable"
	"github.com/Feiyang472/naive-text/internal/regime"
	"github.com/Feiyang472/naive-text/internal/textwin"
)

const (
	// contextRadius is the character radius of an event's display window.
	contextRadius = 30
	// monthProximity is how close (in bytes) a month match must follow a
	// year match to be attached to it.
	monthProximity = 15
)

// Scanner holds the compiled regexes for event and time extraction. Compile
// once per extraction run, reuse across all files.
type Scanner struct {
	reTime       *regexp.Regexp // ({era})({number})年
	reMonthDay   *regexp.Regexp // ({month})月({ganzhi})?
	reAppoint    *regexp.Regexp // 以[^為]{0,12}({name})為({title})
	rePromotion  *regexp.Regexp // ({verb})[^，。為]{0,10}({name})為({title})
	reAccession  *regexp.Regexp // ({name})(即位|…)
	reBattle     *regexp.Regexp // ({name})({verb})({target})
	reDeath      *regexp.Regexp // ({title})?({name})(薨|卒|崩)
	rePlaceTitle *regexp.Regexp // (南?{place})(刺史|太守|內史)
}

// NewScanner builds a scanner. Surnames of the already-parsed biography
// subjects extend the name alternation beyond the static tables.
func NewScanner(knownPersons []*biography.Person) *Scanner {
	eraRe := regime.BuildEraRegex()
	nameRe := nametable.BuildNameRegex(intext.CollectExtraSurnames(knownPersons))
	titleRe := nametable.BuildTitleRegex()

	return &Scanner{
		reTime: regexp.MustCompile("(" + eraRe + ")(元|[一二三四五六七八九十]{1,3})年"),

		reMonthDay: regexp.MustCompile(
			`(正|閏?[一二三四五六七八九十]{1,2}|臘)月([甲乙丙丁戊己庚辛壬癸][子丑寅卯辰巳午未申酉戌亥])?`),

		reAppoint: regexp.MustCompile("以[^為]{0,12}(" + nameRe + ")為([^，。]{2,20})"),

		// Anchored on 為 like the appointment regex so the name fragment
		// does not greedily consume 為 as a given-name character. Up to 10
		// chars of intervening text allow an honorary title before the
		// name ("拜太尉王進為…").
		rePromotion: regexp.MustCompile(
			"(拜|除|遷|轉|授|徵|封)[^，。為]{0,10}(" + nameRe + ")為([^，。]{2,20})"),

		reAccession: regexp.MustCompile("(" + nameRe + ")(即位|踐祚|繼位|即皇帝位)"),

		// Stop chars in the target (於/于 "at", 以 "with") keep trailing
		// place/person phrases out of the capture.
		reBattle: regexp.MustCompile(
			"(" + nameRe + ")(攻|伐|討|克|陷|寇|圍|襲)([^，。於于以]{2,8})"),

		reDeath: regexp.MustCompile("(?:" + titleRe + ")?(" + nameRe + ")(薨|卒|崩)"),

		// Exclude the enumeration comma (、) and common punctuation to
		// avoid matching across title boundaries like "振威將軍、刺史".
		rePlaceTitle: regexp.MustCompile(`(南?[^\s，。、以為]{2,4})(刺史|太守|內史)`),
	}
}

// extractTimes extracts every time reference from a text, in offset order.
func (s *Scanner) extractTimes(content string, book corpus.Book) []TimeRef {
	var times []TimeRef

	for _, m := range s.reTime.FindAllStringSubmatchIndex(content, -1) {
		era := content[m[2]:m[3]]
		yearStr := content[m[4]:m[5]]

		year, ok := ParseCnNumber(yearStr)
		if !ok {
			continue
		}

		reg, ok := regime.ResolveEra(era, book)
		if !ok {
			reg = regime.DefaultRegime(book)
		}

		ref := TimeRef{
			Era:        era,
			Regime:     string(reg),
			Year:       year,
			Raw:        content[m[0]:m[1]],
			ByteOffset: m[0],
		}

		// Month/ganzhi day, only when it follows closely.
		after := content[m[1]:]
		if md := s.reMonthDay.FindStringSubmatchIndex(after); md != nil && md[0] < monthProximity {
			if month, ok := ParseCnMonth(after[md[2]:md[3]]); ok {
				ref.Month = &month
			}
			if md[4] >= 0 {
				ganzhi := after[md[4]:md[5]]
				ref.DayGanzhi = &ganzhi
			}
		}

		times = append(times, ref)
	}

	return times
}

// findTimeContext selects the time reference with the greatest byte offset
// strictly less than eventOffset, or nil when the event precedes them all.
func findTimeContext(times []TimeRef, eventOffset int) *TimeRef {
	for i := len(times) - 1; i >= 0; i-- {
		if times[i].ByteOffset < eventOffset {
			t := times[i]
			return &t
		}
	}
	return nil
}

// buildTimeScopes pairs each time reference with the byte range it governs:
// from its offset up to the next reference, or EOF. Scopes tile the region
// from the first reference to end-of-file without gaps or overlaps.
func buildTimeScopes(times []TimeRef, contentLen int, sourceFile string) []TimeScope {
	scopes := make([]TimeScope, 0, len(times))
	for i, t := range times {
		end := contentLen
		if i+1 < len(times) {
			end = times[i+1].ByteOffset
		}
		scopes = append(scopes, TimeScope{
			Time: t,
			Span: TextSpan{
				File:      sourceFile,
				ByteStart: t.ByteOffset,
				ByteEnd:   end,
			},
		})
	}
	return scopes
}

// placeFromTitle extracts a place reference from a title string like
// "郢州刺史", falling back to a bare administrative place like "梁州".
func (s *Scanner) placeFromTitle(title string) *PlaceRef {
	if m := s.rePlaceTitle.FindStringSubmatch(title); m != nil {
		suffix := m[2]
		return &PlaceRef{
			Name:       m[1],
			IsQiao:     isQiao(m[1]),
			RoleSuffix: &suffix,
		}
	}

	runes := []rune(title)
	if len(runes) >= 2 && len(runes) <= 4 {
		switch runes[len(runes)-1] {
		case '州', '郡', '縣', '國':
			if isPlausiblePlace(title) {
				return &PlaceRef{Name: title, IsQiao: isQiao(title)}
			}
		}
	}

	return nil
}

// placesFromContext extracts place references from a context window. Uses
// stricter validation than placeFromTitle because context windows contain
// arbitrary prose that produces false place matches.
func (s *Scanner) placesFromContext(context string) []PlaceRef {
	var places []PlaceRef
	for _, m := range s.rePlaceTitle.FindAllStringSubmatch(context, -1) {
		name := m[1]
		if !isPlausiblePlace(name) {
			continue
		}
		suffix := m[2]
		places = append(places, PlaceRef{
			Name:       name,
			IsQiao:     isQiao(name),
			RoleSuffix: &suffix,
		})
	}
	return places
}

// geoSuffixes are the characters that mark a battle target as a place.
var geoSuffixes = map[rune]bool{
	'州': true, '郡': true, '縣': true, '城': true, '關': true, '塞': true,
	'鎮': true, '壁': true, '山': true, '水': true, '河': true, '江': true,
	'池': true, '谷': true, '嶺': true, '津': true, '渡': true, '橋': true,
	'亭': true, '營': true, '壘': true,
}

// detectPlaceTarget exposes a battle target as a PlaceRef when its last
// character belongs to the geographic suffix set.
func detectPlaceTarget(target string) *PlaceRef {
	runes := []rune(target)
	if len(runes) == 0 || !geoSuffixes[runes[len(runes)-1]] {
		return nil
	}
	return &PlaceRef{Name: target, IsQiao: isQiao(target)}
}

// placeBadStarts are characters that cannot begin a place name; matches
// starting with one are junk-prefixed captures from running prose
// (e.g. "攻暐洛州" where only "洛州" is real).
var placeBadStarts = map[rune]bool{
	'殺': true, '攻': true, '伐': true, '克': true, '陷': true, '討': true,
	'破': true, '逐': true, '執': true,
	'使': true, '令': true, '遣': true, '命': true, '除': true, '拜': true,
	'遷': true, '轉': true, '授': true,
	'乃': true, '又': true, '則': true, '其': true, '先': true, '亦': true,
	'再': true, '俄': true, '仍': true,
	'兄': true, '弟': true, '父': true, '母': true, '叔': true,
	'偽': true, '僞': true, '故': true, '舊': true, '前': true, '後': true,
	'害': true, '盜': true,
	'加': true, '領': true, '兼': true, '行': true, '代': true, '署': true,
	'出': true, '入': true, '功': true,
	'是': true, '走': true, '率': true, '擒': true, '獲': true, '斬': true,
	'在': true, '及': true,
	'與': true, '隨': true, '自': true, '累': true, '左': true, '右': true,
	'號': true, '詔': true, '贈': true,
	'遙': true, '重': true, '衆': true, '勒': true, '從': true, '結': true,
	'更': true, '如': true, '乘': true,
	'時': true, '方': true, '永': true, '爲': true, '歷': true, '曆': true,
	'瑗': true, '苗': true, '宋': true,
}

// isPlausiblePlace checks whether a string looks like an administrative
// place name. Such names are 2–3 characters in this corpus (荊州, 揚州,
// 南兗州); longer context matches are almost always junk-prefixed.
func isPlausiblePlace(name string) bool {
	runes := []rune(name)
	if len(runes) < 2 || len(runes) > 3 {
		return false
	}
	for _, r := range runes {
		if r == '[' || r == ']' {
			return false
		}
	}
	return !placeBadStarts[runes[0]]
}

// ScanFile extracts the events and time scopes of a single file.
func (s *Scanner) ScanFile(content string, book corpus.Book, sourceFile string) ([]Event, []TimeScope) {
	times := s.extractTimes(content, book)
	scopes := buildTimeScopes(times, len(content), sourceFile)

	var events []Event
	emit := func(kind Kind, offset int) {
		if intext.IsFalsePositive(kind.Person) {
			return
		}
		context := textwin.Extract(content, offset, contextRadius)
		events = append(events, Event{
			Kind:       kind,
			Time:       findTimeContext(times, offset),
			SourceFile: sourceFile,
			ByteOffset: offset,
			Context:    context,
			Locations:  s.placesFromContext(context),
		})
	}

	for _, m := range s.reAppoint.FindAllStringSubmatchIndex(content, -1) {
		title := strings.TrimSpace(content[m[4]:m[5]])
		emit(Kind{
			Type:     Appointment,
			Person:   content[m[2]:m[3]],
			NewTitle: title,
			Place:    s.placeFromTitle(title),
		}, m[0])
	}

	for _, m := range s.rePromotion.FindAllStringSubmatchIndex(content, -1) {
		title := strings.TrimSpace(content[m[6]:m[7]])
		emit(Kind{
			Type:     Promotion,
			Person:   content[m[4]:m[5]],
			Verb:     content[m[2]:m[3]],
			NewTitle: title,
			Place:    s.placeFromTitle(title),
		}, m[0])
	}

	for _, m := range s.reAccession.FindAllStringSubmatchIndex(content, -1) {
		emit(Kind{
			Type:   Accession,
			Person: content[m[2]:m[3]],
			Verb:   content[m[4]:m[5]],
		}, m[0])
	}

	for _, m := range s.reBattle.FindAllStringSubmatchIndex(content, -1) {
		target := content[m[6]:m[7]]
		emit(Kind{
			Type:        Battle,
			Person:      content[m[2]:m[3]],
			Verb:        content[m[4]:m[5]],
			Target:      target,
			TargetPlace: detectPlaceTarget(target),
		}, m[0])
	}

	for _, m := range s.reDeath.FindAllStringSubmatchIndex(content, -1) {
		emit(Kind{
			Type:   Death,
			Person: content[m[2]:m[3]],
			Verb:   content[m[4]:m[5]],
		}, m[0])
	}

	return events, scopes
}
