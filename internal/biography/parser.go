package biography

import (
	"os"
	"regexp"
	"strings"

	"github.com/Feiyang472/naive-text/internal/corpus"
	"github.com/Feiyang472/naive-text/internal/nametable"
)

// Header templates, precompiled once.
//
// Real data examples:
//
//	Official:
//	  褚淵字彥回，河南陽翟人也。
//	  韓秀，字白虎，昌黎人也。
//	  裴邃字淵明，河東聞喜人，
//	Emperor (本紀):
//	  宣皇帝諱懿，字仲達，河內溫縣孝敬里人，姓司馬氏。
//	  高祖武皇帝，諱衍，字叔達，小字練兒，南蘭陵中都里人
//	  廢帝諱昱，字德融，小字慧震，明帝長子也。
var (
	// {FullName}[，]字{Courtesy}[，]{Origin}人
	reOfficial = regexp.MustCompile(
		`^(?P<name>[^\s，。、字]{2,4})[，,]?字(?P<courtesy>[^\s，。]{1,3})[，,](?P<origin>[^\s，。人]+)人`)

	// {FullName}，{Origin}人也
	reOfficialNoCourtesy = regexp.MustCompile(
		`^(?P<name>[^\s，。、字]{2,4})[，,](?P<origin>[^\s，。人字]+)人也`)

	// {TempleName 2}{Posthumous 1–2}皇帝[，]諱{Given}，字{Courtesy}[，小字{Childhood}]
	reEmperorTemple = regexp.MustCompile(
		`^(?P<temple>[^\s，。諱]{2})(?P<posthumous>[^\s，。諱]{1,2})皇帝[，,]?諱(?P<given>[^\s，。]{1,2})[，,]字(?P<courtesy>[^\s，。]{1,3})(?:[，,]小字(?P<childhood>[^\s，。]{1,3}))?`)

	// {Posthumous 1–4}皇帝諱{Given}，字{Courtesy}[，小字{Childhood}]
	reEmperorShort = regexp.MustCompile(
		`^(?P<posthumous>[^\s，。諱]{1,4})皇帝諱(?P<given>[^\s，。]{1,2})[，,]字(?P<courtesy>[^\s，。]{1,3})(?:[，,]小字(?P<childhood>[^\s，。]{1,3}))?`)

	// {Title 2–4}諱{Given}，字{Courtesy}[，小字{Childhood}]
	reDeposed = regexp.MustCompile(
		`^(?P<title>[^\s，。諱]{2,4})諱(?P<given>[^\s，。]{1,2})[，,]字(?P<courtesy>[^\s，。]{1,3})(?:[，,]小字(?P<childhood>[^\s，。]{1,3}))?`)

	// 載記 ruler openers (tried last, ForeignRecords only):
	// {FullName}[，]字{Courtesy}，{Lineage}
	reRulerFull = regexp.MustCompile(
		`^(?P<name>[^\s，。、字諱]{2,4})[，,]?字(?P<courtesy>[^\s，。]{1,3})[，,](?P<lineage>[^\s。]{2,})`)

	// {Given 1–2}[，]字{Courtesy} — continuation biography, surname comes
	// from the volume label.
	reRulerGivenOnly = regexp.MustCompile(
		`^(?P<given>[^\s，。、字諱]{1,2})[，,]?字(?P<courtesy>[^\s，。]{1,3})`)

	// {FullName}，{Lineage} — no courtesy recorded.
	reRulerNoCourtesy = regexp.MustCompile(
		`^(?P<name>[^\s，。、字諱]{2,4})[，,](?P<lineage>[^\s。]{2,})`)

	// Surname stated separately in emperor openings: 姓{X}氏
	reSurname = regexp.MustCompile(`姓(?P<surname>[^\s，。氏]+)氏`)
)

const headerLineLimit = 10

// Parse tries to parse a person from a biography file. Returns false when
// no header template matches; the caller collects such files for reporting.
func Parse(bio corpus.BiographyFile) (*Person, bool) {
	data, err := os.ReadFile(bio.Path)
	if err != nil {
		return nil, false
	}
	content := string(data)
	source := bio.Source

	// The person intro may not be on line 1 (some files carry headers like
	// "武帝上\n梁書卷第一\n..." first). Try each of the first 10 lines.
	var lines []string
	for _, l := range strings.Split(content, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
		if len(lines) == headerLineLimit {
			break
		}
	}
	if len(lines) == 0 {
		return nil, false
	}

	annalsFirst := source.Section == corpus.Annals || source.Section == corpus.ForeignRecords
	for _, line := range lines {
		if annalsFirst {
			if p := tryParseEmperor(line, content, source); p != nil {
				return p, true
			}
		}
		if p := tryParseOfficial(line, source); p != nil {
			return p, true
		}
		if !annalsFirst {
			if p := tryParseEmperor(line, content, source); p != nil {
				return p, true
			}
		}
	}

	// Ruler variants only apply to 載記 and only once everything else has
	// failed on every candidate line.
	if source.Section == corpus.ForeignRecords {
		for _, line := range lines {
			if p := tryParseRuler(line, source); p != nil {
				return p, true
			}
		}
	}

	return nil, false
}

func captures(re *regexp.Regexp, line string) map[string]string {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	out := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && m[i] != "" {
			out[name] = m[i]
		}
	}
	return out
}

func optional(m map[string]string, key string) *string {
	if v, ok := m[key]; ok {
		return &v
	}
	return nil
}

func tryParseOfficial(line string, source corpus.Source) *Person {
	if m := captures(reOfficial, line); m != nil {
		surname, given, ok := nametable.SplitName(m["name"])
		if !ok {
			return nil
		}
		p := &Person{
			Kind:      Official,
			Surname:   surname,
			GivenName: given,
			Courtesy:  optional(m, "courtesy"),
			Origin:    optional(m, "origin"),
			Source:    source,
		}
		p.ComputeAliases()
		return p
	}

	if m := captures(reOfficialNoCourtesy, line); m != nil {
		surname, given, ok := nametable.SplitName(m["name"])
		if !ok {
			return nil
		}
		p := &Person{
			Kind:      Official,
			Surname:   surname,
			GivenName: given,
			Origin:    optional(m, "origin"),
			Source:    source,
		}
		p.ComputeAliases()
		return p
	}

	return nil
}

func tryParseEmperor(line, fullContent string, source corpus.Source) *Person {
	// Surname is often stated separately: 姓司馬氏
	var surname string
	if m := captures(reSurname, fullContent); m != nil {
		surname = m["surname"]
	}

	if m := captures(reEmperorTemple, line); m != nil {
		temple := m["temple"]
		p := &Person{
			Kind:       Emperor,
			TempleName: &temple,
			Posthumous: m["posthumous"] + "皇帝",
			Surname:    surname,
			GivenName:  m["given"],
			Courtesy:   optional(m, "courtesy"),
			Childhood:  optional(m, "childhood"),
			Source:     source,
		}
		p.ComputeAliases()
		return p
	}

	if m := captures(reEmperorShort, line); m != nil {
		p := &Person{
			Kind:       Emperor,
			TempleName: templeFromVolume(source.Volume),
			Posthumous: m["posthumous"] + "皇帝",
			Surname:    surname,
			GivenName:  m["given"],
			Courtesy:   optional(m, "courtesy"),
			Childhood:  optional(m, "childhood"),
			Source:     source,
		}
		p.ComputeAliases()
		return p
	}

	if m := captures(reDeposed, line); m != nil {
		p := &Person{
			Kind:      Deposed,
			Title:     m["title"],
			GivenName: m["given"],
			Courtesy:  optional(m, "courtesy"),
			Childhood: optional(m, "childhood"),
			Source:    source,
		}
		p.ComputeAliases()
		return p
	}

	return nil
}

func tryParseRuler(line string, source corpus.Source) *Person {
	if m := captures(reRulerFull, line); m != nil {
		surname, given, ok := nametable.SplitName(m["name"])
		if !ok {
			return nil
		}
		p := &Person{
			Kind:      Ruler,
			Surname:   surname,
			GivenName: given,
			Courtesy:  optional(m, "courtesy"),
			Origin:    optional(m, "lineage"),
			Source:    source,
		}
		p.ComputeAliases()
		return p
	}

	// Given-name-only opener: continuation biography, e.g. "皝，字元真".
	// The surname comes from the volume label ("載記第九　慕容皝").
	if m := captures(reRulerGivenOnly, line); m != nil {
		if surname := surnameFromVolume(source.Volume); surname != "" {
			p := &Person{
				Kind:      Ruler,
				Surname:   surname,
				GivenName: m["given"],
				Courtesy:  optional(m, "courtesy"),
				Source:    source,
			}
			p.ComputeAliases()
			return p
		}
	}

	if m := captures(reRulerNoCourtesy, line); m != nil {
		surname, given, ok := nametable.SplitName(m["name"])
		if !ok {
			return nil
		}
		p := &Person{
			Kind:      Ruler,
			Surname:   surname,
			GivenName: given,
			Origin:    optional(m, "lineage"),
			Source:    source,
		}
		p.ComputeAliases()
		return p
	}

	return nil
}

// templeNames are the common temple names found in volume labels.
var templeNames = []string{
	"高祖", "太祖", "世祖", "太宗", "世宗", "高宗", "中宗", "肅祖",
	"顯宗", "孝宗",
}

// templeFromVolume extracts a temple name from a volume label,
// e.g. "00_帝紀第一　高祖宣帝" → 高祖.
func templeFromVolume(volume string) *string {
	for _, tn := range templeNames {
		if strings.Contains(volume, tn) {
			return &tn
		}
	}
	return nil
}

// surnameFromVolume recovers a ruler's surname from a volume label: the
// longest compound-surname prefix of the segment after the last full-width
// or ASCII space, else its first character.
func surnameFromVolume(volume string) string {
	seg := volume
	for _, sep := range []string{"　", " "} {
		if idx := strings.LastIndex(seg, sep); idx >= 0 {
			seg = seg[idx+len(sep):]
		}
	}
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return ""
	}
	for _, cs := range nametable.CompoundSurnames {
		if strings.HasPrefix(seg, cs) {
			return cs
		}
	}
	runes := []rune(seg)
	return string(runes[0])
}
