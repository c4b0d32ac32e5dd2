package nametable

import "strings"

// TitleSuffixes are the final two characters of compound official titles,
// e.g. "前將軍" ends with "將軍", "青州刺史" ends with "刺史". When a title
// suffix appears, the next 2–4 chars are likely a person name.
var TitleSuffixes = []string{
	// Military
	"將軍", "校尉", "都尉", "護軍",
	"司馬", // also a compound surname; context disambiguates
	"參軍",
	// Provincial / local
	"刺史", "太守", "內史", "長史", "別駕", "從事", "主簿", "功曹",
	// Central government
	"尚書", "侍郎", "中郎", "僕射", "常侍", "給事", "令史", "祭酒", "博士",
	// Censorate
	"中丞",
}

// StandaloneTitles are complete titles that are not suffixes of longer
// titles. They appear as-is immediately before a person name.
var StandaloneTitles = []string{
	// Three Ducal Ministers
	"太宰", "太傅", "太保", "太尉", "太師", "司空", "司徒", "丞相",
	// Inner court
	"侍中", "都督", "都護", "御史",
	// Special
	"國子", "秘書", "著作",
}

// BuildTitleRegex builds a regex fragment matching any title suffix or
// standalone title, longest first.
func BuildTitleRegex() string {
	all := make([]string, 0, len(TitleSuffixes)+len(StandaloneTitles))
	all = append(all, TitleSuffixes...)
	all = append(all, StandaloneTitles...)
	sortByRuneLenDesc(all)

	seen := make(map[string]bool, len(all))
	dedup := all[:0]
	for _, t := range all {
		if !seen[t] {
			seen[t] = true
			dedup = append(dedup, t)
		}
	}

	return "(?:" + strings.Join(dedup, "|") + ")"
}

// HasTitleSuffix reports whether name ends in a title suffix or standalone
// title. Such strings are title chains, not person names.
func HasTitleSuffix(name string) bool {
	for _, suffix := range TitleSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	for _, title := range StandaloneTitles {
		if strings.HasSuffix(name, title) {
			return true
		}
	}
	return false
}
