// Package regime holds the static catalogue of regimes (政權) and era names
// (年號) with their AD ranges, and resolves ambiguous era names.
//
// The same era name (e.g. 太和) can belong to different regimes; each usage
// is scoped to a regime based on which book the text comes from.
package regime

import (
	"sort"
	"strings"

	"github.com/Feiyang472/naive-text/internal/corpus"
)

// Regime is a political regime / dynasty of the period, identified by its
// Chinese display name.
type Regime string

const (
	// Unified / major
	WesternJin  Regime = "西晉"
	EasternJin  Regime = "東晉"
	LiuSong     Regime = "劉宋"
	SouthernQi  Regime = "南齊"
	Liang       Regime = "梁"
	Chen        Regime = "陳"
	NorthernWei Regime = "北魏"
	// Sixteen Kingdoms (十六國)
	HanZhao       Regime = "漢趙"
	LaterZhao     Regime = "後趙"
	ChengHan      Regime = "成漢"
	FormerLiang   Regime = "前涼"
	FormerYan     Regime = "前燕"
	FormerQin     Regime = "前秦"
	LaterQin      Regime = "後秦"
	LaterYan      Regime = "後燕"
	WesternQin    Regime = "西秦"
	LaterLiang    Regime = "後涼"
	SouthernLiang Regime = "南涼"
	SouthernYan   Regime = "南燕"
	WesternLiang  Regime = "西涼"
	NorthernLiang Regime = "北涼"
	Xia           Regime = "夏"
	NorthernYan   Regime = "北燕"
)

// startAD gives the approximate founding year of each regime, used to order
// concurrent regimes chronologically.
var startAD = map[Regime]int{
	WesternJin:  265,
	EasternJin:  317,
	LiuSong:     420,
	SouthernQi:  479,
	Liang:       502,
	Chen:        557,
	NorthernWei: 386,

	HanZhao:       304,
	ChengHan:      304,
	LaterZhao:     319,
	FormerLiang:   320,
	FormerYan:     337,
	FormerQin:     351,
	LaterQin:      384,
	LaterYan:      384,
	WesternQin:    385,
	LaterLiang:    386,
	SouthernLiang: 397,
	NorthernLiang: 397,
	SouthernYan:   398,
	WesternLiang:  400,
	Xia:           407,
	NorthernYan:   407,
}

// StartAD returns the approximate founding AD year of a regime, or a large
// sentinel for unknown regimes so they sort last.
func StartAD(r Regime) int {
	if y, ok := startAD[r]; ok {
		return y
	}
	return 9999
}

// DefaultRegime is the first-guess regime for era disambiguation in each
// book. The 載記 section of 晉書 references other regimes, which fall
// through to the catalogue-order match.
func DefaultRegime(book corpus.Book) Regime {
	switch book {
	case corpus.JinShu:
		return EasternJin // most of 晉書 is Eastern Jin context
	case corpus.SongShu:
		return LiuSong
	case corpus.NanQiShu:
		return SouthernQi
	case corpus.LiangShu:
		return Liang
	case corpus.ChenShu:
		return Chen
	case corpus.WeiShu:
		return NorthernWei
	}
	return EasternJin
}

// ResolveEra resolves an era name to a regime given the book it appears in.
// First tries the book's default regime, then the first catalogue entry with
// that name (cross-regime references, e.g. 晉書 citing a 前秦 era).
func ResolveEra(eraName string, book corpus.Book) (Regime, bool) {
	def := DefaultRegime(book)
	for _, e := range Catalogue {
		if e.Name == eraName && e.Regime == def {
			return e.Regime, true
		}
	}
	for _, e := range Catalogue {
		if e.Name == eraName {
			return e.Regime, true
		}
	}
	return "", false
}

// BuildEraRegex builds a regex alternation of all era names, sorted by
// length descending so 太平真君 matches before 太平. Duplicate names across
// regimes appear once.
func BuildEraRegex() string {
	names := make([]string, 0, len(Catalogue))
	seen := make(map[string]bool, len(Catalogue))
	for _, e := range Catalogue {
		if !seen[e.Name] {
			seen[e.Name] = true
			names = append(names, e.Name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return len([]rune(names[i])) > len([]rune(names[j]))
	})
	return "(?:" + strings.Join(names, "|") + ")"
}

// ExactADYear computes the AD year of an era-relative year: start_ad+(year-1).
// Returns false when the (regime, era) pair is not in the catalogue; callers
// treat such events as untimed for AD sorting.
func ExactADYear(r Regime, eraName string, year int) (int, bool) {
	for _, e := range Catalogue {
		if e.Regime == r && e.Name == eraName {
			return e.StartAD + year - 1, true
		}
	}
	return 0, false
}

// EraSortKey returns the catalogue index of an era under a regime, used to
// order eras chronologically within that regime.
func EraSortKey(r Regime, eraName string) int {
	for i, e := range Catalogue {
		if e.Regime == r && e.Name == eraName {
			return i
		}
	}
	return len(Catalogue)
}
