// Package nametable holds the static surname and title vocabularies of the
// Six Dynasties period and builds the regex fragments derived from them.
package nametable

import (
	"sort"
	"strings"
)

// CompoundSurnames are the known multi-character surnames of the period.
// These must be checked BEFORE falling back to single-char surnames.
var CompoundSurnames = []string{
	"司馬", "歐陽", "諸葛", "長孫", "令狐", "慕容", "拓跋", "宇文", "獨孤", "赫連", "呼延", "鮮于",
	"段幹", "公孫", "東方", "南宮", "西門", "上官", "夏侯", "皇甫", "尉遲", "澹臺", "公冶", "宗政",
	"濮陽", "淳于", "單于", "太叔", "申屠", "仲孫", "軒轅", "鍾離", "閭丘", "東郭", "南門", "壤駟",
	"禿髮", "宿勤",
}

// SingleSurnames are the common single-character surnames attested in the
// corpus. The list covers the vast majority of persons appearing in the
// six histories.
var SingleSurnames = []rune("" +
	"王李張劉陳楊趙黃周吳徐孫胡朱高林" +
	"何郭馬羅梁宋鄭謝韓唐馮于董蕭程曹" +
	"袁鄧許傅沈曾彭呂蘇盧蔣蔡賈丁魏薛" +
	"葉閻余潘杜戴夏鍾汪田任姜范方石姚" +
	"譚廖鄒熊金陸郝孔白崔康毛邱秦江史" +
	"顧侯邵孟龍萬段雷錢湯尹黎易常武喬" +
	"賀賴龔文" +
	"庾桓殷荀裴虞褚柳阮嵇顏溫祖竇苻姬" +
	"翟左伏卞鮑華廉管路嚴解耿宗甘臧樊" +
	"和費甄辛雍蘭單穆成戚紀項祁毋牛邢" +
	"滕鄔焦巴弓牧應苗明向鈕舒齊霍丘班" +
	"仇游包盛房邊刁俞寇全符習岑封尚干" +
	"暨居步都滿弘匡國聞索賁靳糜荊羊" +
	"闞酈蒯種")

// cjkChar matches a single CJK name character, excluding whitespace and the
// punctuation that terminates names in running prose.
const cjkChar = `[^\s，。、；：！？「」『』（）〈〉《》【】\-]`

// BuildNameRegex builds a regex fragment matching any known full name
// (surname + 1–2 char given name). Compound surnames are tried first so the
// longer match wins. extra supplies additional surnames discovered at
// runtime (e.g. from parsed biography subjects).
func BuildNameRegex(extra []string) string {
	compounds := make([]string, len(CompoundSurnames))
	copy(compounds, CompoundSurnames)
	singles := make([]rune, len(SingleSurnames))
	copy(singles, SingleSurnames)

	knownCompound := make(map[string]bool, len(compounds))
	for _, c := range compounds {
		knownCompound[c] = true
	}
	knownSingle := make(map[rune]bool, len(singles))
	for _, r := range singles {
		knownSingle[r] = true
	}

	for _, s := range extra {
		runes := []rune(s)
		switch {
		case len(runes) >= 2:
			if !knownCompound[s] {
				compounds = append(compounds, s)
				knownCompound[s] = true
			}
		case len(runes) == 1:
			if !knownSingle[runes[0]] {
				singles = append(singles, runes[0])
				knownSingle[runes[0]] = true
			}
		}
	}

	compoundPart := "(?:" + strings.Join(compounds, "|") + ")"
	singlePart := "[" + string(singles) + "]"

	return "(?:" + compoundPart + cjkChar + "{1,2}|" + singlePart + cjkChar + "{1,2})"
}

// SplitName splits a full name (e.g. "褚淵", "司馬褧") into surname and given
// name. The longest compound-surname prefix wins; otherwise the first
// character is the surname. Fails on single-character input.
func SplitName(fullName string) (surname, given string, ok bool) {
	runes := []rune(fullName)
	if len(runes) < 2 {
		return "", "", false
	}

	for _, cs := range CompoundSurnames {
		if strings.HasPrefix(fullName, cs) {
			csLen := len([]rune(cs))
			if len(runes) > csLen {
				return cs, string(runes[csLen:]), true
			}
		}
	}

	return string(runes[0]), string(runes[1:]), true
}

// sortByRuneLenDesc sorts strings by character length descending, so that in
// a regex alternation longer entries match first.
func sortByRuneLenDesc(items []string) {
	sort.SliceStable(items, func(i, j int) bool {
		return len([]rune(items[i])) > len([]rune(items[j]))
	})
}
