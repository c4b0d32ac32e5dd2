// Package intext locates person-name mentions in running text via anchor
// patterns and filters out the false positives that classical Chinese prose
// produces in abundance.
package intext

import (
	"github.com/Feiyang472/naive-text/internal/nametable"
)

// blacklist holds strings that look like names (start with a surname char)
// but are actually title fragments, geographic terms, or fixed expressions.
var blacklist = map[string]bool{
	// 左/右 as title components
	"左右": true, "左丞": true, "右丞": true, "左曹": true, "右曹": true,
	"左僕射": true, "右僕射": true,
	"左長史": true, "右長史": true,
	"左西屬": true, "左西掾": true,
	"左民郎": true, "左民尚": true,
	// 黃門 compound
	"黃門侍": true, "黃門郎": true,
	// 部郎 pattern
	"都官郎": true, "金部郎": true, "倉部郎": true, "祠部郎": true,
	"殿中郎": true, "主客郎": true, "度支郎": true,
	// Geographic + 諸 / multi-state abbreviations
	"江州諸": true, "荊州諸": true, "徐州諸": true, "揚州諸": true,
	"豫州諸": true, "青州諸": true,
	"荊湘雍": true, "雍梁南": true, "徐兗青": true, "揚徐兗": true, "雍秦涼": true,
	// Fixed expressions
	"左氏": true, "左傳": true,
}

var nobilitySuffixes = map[rune]bool{'王': true, '公': true, '侯': true}

var geoSuffixes = map[rune]bool{'州': true, '郡': true, '縣': true, '國': true}

// badEndings are classical Chinese function words, verbs, and digits that
// commonly appear just after a real name in running prose; a candidate
// ending in one was captured from surrounding text.
// 之 is deliberately absent: it is a frequent real given-name suffix in the
// period (王凝之, 劉穆之).
var badEndings = map[rune]bool{
	// Prepositions / conjunctions / particles
	'爲': true, '為': true, '以': true, '請': true, '遣': true, '使': true,
	'令': true, '命': true, '率': true, '及': true,
	'與': true, '乃': true, '則': true, '即': true, '既': true, '又': true,
	'且': true, '而': true, '所': true, '於': true,
	'自': true, '從': true, '至': true, '向': true, '在': true, '由': true,
	'如': true, '若': true, '或': true, '因': true,
	'等': true, '曰': true, '諸': true,
	// Common action verbs that follow names and get captured
	'走': true, '出': true, '害': true, '救': true, '殺': true, '敗': true,
	'收': true, '攻': true, '破': true, '降': true,
	'反': true, '叛': true, '奔': true, '歸': true, '入': true, '克': true,
	'圍': true, '據': true, '討': true, '拒': true,
	'聞': true, '送': true, '屯': true, '還': true,
	// Digits
	'二': true, '三': true, '四': true, '五': true, '六': true, '七': true,
	'八': true, '九': true, '十': true,
	'百': true, '千': true, '萬': true,
}

// IsFalsePositive reports whether a captured name is not actually a person.
func IsFalsePositive(name string) bool {
	if blacklist[name] {
		return true
	}

	// A name ending in a title suffix is a title chain, not a person.
	if nametable.HasTitleSuffix(name) {
		return true
	}

	runes := []rune(name)
	if len(runes) == 0 {
		return true
	}
	last := runes[len(runes)-1]

	// "江夏王" (3 chars ending in 王) is a fief title; "王猛" (2 chars
	// starting with 王) is a real person.
	if len(runes) >= 3 && nobilitySuffixes[last] {
		return true
	}

	if geoSuffixes[last] {
		return true
	}

	return badEndings[last]
}
