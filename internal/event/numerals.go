package event

import "strings"

// cnDigit maps a single Chinese digit character to 1–9.
func cnDigit(c rune) (int, bool) {
	switch c {
	case '一':
		return 1, true
	case '二':
		return 2, true
	case '三':
		return 3, true
	case '四':
		return 4, true
	case '五':
		return 5, true
	case '六':
		return 6, true
	case '七':
		return 7, true
	case '八':
		return 8, true
	case '九':
		return 9, true
	}
	return 0, false
}

// ParseCnNumber parses a Chinese cardinal number (元/一–九十九).
//
// Handles 元, 一–九, 十, 十一–十九, 二十–九十, and 二十一–九十九. Anything
// else fails, which causes the enclosing match to be dropped rather than
// silently misdated.
func ParseCnNumber(s string) (int, bool) {
	if s == "元" {
		return 1, true
	}
	runes := []rune(s)
	switch len(runes) {
	case 1:
		if runes[0] == '十' {
			return 10, true
		}
		return cnDigit(runes[0])
	case 2:
		if runes[0] == '十' {
			d, ok := cnDigit(runes[1])
			if !ok {
				return 0, false
			}
			return 10 + d, true
		}
		if runes[1] == '十' {
			d, ok := cnDigit(runes[0])
			if !ok {
				return 0, false
			}
			return d * 10, true
		}
	case 3:
		if runes[1] == '十' {
			d1, ok1 := cnDigit(runes[0])
			d2, ok2 := cnDigit(runes[2])
			if ok1 && ok2 {
				return d1*10 + d2, true
			}
		}
	}
	return 0, false
}

// ParseCnMonth parses a Chinese month name to 1–12.
//
// Accepts plain months (正/一–十二/臘) and leap months with the 閏 prefix.
// Leap months return their base month number because the schema has no
// separate leap-month field.
func ParseCnMonth(s string) (int, bool) {
	switch s {
	case "正", "一":
		return 1, true
	case "臘":
		return 12, true
	}
	base := strings.TrimPrefix(s, "閏")
	if base == "正" {
		base = "一"
	}
	m, ok := ParseCnNumber(base)
	if !ok || m < 1 || m > 12 {
		return 0, false
	}
	return m, true
}
