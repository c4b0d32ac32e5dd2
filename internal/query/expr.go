// Package query parses textual time queries and answers them against the
// emitted datasets.
package query

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Feiyang472/naive-text/internal/event"
	"github.com/Feiyang472/naive-text/internal/regime"
	"github.com/Feiyang472/naive-text/internal/zhconv"
)

// ExprKind discriminates the query variants.
type ExprKind string

const (
	// Single — one era, optionally one year.
	Single ExprKind = "single"
	// Range — one era, a closed year range.
	Range ExprKind = "range"
	// ByRegime — everything under one regime.
	ByRegime ExprKind = "regime"
	// ADYear — one absolute AD year.
	ADYear ExprKind = "ad_year"
	// ADRange — a closed absolute AD range.
	ADRange ExprKind = "ad_range"
)

// Expr is a parsed query expression.
type Expr struct {
	Kind     ExprKind
	Era      string
	Year     *int
	YearFrom int
	YearTo   int
	Regime   string
	AD       int
	ADFrom   int
	ADTo     int
}

var dashes = []string{"-", "—", "~"}

// Parse turns a query string into an expression. Simplified Chinese input
// is normalized to traditional first, so the query surface accepts both.
func Parse(input string) (*Expr, error) {
	s := zhconv.ToTraditional(strings.TrimSpace(input))
	if s == "" {
		return nil, fmt.Errorf("empty query")
	}

	// 1. @regime
	if rest, ok := strings.CutPrefix(s, "@"); ok {
		if rest == "" {
			return nil, fmt.Errorf("empty regime query")
		}
		return &Expr{Kind: ByRegime, Regime: rest}, nil
	}

	// 2–3. {digits}AD forms.
	if from, to, ok := splitDash(s); ok {
		fromAD, okFrom := parseADLiteral(from)
		toAD, okTo := parseADLiteral(to)
		if okFrom && okTo {
			return &Expr{Kind: ADRange, ADFrom: fromAD, ADTo: toAD}, nil
		}
	}
	if ad, ok := parseADLiteral(s); ok {
		return &Expr{Kind: ADYear, AD: ad}, nil
	}

	// 4. Era range split on the first dash.
	if left, right, ok := splitDash(s); ok {
		eraL, yearL, errL := parseEraYear(left)
		eraR, yearR, errR := parseEraYear(right)
		if errL != nil {
			return nil, errL
		}
		if errR != nil {
			return nil, errR
		}
		era := eraL
		if era == "" {
			era = eraR
		}
		if era == "" || yearL == nil || yearR == nil {
			return nil, fmt.Errorf("invalid range query %q", input)
		}
		return &Expr{Kind: Range, Era: era, YearFrom: *yearL, YearTo: *yearR}, nil
	}

	// 5. Plain era with optional year.
	era, year, err := parseEraYear(s)
	if err != nil {
		return nil, err
	}
	if era == "" {
		return nil, fmt.Errorf("cannot parse query %q", input)
	}
	return &Expr{Kind: Single, Era: era, Year: year}, nil
}

// splitDash splits on the first dash character. Both sides must be
// non-empty.
func splitDash(s string) (left, right string, ok bool) {
	best := -1
	bestLen := 0
	for _, d := range dashes {
		if idx := strings.Index(s, d); idx >= 0 && (best < 0 || idx < best) {
			best = idx
			bestLen = len(d)
		}
	}
	if best <= 0 || best+bestLen >= len(s) {
		return "", "", false
	}
	return s[:best], s[best+bestLen:], true
}

// parseADLiteral parses "{digits}AD".
func parseADLiteral(s string) (int, bool) {
	s = strings.TrimSpace(s)
	digits, ok := strings.CutSuffix(s, "AD")
	if !ok || digits == "" {
		return 0, false
	}
	return parseASCIIDigits(digits)
}

func parseASCIIDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// parseEraYear splits a token like 元嘉, 元嘉3, 元嘉3年, or 元嘉三年 into an
// era name and optional year. A trailing 年 suffix is stripped first; the
// year is then tried as pure ASCII digits, as ASCII digits trailing a
// non-digit prefix, and finally as a 1–3 rune Chinese numeral suffix.
func parseEraYear(s string) (era string, year *int, err error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "年")
	if s == "" {
		return "", nil, fmt.Errorf("empty era token")
	}

	// Pure digits (right side of ranges like 元嘉3-5 or 元嘉三-五).
	if n, ok := parseASCIIDigits(s); ok {
		return "", &n, nil
	}
	if n, ok := event.ParseCnNumber(s); ok && !isKnownEra(s) {
		return "", &n, nil
	}

	// ASCII digits trailing after non-digits.
	if idx := firstDigitIndex(s); idx > 0 {
		if n, ok := parseASCIIDigits(s[idx:]); ok {
			return s[:idx], &n, nil
		}
	}

	// Chinese numeral suffix of length 1–3. Era names themselves can end
	// in numeral-like characters (建元), so the split must leave a known
	// era name behind.
	runes := []rune(s)
	for take := 3; take >= 1; take-- {
		if len(runes) <= take {
			continue
		}
		suffix := string(runes[len(runes)-take:])
		if n, ok := event.ParseCnNumber(suffix); ok {
			prefix := string(runes[:len(runes)-take])
			if isKnownEra(prefix) {
				return prefix, &n, nil
			}
		}
	}

	return s, nil, nil
}

func isKnownEra(name string) bool {
	for _, e := range regime.Catalogue {
		if e.Name == name {
			return true
		}
	}
	return false
}

func firstDigitIndex(s string) int {
	for i, r := range s {
		if unicode.IsDigit(r) {
			return i
		}
	}
	return -1
}
