package pipeline

import (
	"os"
	"strings"

	"github.com/Feiyang472/naive-text/internal/biography"
	"github.com/Feiyang472/naive-text/internal/output"
)

// buildPersonSummary converts a parsed person into its emitted form,
// counting how often each alias occurs in the subject's own biography.
func buildPersonSummary(p *biography.Person) output.PersonSummary {
	summary := output.PersonSummary{
		DisplayName:  p.DisplayName(),
		Book:         string(p.Source.Book),
		Section:      string(p.Source.Section),
		Kind:         string(p.Kind),
		Aliases:      p.Aliases,
		RefStats:     countRefsInBiography(p),
		CourtesyName: p.Courtesy,
		Origin:       p.Origin,
		File:         p.Source.FilePath,
	}
	return summary
}

// countRefsInBiography counts alias occurrences in the person's own file.
// Read failures yield empty stats; the pipeline has already logged them.
func countRefsInBiography(p *biography.Person) output.RefStats {
	stats := output.RefStats{AliasCounts: make(map[string]int)}

	data, err := os.ReadFile(p.Source.FilePath)
	if err != nil {
		return stats
	}
	content := string(data)
	stats.TotalLines = strings.Count(content, "\n") + 1

	for _, alias := range p.Aliases {
		if alias == "" {
			continue
		}
		if n := strings.Count(content, alias); n > 0 {
			stats.AliasCounts[alias] = n
		}
	}
	return stats
}
