package corpus

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Feiyang472/naive-text/internal/logger"
)

// BiographyFile is one discovered corpus text file.
type BiographyFile struct {
	Source Source
	Path   string
}

// Files whose (prefix-stripped) stem marks them as non-biography material.
var skipStems = map[string]bool{
	"目录": true, "史論": true, "史評": true, "論": true, "評": true,
	"評贊": true, "贊": true, "序": true, "注": true, "正文": true, "附錄": true,
}

// Scan walks the corpus root and discovers all biography/annals text files.
//
// Expected layout: {root}/{書名}/{NN_section}/{NN_卷名}/{NN_人名.txt}.
// Files are returned in deterministic order (alphabetical per directory).
func Scan(root string) []BiographyFile {
	var results []BiographyFile

	for _, bookDir := range sortedSubdirs(root) {
		book, ok := BookFromDirName(filepath.Base(bookDir))
		if !ok {
			continue // skip README, tooling dirs, etc.
		}

		for _, sectionDir := range sortedSubdirs(bookDir) {
			section := SectionFromDirName(filepath.Base(sectionDir))

			for _, volumeDir := range sortedSubdirs(sectionDir) {
				volume := filepath.Base(volumeDir)

				entries, err := os.ReadDir(volumeDir)
				if err != nil {
					logger.Warn("failed to read volume directory",
						zap.String("dir", volumeDir), zap.Error(err))
					continue
				}
				for _, entry := range entries {
					if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
						continue
					}
					stem := strings.TrimSuffix(entry.Name(), ".txt")
					clean, ok := stripNumericPrefix(stem)
					if !ok {
						continue
					}
					if skipStems[clean] {
						// 目录 in 本紀/載記 often carries the running
						// biography itself; everything else is skipped.
						keep := clean == "目录" &&
							(section == Annals || section == ForeignRecords)
						if !keep {
							continue
						}
					}
					if isYearFile(clean) {
						continue
					}

					path := filepath.Join(volumeDir, entry.Name())
					results = append(results, BiographyFile{
						Source: Source{
							Book:     book,
							Section:  section,
							Volume:   volume,
							FilePath: path,
						},
						Path: path,
					})
				}
			}
		}
	}

	return results
}

func sortedSubdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs
}

// stripNumericPrefix removes a leading "NN_" prefix. Biography files always
// carry one; anything without it is not a biography file.
func stripNumericPrefix(s string) (string, bool) {
	idx := strings.IndexByte(s, '_')
	if idx <= 0 {
		return s, false
	}
	prefix := s[:idx]
	for _, c := range prefix {
		if c < '0' || c > '9' {
			return s, false
		}
	}
	return s[idx+1:], true
}

// isYearFile reports whether a stem looks like a year entry (永明五年 etc.).
func isYearFile(name string) bool {
	return strings.HasSuffix(name, "年") || strings.HasSuffix(name, "年餘")
}
