// Package testutil provides shared fixtures for testing the extraction
// pipeline against small synthetic corpora.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Feiyang472/naive-text/internal/corpus"
)

// CorpusFile describes one file of a synthetic corpus.
type CorpusFile struct {
	Book    string // e.g. "宋書"
	Section string // e.g. "03_列傳"
	Volume  string // e.g. "04_列傳第四　褚淵"
	Name    string // e.g. "02_褚淵.txt"
	Content string
}

// WriteCorpus materializes the given files under a fresh temp directory laid
// out the way the real corpus is, and returns its root.
func WriteCorpus(t *testing.T, files []CorpusFile) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		dir := filepath.Join(root, f.Book, f.Section, f.Volume)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, f.Name), []byte(f.Content), 0o644))
	}
	return root
}

// WriteBiographyFile writes content to a temp file and returns it wrapped as
// a discovered corpus file, for tests that drive parsers directly.
func WriteBiographyFile(t *testing.T, book corpus.Book, section corpus.Section, volume, content string) corpus.BiographyFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "01_bio.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return corpus.BiographyFile{
		Source: corpus.Source{
			Book:     book,
			Section:  section,
			Volume:   volume,
			FilePath: path,
		},
		Path: path,
	}
}
