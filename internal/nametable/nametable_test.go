package nametable

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name     string
		full     string
		surname  string
		given    string
		ok       bool
	}{
		{"single-char surname", "褚淵", "褚", "淵", true},
		{"single-char surname 2", "韓秀", "韓", "秀", true},
		{"compound surname", "司馬褧", "司馬", "褧", true},
		{"compound surname two-char given", "禿髮烏孤", "禿髮", "烏孤", true},
		{"two-char given", "柳世隆", "柳", "世隆", true},
		{"too short", "王", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surname, given, ok := SplitName(tt.full)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.surname, surname)
			assert.Equal(t, tt.given, given)
		})
	}
}

func TestBuildNameRegex(t *testing.T) {
	re, err := regexp.Compile(BuildNameRegex(nil))
	require.NoError(t, err)

	// On its own the fragment takes two given-name characters when it can
	// (為 included); the scanners' trailing anchors make it back off to the
	// real name.
	// Compound surname before single-char surname
	assert.Equal(t, "司馬褧為", re.FindString("司馬褧為將"))
	// Plain single-char surname names
	assert.Equal(t, "王進為", re.FindString("以王進為冠軍將軍"))
	assert.Equal(t, "柳世隆", re.FindString("柳世隆攻郢城"))
	// Punctuation terminates the given name
	assert.Equal(t, "王進", re.FindString("王進，字某"))
}

func TestBuildNameRegexExtraSurnames(t *testing.T) {
	base, err := regexp.Compile(BuildNameRegex(nil))
	require.NoError(t, err)
	// 万俟 is not in the static tables
	assert.False(t, strings.HasPrefix(base.FindString("万俟醜奴反"), "万俟"))

	re, err := regexp.Compile(BuildNameRegex([]string{"万俟"}))
	require.NoError(t, err)
	assert.Equal(t, "万俟醜奴", re.FindString("万俟醜奴反"))
}

func TestBuildTitleRegexLongestFirst(t *testing.T) {
	re, err := regexp.Compile(BuildTitleRegex())
	require.NoError(t, err)
	// Two-char suffixes must match in full
	assert.Equal(t, "將軍", re.FindString("冠軍將軍王進"))
	assert.Equal(t, "刺史", re.FindString("益州刺史"))
	assert.Equal(t, "太尉", re.FindString("太尉王進"))
}

func TestHasTitleSuffix(t *testing.T) {
	assert.True(t, HasTitleSuffix("左僕射"))
	assert.True(t, HasTitleSuffix("益州刺史"))
	assert.True(t, HasTitleSuffix("太尉"))
	assert.False(t, HasTitleSuffix("王進"))
	assert.False(t, HasTitleSuffix("劉穆之"))
}
