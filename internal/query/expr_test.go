package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegimeQuery(t *testing.T) {
	expr, err := Parse("@劉宋")
	require.NoError(t, err)
	assert.Equal(t, ByRegime, expr.Kind)
	assert.Equal(t, "劉宋", expr.Regime)
}

func TestParseADYear(t *testing.T) {
	expr, err := Parse("450AD")
	require.NoError(t, err)
	assert.Equal(t, ADYear, expr.Kind)
	assert.Equal(t, 450, expr.AD)
}

func TestParseADRange(t *testing.T) {
	for _, in := range []string{"420AD-479AD", "420AD—479AD", "420AD~479AD"} {
		expr, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, ADRange, expr.Kind)
		assert.Equal(t, 420, expr.ADFrom)
		assert.Equal(t, 479, expr.ADTo)
	}
}

func TestParseEraOnly(t *testing.T) {
	expr, err := Parse("元嘉")
	require.NoError(t, err)
	assert.Equal(t, Single, expr.Kind)
	assert.Equal(t, "元嘉", expr.Era)
	assert.Nil(t, expr.Year)
}

func TestParseEraYearForms(t *testing.T) {
	for _, in := range []string{"元嘉3", "元嘉3年", "元嘉三年", "元嘉三"} {
		expr, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, Single, expr.Kind, in)
		assert.Equal(t, "元嘉", expr.Era, in)
		require.NotNil(t, expr.Year, in)
		assert.Equal(t, 3, *expr.Year, in)
	}
}

func TestParseEraYearHighNumber(t *testing.T) {
	expr, err := Parse("元嘉四十三年")
	require.NoError(t, err)
	require.NotNil(t, expr.Year)
	assert.Equal(t, 43, *expr.Year)
}

func TestParseEraRange(t *testing.T) {
	for _, in := range []string{"元嘉3-5", "元嘉三年-五年", "元嘉3~元嘉5"} {
		expr, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, Range, expr.Kind, in)
		assert.Equal(t, "元嘉", expr.Era, in)
		assert.Equal(t, 3, expr.YearFrom, in)
		assert.Equal(t, 5, expr.YearTo, in)
	}
}

func TestParseEraEndingInNumeralCharacter(t *testing.T) {
	// 建元 ends in 元 but is itself an era name, not 建 + year 1.
	expr, err := Parse("建元")
	require.NoError(t, err)
	assert.Equal(t, Single, expr.Kind)
	assert.Equal(t, "建元", expr.Era)
	assert.Nil(t, expr.Year)

	// With an explicit year the split works.
	expr, err = Parse("建元元年")
	require.NoError(t, err)
	assert.Equal(t, "建元", expr.Era)
	require.NotNil(t, expr.Year)
	assert.Equal(t, 1, *expr.Year)
}

func TestParseSimplifiedInput(t *testing.T) {
	// Simplified 刘宋 normalizes to traditional 劉宋 when the s2t
	// dictionaries are installed; without them the input passes through.
	expr, err := Parse("@刘宋")
	require.NoError(t, err)
	if expr.Regime == "刘宋" {
		t.Skip("s2t dictionaries not installed")
	}
	assert.Equal(t, "劉宋", expr.Regime)
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse("   ")
	assert.Error(t, err)
	_, err = Parse("@")
	assert.Error(t, err)
}
