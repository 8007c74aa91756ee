package fuzz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio_Identical(t *testing.T) {
	assert.Equal(t, 100, Ratio("match odds", "match odds"))
}

func TestRatio_Empty(t *testing.T) {
	assert.Equal(t, 100, Ratio("", ""))
	assert.Equal(t, 0, Ratio("chelsea", ""))
}

func TestRatio_Symmetric(t *testing.T) {
	a, b := "over 2.5 goals", "over/under 2.5 goals"
	assert.Equal(t, Ratio(a, b), Ratio(b, a))
}

func TestRatio_CloseStrings(t *testing.T) {
	score := Ratio("chelsea", "chelsey")
	assert.Greater(t, score, 80)
	assert.Less(t, score, 100)
}

func TestRatio_Unrelated(t *testing.T) {
	assert.Less(t, Ratio("arsenal", "over 2.5"), 40)
}

func TestClosest_CutoffAndOrder(t *testing.T) {
	candidates := []string{"manchester united", "manchester city", "chelsea", "man utd"}

	got := Closest("manchester utd", candidates, 5, 0.6)
	assert.NotEmpty(t, got)
	assert.Equal(t, "manchester united", got[0])
	assert.NotContains(t, got, "chelsea")
}

func TestClosest_LimitsResults(t *testing.T) {
	candidates := []string{"rangers", "ranger", "rangerss", "rangers fc", "the rangers", "glasgow rangers"}
	got := Closest("rangers", candidates, 3, 0.6)
	assert.Len(t, got, 3)
	assert.Equal(t, "rangers", got[0])
}

func TestClosest_NoMatches(t *testing.T) {
	assert.Empty(t, Closest("zzzz", []string{"chelsea", "arsenal"}, 5, 0.6))
}
