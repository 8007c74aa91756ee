package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInputLineExplicit(t *testing.T) {
	req := ParseInputLine("bet365 - Football - chelsea to win - 2.5")

	assert.True(t, req.Explicit)
	assert.Equal(t, "bet365", req.Bookmaker)
	assert.Equal(t, "football", req.Sport)
	assert.Equal(t, "chelsea to win", req.Text)
	assert.Equal(t, 2.5, req.Odds)
}

func TestParseInputLineFreeText(t *testing.T) {
	req := ParseInputLine("chelsea to win")

	assert.False(t, req.Explicit)
	assert.Equal(t, "chelsea to win", req.Text)
	assert.Zero(t, req.Odds)
}

func TestParseInputLineInvalidOddsFallsBack(t *testing.T) {
	// Tres separadores pero cuotas no numéricas: degrada a texto libre.
	req := ParseInputLine("bet365 - football - chelsea to win - abc")

	assert.False(t, req.Explicit)
	assert.Equal(t, "bet365 - football - chelsea to win - abc", req.Text)
}

func TestParseInputLineTooFewParts(t *testing.T) {
	req := ParseInputLine("bet365 - chelsea to win - 2.5")

	assert.False(t, req.Explicit)
}

func TestAskOdds(t *testing.T) {
	p := NewPrompter(strings.NewReader("2.75\n"), &bytes.Buffer{})

	odds, ok := p.AskOdds()
	require.True(t, ok)
	assert.Equal(t, 2.75, odds)
}

func TestAskOddsRetriesThenFails(t *testing.T) {
	p := NewPrompter(strings.NewReader("abc\n0.5\n-1\n"), &bytes.Buffer{})

	_, ok := p.AskOdds()
	assert.False(t, ok)
}

func TestAskYesNo(t *testing.T) {
	p := NewPrompter(strings.NewReader("y\nn\n\n"), &bytes.Buffer{})

	assert.True(t, p.AskYesNo("Save it?", false))
	assert.False(t, p.AskYesNo("Save it?", true))
	// Respuesta vacía usa el valor por defecto.
	assert.True(t, p.AskYesNo("Save it?", true))
}
