package parser

import (
	"testing"

	"github.com/alejandrodnm/valuebet/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTeamAliases(t *testing.T) {
	m := BuildTeamAliases([]domain.Team{
		{Name: "manchester united", Aliases: []string{"man utd", "Man United"}},
		{Name: "chelsea"},
	})

	// El nombre canónico siempre se mapea a sí mismo.
	got, ok := m.Canonical("manchester united")
	require.True(t, ok)
	assert.Equal(t, "manchester united", got)

	got, ok = m.Canonical("man utd")
	require.True(t, ok)
	assert.Equal(t, "manchester united", got)

	// Los aliases se buscan ya normalizados.
	got, ok = m.Canonical(Normalize("Man United"))
	require.True(t, ok)
	assert.Equal(t, "manchester united", got)

	_, ok = m.Canonical("liverpool")
	assert.False(t, ok)
}

func TestBuildMarketAliases(t *testing.T) {
	m := BuildMarketAliases([]domain.Market{
		{Name: "match odds", Aliases: []string{"full time result", "ftr"}},
	})

	got, ok := m.Canonical("full time result")
	require.True(t, ok)
	assert.Equal(t, "match odds", got)

	got, ok = m.Canonical("match odds")
	require.True(t, ok)
	assert.Equal(t, "match odds", got)
}

func TestAliasConflictLastWriteWins(t *testing.T) {
	m := BuildTeamAliases([]domain.Team{
		{Name: "rangers", Aliases: []string{"gers"}},
		{Name: "qpr", Aliases: []string{"gers"}},
	})

	got, ok := m.Canonical("gers")
	require.True(t, ok)
	assert.Equal(t, "qpr", got, "en conflicto gana la última entrada procesada")
}

func TestBuildAliasesEmptyData(t *testing.T) {
	assert.Empty(t, BuildTeamAliases(nil))
	assert.Empty(t, BuildMarketAliases(nil))
}
