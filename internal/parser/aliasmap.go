package parser

import (
	"log/slog"

	"github.com/alejandrodnm/valuebet/internal/domain"
)

// AliasMap mapea cada alias normalizado a su nombre canónico.
// Invariante: el nombre canónico normalizado siempre está presente como
// clave de sí mismo.
type AliasMap map[string]string

// Canonical resuelve un alias normalizado a su nombre canónico.
func (m AliasMap) Canonical(alias string) (string, bool) {
	name, ok := m[alias]
	return name, ok
}

// BuildTeamAliases construye el mapa de aliases de equipos a partir del
// snapshot del directorio. Un alias normalizado compartido por dos equipos
// distintos se registra como conflicto y gana la última entrada procesada.
func BuildTeamAliases(teams []domain.Team) AliasMap {
	if len(teams) == 0 {
		slog.Warn("no team data, building empty alias map")
		return AliasMap{}
	}

	m := make(AliasMap, len(teams)*2)
	for _, t := range teams {
		m.insert(Normalize(t.Name), t.Name)
		for _, a := range t.Aliases {
			if norm := Normalize(a); norm != "" {
				m.insert(norm, t.Name)
			}
		}
	}
	return m
}

// BuildMarketAliases construye el mapa de aliases de mercados. El nombre
// canónico del mercado cuenta siempre como alias aunque no esté declarado.
func BuildMarketAliases(markets []domain.Market) AliasMap {
	if len(markets) == 0 {
		slog.Warn("no market data, building empty alias map")
		return AliasMap{}
	}

	m := make(AliasMap, len(markets)*2)
	for _, mkt := range markets {
		m.insert(Normalize(mkt.Name), mkt.Name)
		for _, a := range mkt.Aliases {
			if norm := Normalize(a); norm != "" {
				m.insert(norm, mkt.Name)
			}
		}
	}
	return m
}

// insert aplica last-write-wins en conflictos entre entidades distintas,
// dejando rastro en el log para que el conflicto sea visible en vez de
// desaparecer en silencio.
func (m AliasMap) insert(norm, canonical string) {
	if prev, ok := m[norm]; ok && prev != canonical {
		slog.Warn("alias conflict, keeping last entry",
			"alias", norm,
			"previous", prev,
			"now", canonical,
		)
	}
	m[norm] = canonical
}
