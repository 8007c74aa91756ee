package selector

import (
	"log/slog"
	"strings"
)

// Códigos de tipo de mercado del exchange usados por las reglas de
// selección de runner.
const (
	TypeMatchOdds        = "MATCH_ODDS"
	TypeMoneyLine        = "MONEY_LINE"
	TypeCorrectScore     = "CORRECT_SCORE"
	TypeHalfTimeFullTime = "HALF_TIME_FULL_TIME"
	TypeMatchOddsAndBTTS = "MATCH_ODDS_AND_BTTS"
	TypeTeamAWinToNil    = "TEAM_A_WIN_TO_NIL"
	TypeTeamBWinToNil    = "TEAM_B_WIN_TO_NIL"

	prefixMatchOddsAndOU = "MATCH_ODDS_AND_OU_"
	prefixOverUnder      = "OVER_UNDER_"
)

// winToNilMarket se resuelve a TEAM_A/TEAM_B según el lado del evento que
// ocupe el equipo, no por tabla.
const winToNilMarket = "to win to nil"

// Mapper traduce nombres canónicos de mercado a códigos de tipo del
// exchange, con fallback por deporte. La tabla viene de configuración y
// se trata como inmutable.
type Mapper struct {
	table map[string][]string
}

// NewMapper crea un Mapper sobre la tabla nombre→códigos dada.
func NewMapper(table map[string][]string) *Mapper {
	if table == nil {
		table = map[string][]string{}
	}
	return &Mapper{table: table}
}

// TypeCodes devuelve los códigos de tipo para un nombre de mercado.
// Nunca falla: sin entrada en la tabla devuelve el fallback del deporte
// (MATCH_ODDS para fútbol, MONEY_LINE para el resto). El caso especial
// "to win to nil" devuelve lista vacía; su variante A/B la resuelve el
// selector mirando el evento.
func (m *Mapper) TypeCodes(marketName, sport string) []string {
	if marketName == "" {
		marketName = "match odds"
	}
	name := strings.ToLower(strings.TrimSpace(marketName))

	if name == winToNilMarket {
		return []string{}
	}

	if codes, ok := m.table[name]; ok {
		return codes
	}

	if strings.ToLower(sport) == "football" {
		slog.Debug("no mapping for market, using football fallback", "market", name)
		return []string{TypeMatchOdds}
	}
	slog.Debug("no mapping for market, using generic fallback", "market", name, "sport", sport)
	return []string{TypeMoneyLine}
}

// InferSport deduce el deporte a partir del nombre del mercado
// ("moneyline_nba" → nba). Sin pista reconocible asume fútbol.
func InferSport(marketName string) string {
	name := strings.ToLower(marketName)
	switch {
	case strings.Contains(name, "nba"):
		return "nba"
	case strings.Contains(name, "nfl"):
		return "nfl"
	case strings.Contains(name, "nhl"):
		return "nhl"
	}
	return "football"
}
