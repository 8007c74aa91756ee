package domain

import (
	"fmt"
	"strings"
	"time"
)

// Score es una predicción de resultado exacto (goles local - visitante),
// siempre expresada desde la perspectiva del equipo reconocido en la apuesta.
type Score struct {
	Home int
	Away int
}

// Swapped devuelve el score con los lados invertidos. Se usa cuando el
// equipo de la apuesta juega como visitante en el evento seleccionado.
func (s Score) Swapped() Score {
	return Score{Home: s.Away, Away: s.Home}
}

// RunnerName devuelve el nombre de runner que usa el exchange para este
// resultado exacto, ej. "2 - 1".
func (s Score) RunnerName() string {
	return fmt.Sprintf("%d - %d", s.Home, s.Away)
}

// ParsedBet es el resultado de interpretar el texto libre de una apuesta.
// Es inmutable una vez devuelto: un re-parse tras mutar el directorio
// produce una instancia nueva, nunca parchea la anterior.
type ParsedBet struct {
	Teams        []string // nombres canónicos, en orden de reconocimiento
	Markets      []string // nombres canónicos de mercados
	Scores       []Score
	Unrecognized []string // fragmentos de texto sin reconocer
}

// IsEmpty devuelve true si no se reconoció ningún equipo ni mercado.
func (p ParsedBet) IsEmpty() bool {
	return len(p.Teams) == 0 && len(p.Markets) == 0
}

// BetRequest es la línea de entrada del usuario ya descompuesta.
// Explicit indica que el usuario usó el formato completo
// "bookmaker - sport - bet - odds" en una sola línea.
type BetRequest struct {
	Bookmaker string
	Sport     string
	Text      string
	Odds      float64
	Explicit  bool
}

// SavedBet es una apuesta con valor que el usuario decidió guardar.
type SavedBet struct {
	ID        string
	Bookmaker string
	Sport     string
	Text      string
	Odds      float64
	Price     float64
	Decision  ValueDecision
	CreatedAt time.Time
}

// Line devuelve la línea formateada de la apuesta guardada:
// "<bookmaker> - <Sport> - <bet> - <odds> / <price>", con el sufijo
// " 2pc" solo para la banda de tolerancia del dos por ciento.
func (b SavedBet) Line() string {
	line := fmt.Sprintf("%s - %s - %s - %v / %v",
		b.Bookmaker, DisplaySport(b.Sport), strings.TrimSpace(b.Text), b.Odds, b.Price)
	if b.Decision == TwoPercent {
		line += " 2pc"
	}
	return line
}

// DisplaySport formatea el nombre del deporte para presentación:
// siglas conocidas en mayúsculas, el resto con inicial mayúscula.
func DisplaySport(sport string) string {
	switch strings.ToLower(sport) {
	case "nba":
		return "NBA"
	case "nfl":
		return "NFL"
	case "nhl":
		return "NHL"
	case "":
		return "Football"
	}
	return strings.ToUpper(sport[:1]) + strings.ToLower(sport[1:])
}
