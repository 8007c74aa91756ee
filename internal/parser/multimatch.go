package parser

import (
	"regexp"
	"strings"
)

// Side indica qué lado de un partido "A v B" interesa.
type Side int

const (
	Home Side = iota
	Away
)

var fixtureTime = regexp.MustCompile(`\(\d{1,2}:\d{2}\)`)

// SplitFixtures extrae equipos de una entrada con varios partidos.
// Divide por comas y ampersands, elimina anotaciones de hora "(20:00)" y
// de cada segmento "A v B" devuelve el lado pedido. Segmentos sin " v "
// se ignoran.
//
//	SplitFixtures("Ajax v Lazio & Rangers v Tottenham", Home)
//	→ ["Ajax", "Rangers"]
func SplitFixtures(input string, pick Side) []string {
	input = strings.ReplaceAll(input, "&", ",")

	var teams []string
	for _, seg := range strings.Split(input, ",") {
		seg = strings.TrimSpace(fixtureTime.ReplaceAllString(seg, ""))
		if seg == "" {
			continue
		}
		home, away, ok := strings.Cut(seg, " v ")
		if !ok {
			continue
		}
		if pick == Home {
			teams = append(teams, strings.TrimSpace(home))
		} else {
			teams = append(teams, strings.TrimSpace(away))
		}
	}
	return teams
}

// SimplifyMultiMatch reduce una entrada con varios partidos a una sola
// línea parseable: los equipos locales de cada partido más el texto que
// sobra tras quitar todos los equipos y los separadores "v".
func SimplifyMultiMatch(input string) string {
	homes := SplitFixtures(input, Home)
	aways := SplitFixtures(input, Away)
	if len(homes) == 0 {
		return PreprocessInput(input)
	}

	leftover := input
	for _, t := range append(append([]string(nil), homes...), aways...) {
		leftover = removeWholeWord(leftover, t)
	}
	leftover = removeWholeWord(leftover, "v")
	leftover = fixtureTime.ReplaceAllString(leftover, "")
	leftover = strings.Trim(strings.TrimSpace(leftover), ", ")

	full := strings.Join(homes, " ")
	if leftover != "" {
		full += " " + leftover
	}
	return PreprocessInput(full)
}
