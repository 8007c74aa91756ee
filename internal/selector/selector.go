package selector

// selector.go — heurísticas de desambiguación de evento, mercado y runner.
//
// El scoring favorece el match exacto de nombre sobre el orden
// cronológico, pero entre eventos con el mismo score gana el que empieza
// antes. La selección de runner aplica reglas específicas por tipo de
// mercado en orden de precedencia, con fallback difuso final.

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/alejandrodnm/valuebet/internal/domain"
	"github.com/alejandrodnm/valuebet/internal/fuzz"
)

var (
	versusSplit = regexp.MustCompile(`(?i)\s+v\s+|\s+vs\s+|\s+@\s+`)
	eventSides  = regexp.MustCompile(`(?i)\sv\s`)
	ouLine      = regexp.MustCompile(`over\s*([0-9]+\.[0-9])\s*goals`)
)

// ScoreTeamInName puntúa cuánto se parece el lado de un evento al equipo
// buscado. Match exacto (sin mayúsculas) vale 300; prefijo vale hasta 250
// penalizado por la longitud sobrante; el resto usa el ratio de similitud
// 0–100.
func ScoreTeamInName(side, team string) int {
	s := strings.ToLower(strings.TrimSpace(side))
	t := strings.ToLower(strings.TrimSpace(team))

	switch {
	case s == t:
		return 300
	case strings.HasPrefix(s, t):
		score := 250 - 10*(len(s)-len(t))
		if score < 1 {
			return 1
		}
		return score
	}
	return fuzz.Ratio(t, s)
}

// ScoreEvent puntúa un nombre de evento contra el equipo. Si el nombre se
// divide en exactamente dos lados ("A v B", "A vs B", "A @ B"), puntúa
// cada lado y toma el máximo; si no, puntúa el nombre entero.
func ScoreEvent(eventName, team string) int {
	parts := versusSplit.Split(eventName, -1)
	if len(parts) == 2 {
		s1 := ScoreTeamInName(parts[0], team)
		s2 := ScoreTeamInName(parts[1], team)
		if s1 >= s2 {
			return s1
		}
		return s2
	}
	return ScoreTeamInName(eventName, team)
}

// PickBestEvent elige el evento con mejor score para el equipo; entre
// scores iguales gana el kickoff más próximo. Si el mejor score no llega
// a 1, no hay evento razonable y devuelve false.
func PickBestEvent(events []domain.Event, team string) (domain.Event, bool) {
	if len(events) == 0 {
		return domain.Event{}, false
	}

	type scored struct {
		event domain.Event
		score int
	}
	ranked := make([]scored, len(events))
	for i, e := range events {
		ranked[i] = scored{event: e, score: ScoreEvent(e.Name, team)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].event.OpenDate.Before(ranked[j].event.OpenDate)
	})

	if ranked[0].score < 1 {
		slog.Debug("no event scored above threshold", "team", team)
		return domain.Event{}, false
	}
	return ranked[0].event, true
}

// PickBestMarket elige el mercado del catálogo. Hoy es el primero que
// devuelve el exchange para el filtro de evento y tipos; simplificación
// asumida, no un ranking.
func PickBestMarket(catalogues []domain.MarketCatalogue) (domain.MarketCatalogue, bool) {
	if len(catalogues) == 0 {
		return domain.MarketCatalogue{}, false
	}
	return catalogues[0], true
}

// SplitEventSides separa "A v B" en sus dos lados. ok es false si el
// nombre no tiene exactamente dos lados.
func SplitEventSides(eventName string) (home, away string, ok bool) {
	parts := eventSides.Split(eventName, -1)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// IsHomeSide decide si el equipo ocupa el lado local del evento comparando
// el score contra ambos lados. Sin lados determinables asume local.
func IsHomeSide(eventName, team string) bool {
	home, away, ok := SplitEventSides(eventName)
	if !ok {
		return true
	}
	return ScoreTeamInName(home, team) >= ScoreTeamInName(away, team)
}

// ResolveWinToNil decide la variante del mercado "to win to nil" según el
// lado del evento que ocupe el equipo.
func ResolveWinToNil(eventName, team string) []string {
	if IsHomeSide(eventName, team) {
		return []string{TypeTeamAWinToNil}
	}
	return []string{TypeTeamBWinToNil}
}

// PickBestRunner elige el runner de un mercado aplicando reglas por tipo
// de mercado en orden de precedencia; cada regla cede a la siguiente si no
// encuentra candidato. El fallback difuso final siempre devuelve un runner
// si la lista no está vacía.
func PickBestRunner(runners []domain.Runner, team string, typeCodes []string, marketName, eventName string) (domain.Runner, bool) {
	if len(runners) == 0 {
		return domain.Runner{}, false
	}

	teamNorm := strings.ToLower(strings.TrimSpace(team))
	home, away, hasSides := SplitEventSides(eventName)
	isHome := true
	if hasSides {
		isHome = ScoreTeamInName(home, team) >= ScoreTeamInName(away, team)
	}

	if hasCode(typeCodes, TypeHalfTimeFullTime) {
		if r, ok := pickHalfTimeFullTime(runners, teamNorm, home, away, hasSides, isHome); ok {
			return r, true
		}
	}

	if hasCode(typeCodes, TypeMatchOdds) {
		if r, ok := findRunnerExact(runners, teamNorm); ok {
			return r, true
		}
		return fuzziestRunner(runners, teamNorm)
	}

	if hasCode(typeCodes, TypeMatchOddsAndBTTS) {
		if r, ok := findRunnerExact(runners, teamNorm+"/yes"); ok {
			return r, true
		}
		if r, ok := findRunnerContaining(runners, teamNorm, "yes", "over"); ok {
			return r, true
		}
	}

	if hasCodePrefix(typeCodes, prefixMatchOddsAndOU) {
		if m := ouLine.FindStringSubmatch(strings.ToLower(marketName)); m != nil {
			if r, ok := findRunnerExact(runners, teamNorm+"/over "+m[1]); ok {
				return r, true
			}
		}
		if r, ok := findRunnerContaining(runners, teamNorm, "over"); ok {
			return r, true
		}
	}

	if hasCodePrefix(typeCodes, prefixOverUnder) {
		if r, ok := findRunnerContaining(runners, "over"); ok {
			return r, true
		}
	}

	if hasCode(typeCodes, TypeTeamAWinToNil) || hasCode(typeCodes, TypeTeamBWinToNil) {
		if r, ok := findRunnerExact(runners, "yes"); ok {
			return r, true
		}
	}

	// Mercados de córners y de goles del primer tiempo comparten la regla
	// del "over".
	if hasCodeSubstring(typeCodes, "cornr") || hasCodeSubstring(typeCodes, "first_half_goals") {
		if r, ok := findRunnerContaining(runners, "over"); ok {
			return r, true
		}
	}

	if r, ok := findRunnerContainingAny(runners, "yes", "over"); ok {
		return r, true
	}

	return fuzziestRunner(runners, teamNorm)
}

// pickHalfTimeFullTime prueba las combinaciones literales "Lado/Lado" del
// mercado medio tiempo/final en orden de preferencia.
func pickHalfTimeFullTime(runners []domain.Runner, team, home, away string, hasSides, isHome bool) (domain.Runner, bool) {
	teamSide := team
	otherSide := ""
	if hasSides {
		if isHome {
			teamSide, otherSide = strings.ToLower(home), strings.ToLower(away)
		} else {
			teamSide, otherSide = strings.ToLower(away), strings.ToLower(home)
		}
	}

	candidates := []string{
		teamSide + "/" + teamSide,
		teamSide + "/draw",
	}
	if otherSide != "" {
		candidates = append(candidates,
			teamSide+"/"+otherSide,
			"draw/"+teamSide,
			otherSide+"/"+teamSide,
		)
	} else {
		candidates = append(candidates, "draw/"+teamSide)
	}

	for _, c := range candidates {
		if r, ok := findRunnerExact(runners, c); ok {
			return r, true
		}
	}
	return domain.Runner{}, false
}

// findRunnerExact busca un runner por nombre exacto, sin mayúsculas.
func findRunnerExact(runners []domain.Runner, name string) (domain.Runner, bool) {
	for _, r := range runners {
		if strings.EqualFold(strings.TrimSpace(r.Name), name) {
			return r, true
		}
	}
	return domain.Runner{}, false
}

// findRunnerContaining busca el primer runner cuyo nombre contenga todos
// los substrings obligatorios menos el último grupo: el primer argumento
// es obligatorio y del resto basta uno.
func findRunnerContaining(runners []domain.Runner, must string, anyOf ...string) (domain.Runner, bool) {
	for _, r := range runners {
		name := strings.ToLower(r.Name)
		if !strings.Contains(name, must) {
			continue
		}
		if len(anyOf) == 0 {
			return r, true
		}
		for _, s := range anyOf {
			if strings.Contains(name, s) {
				return r, true
			}
		}
	}
	return domain.Runner{}, false
}

func findRunnerContainingAny(runners []domain.Runner, subs ...string) (domain.Runner, bool) {
	for _, r := range runners {
		name := strings.ToLower(strings.TrimSpace(r.Name))
		for _, s := range subs {
			if strings.Contains(name, s) {
				return r, true
			}
		}
	}
	return domain.Runner{}, false
}

// fuzziestRunner devuelve el runner con mayor similitud al equipo; los
// empates los resuelve la primera aparición.
func fuzziestRunner(runners []domain.Runner, team string) (domain.Runner, bool) {
	if len(runners) == 0 {
		return domain.Runner{}, false
	}
	best := runners[0]
	bestScore := -1
	for _, r := range runners {
		if score := fuzz.Ratio(team, strings.ToLower(strings.TrimSpace(r.Name))); score > bestScore {
			bestScore = score
			best = r
		}
	}
	return best, true
}

func hasCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

func hasCodePrefix(codes []string, prefix string) bool {
	for _, c := range codes {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func hasCodeSubstring(codes []string, sub string) bool {
	for _, c := range codes {
		if strings.Contains(strings.ToLower(c), sub) {
			return true
		}
	}
	return false
}
