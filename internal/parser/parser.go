package parser

// parser.go — intérprete de texto libre de apuestas.
//
// Pipeline sobre el texto normalizado:
//  1. equipos por greedy longest-match contra el mapa de aliases
//  2. mercados por reducción difusa iterativa con guardia de convergencia
//  3. detección de resultados exactos "H-A"
// Lo que sobra queda como fragmento sin reconocer, para que la capa de
// consola ofrezca clasificarlo.

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/alejandrodnm/valuebet/internal/domain"
	"github.com/alejandrodnm/valuebet/internal/fuzz"
	"github.com/alejandrodnm/valuebet/internal/ports"
)

const correctScoreMarket = "correct score"

var scorePattern = regexp.MustCompile(`(\d+)-(\d+)`)

// Config controla el comportamiento del parser. Se construye una vez al
// arrancar y se trata como inmutable.
type Config struct {
	// FuzzyThreshold es el score mínimo (0–100) para aceptar un mercado
	// en la reducción difusa.
	FuzzyThreshold int
	// FillerWords son palabras de relleno que se descartan antes de cada
	// intento de match de mercado ("and", "or", "the"...).
	FillerWords []string
	// SportKeywords son nombres de deporte/liga que no son mercados y se
	// eliminan del texto antes de buscar mercados.
	SportKeywords []string
	// DefaultMarket es el mercado de resultado por defecto ("match odds").
	DefaultMarket string
}

// Parser interpreta texto libre de apuestas contra un snapshot del
// directorio. Es seguro reutilizarlo entre llamadas; todo el estado de un
// parse es local a Parse.
type Parser struct {
	cfg        Config
	fillers    map[string]bool
	sports     map[string]bool
	classifier ports.Classifier
	dir        ports.Directory
}

// New crea un Parser. classifier y dir pueden ser nil: en ese caso los
// equipos que no estén en el snapshot se dejan tal cual.
func New(cfg Config, classifier ports.Classifier, dir ports.Directory) *Parser {
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = 80
	}
	if cfg.DefaultMarket == "" {
		cfg.DefaultMarket = "match odds"
	}

	fillers := make(map[string]bool, len(cfg.FillerWords))
	for _, w := range cfg.FillerWords {
		fillers[w] = true
	}
	sports := make(map[string]bool, len(cfg.SportKeywords))
	for _, w := range cfg.SportKeywords {
		sports[w] = true
	}

	return &Parser{cfg: cfg, fillers: fillers, sports: sports, classifier: classifier, dir: dir}
}

// teamMatch es un equipo reconocido junto al texto exacto que lo produjo.
type teamMatch struct {
	canonical string
	matched   string
}

// Parse interpreta el texto de una apuesta y devuelve el resultado
// estructurado. El snapshot no se muta; si el clasificador muta el
// directorio, el caller debe pedir un snapshot nuevo y re-parsear.
func (p *Parser) Parse(ctx context.Context, input string, snap domain.Snapshot) domain.ParsedBet {
	if len(snap.Teams) == 0 {
		slog.Warn("parsing with empty team directory")
	}
	if len(snap.Markets) == 0 {
		slog.Warn("parsing with empty market directory")
	}

	text := FullyNormalize(input)
	slog.Debug("parsing bet", "input", input, "normalized", text)

	teamAliases := BuildTeamAliases(snap.Teams)
	matches := findTeams(text, teamAliases)

	// Eliminar del texto los equipos reconocidos, por palabra completa.
	leftover := text
	for _, m := range matches {
		leftover = removeWholeWord(leftover, m.matched)
	}

	// Eliminar palabras de deporte/liga que no son mercados.
	var tokens []string
	for _, w := range strings.Fields(leftover) {
		if !p.sports[w] {
			tokens = append(tokens, w)
		}
	}
	leftover = strings.Join(tokens, " ")

	markets, leftoverTokens := p.reduceMarkets(leftover, snap.Markets)

	teams := p.resolveTeams(ctx, matches, snap)

	// Heurística post-loop: sin mercado pero con equipos y un "win"
	// suelto, la intención es el mercado de resultado por defecto.
	if len(markets) == 0 && len(teams) > 0 && containsToken(leftoverTokens, "win") {
		markets = append(markets, p.cfg.DefaultMarket)
		leftoverTokens = dropTokens(leftoverTokens, "win", "to")
	}

	scores, leftoverTokens := extractScores(leftoverTokens)
	if len(scores) > 0 && !containsToken(markets, correctScoreMarket) {
		markets = append(markets, correctScoreMarket)
	}

	bet := domain.ParsedBet{Teams: teams, Markets: markets, Scores: scores}
	if len(leftoverTokens) > 0 {
		bet.Unrecognized = []string{strings.Join(leftoverTokens, " ")}
	}
	if bet.IsEmpty() {
		slog.Warn("no teams or markets identified", "input", input)
	}

	slog.Debug("parse complete",
		"teams", bet.Teams,
		"markets", bet.Markets,
		"scores", len(bet.Scores),
		"unrecognized", bet.Unrecognized,
	)
	return bet
}

// findTeams reconoce equipos por greedy longest-match: prueba ventanas de
// tokens de mayor a menor longitud, y en cada longitud escanea de izquierda
// a derecha saltando posiciones ya consumidas. Garantiza matches sin
// solapamiento y prefiere siempre el span más largo posible.
func findTeams(text string, aliases AliasMap) []teamMatch {
	var tokens []string
	for _, t := range strings.Fields(text) {
		if c := CleanToken(t); c != "" {
			tokens = append(tokens, c)
		}
	}

	var found []teamMatch
	used := make([]bool, len(tokens))

	for length := len(tokens); length >= 1; length-- {
		i := 0
		for i+length <= len(tokens) {
			if anyUsed(used, i, length) {
				i++
				continue
			}
			candidate := strings.Join(tokens[i:i+length], " ")
			if canonical, ok := aliases.Canonical(Normalize(candidate)); ok {
				found = append(found, teamMatch{canonical: canonical, matched: candidate})
				for x := 0; x < length; x++ {
					used[i+x] = true
				}
				i += length
			} else {
				i++
			}
		}
	}

	// Reordenar por posición del match en el texto original, no por
	// longitud de ventana.
	sortByPosition(found, tokens)
	return found
}

// sortByPosition ordena los matches por el índice del primer token que
// consumieron, de izquierda a derecha.
func sortByPosition(found []teamMatch, tokens []string) {
	if len(found) < 2 {
		return
	}
	pos := func(m teamMatch) int {
		want := strings.Fields(m.matched)
		for i := 0; i+len(want) <= len(tokens); i++ {
			if equalFoldSlice(tokens[i:i+len(want)], want) {
				return i
			}
		}
		return len(tokens)
	}
	for i := 1; i < len(found); i++ {
		for j := i; j > 0 && pos(found[j-1]) > pos(found[j]); j-- {
			found[j-1], found[j] = found[j], found[j-1]
		}
	}
}

func equalFoldSlice(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func anyUsed(used []bool, start, length int) bool {
	for x := 0; x < length; x++ {
		if used[start+x] {
			return true
		}
	}
	return false
}

// resolveTeams pasa por el clasificador los equipos cuyo nombre canónico no
// está en el snapshot. Con clasificador nil se devuelven tal cual.
func (p *Parser) resolveTeams(ctx context.Context, matches []teamMatch, snap domain.Snapshot) []string {
	teams := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := snap.TeamByName(m.canonical); ok || p.classifier == nil {
			teams = append(teams, m.canonical)
			continue
		}

		decision, err := p.classifier.Classify(ctx, m.canonical, p.dir)
		if err != nil {
			slog.Warn("classification failed, keeping unresolved name", "token", m.canonical, "err", err)
			teams = append(teams, m.canonical)
			continue
		}
		switch decision.Kind {
		case ports.ExistingEntity, ports.NewEntity:
			teams = append(teams, decision.Name)
		default:
			teams = append(teams, strings.ToLower(strings.TrimSpace(m.canonical)))
		}
	}
	return teams
}

// marketAlias es una tripleta (mercado canónico, alias crudo, alias
// normalizado) precalculada para la reducción difusa.
type marketAlias struct {
	canonical string
	raw       string
	norm      string
}

func marketAliasList(markets []domain.Market) []marketAlias {
	var out []marketAlias
	for _, m := range markets {
		seen := false
		for _, a := range m.Aliases {
			if strings.EqualFold(a, m.Name) {
				seen = true
			}
			out = append(out, marketAlias{canonical: m.Name, raw: a, norm: Normalize(a)})
		}
		if !seen {
			out = append(out, marketAlias{canonical: m.Name, raw: m.Name, norm: Normalize(m.Name)})
		}
	}
	return out
}

// reduceMarkets consume mercados del texto sobrante, uno por iteración,
// eligiendo en cada vuelta el alias con mejor similitud global. El loop
// termina cuando no queda texto, el mejor score cae bajo el umbral, o una
// iteración no logra consumir nada (guardia de convergencia: requisito de
// correctitud, no una optimización).
func (p *Parser) reduceMarkets(leftover string, markets []domain.Market) (identified, leftoverTokens []string) {
	candidates := marketAliasList(markets)

	for {
		if strings.TrimSpace(leftover) == "" {
			break
		}

		tokens := p.dropFillers(strings.Fields(leftover))
		if len(tokens) == 0 {
			leftover = ""
			break
		}
		leftover = strings.Join(tokens, " ")
		before := leftover

		if len(leftover) < 2 {
			break
		}

		best := marketAlias{}
		bestScore := 0
		for _, c := range candidates {
			if score := fuzz.Ratio(leftover, c.norm); score > bestScore {
				bestScore = score
				best = c
			}
		}

		if bestScore < p.cfg.FuzzyThreshold || best.raw == "" {
			slog.Debug("no market above threshold", "best", bestScore, "leftover", leftover)
			break
		}

		if !containsToken(identified, best.canonical) {
			identified = append(identified, best.canonical)
		}
		leftover = removeAliasTokens(leftover, best.raw)
		slog.Debug("market matched", "market", best.canonical, "score", bestScore, "leftover", leftover)

		if leftover == before {
			// Un match que no consume texto repetiría para siempre.
			break
		}
	}

	return identified, p.dropFillers(strings.Fields(leftover))
}

func (p *Parser) dropFillers(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if !p.fillers[t] {
			out = append(out, t)
		}
	}
	return out
}

// removeAliasTokens elimina los tokens del alias del texto: primero como
// subsecuencia contigua, y si no existe, token a token sin importar orden.
func removeAliasTokens(leftover, alias string) string {
	aliasTokens := strings.Fields(strings.ToLower(alias))
	tokens := strings.Fields(leftover)

	normed := make([]string, len(tokens))
	for i, t := range tokens {
		normed[i] = Normalize(t)
	}
	want := make([]string, len(aliasTokens))
	for i, t := range aliasTokens {
		want[i] = Normalize(t)
	}

	if idx := findSequence(normed, want); idx >= 0 {
		tokens = append(tokens[:idx], tokens[idx+len(want):]...)
		return strings.Join(tokens, " ")
	}

	// Fallback: eliminación por bolsa de tokens.
	remaining := append([]string(nil), want...)
	var out []string
	for i, t := range tokens {
		if j := indexOf(remaining, normed[i]); j >= 0 {
			remaining = append(remaining[:j], remaining[j+1:]...)
			continue
		}
		out = append(out, t)
	}
	return strings.Join(out, " ")
}

// findSequence devuelve el índice donde needle aparece como subsecuencia
// contigua de haystack, o -1.
func findSequence(haystack, needle []string) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func containsToken(list []string, s string) bool {
	return indexOf(list, s) >= 0
}

func dropTokens(tokens []string, drop ...string) []string {
	var out []string
	for _, t := range tokens {
		if !containsToken(drop, t) {
			out = append(out, t)
		}
	}
	return out
}

// extractScores saca del texto sobrante los resultados exactos "H-A" y
// devuelve los tokens restantes.
func extractScores(tokens []string) ([]domain.Score, []string) {
	joined := strings.Join(tokens, " ")
	groups := scorePattern.FindAllStringSubmatch(joined, -1)
	if len(groups) == 0 {
		return nil, tokens
	}

	var scores []domain.Score
	remaining := append([]string(nil), tokens...)
	for _, g := range groups {
		home, _ := strconv.Atoi(g[1])
		away, _ := strconv.Atoi(g[2])
		scores = append(scores, domain.Score{Home: home, Away: away})
		if j := indexOf(remaining, g[0]); j >= 0 {
			remaining = append(remaining[:j], remaining[j+1:]...)
		}
	}
	return scores, remaining
}

// removeWholeWord elimina una frase del texto como palabra completa,
// sin distinguir mayúsculas, y colapsa los espacios resultantes.
func removeWholeWord(text, phrase string) string {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
	return strings.Join(strings.Fields(re.ReplaceAllString(text, "")), " ")
}
