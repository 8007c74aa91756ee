package console

// classifier.go — clasificador interactivo de tokens desconocidos.
//
// Cuando el parser deja fragmentos sin reconocer, este adaptador pregunta al
// usuario qué son (equipo, mercado o ruido) y persiste la decisión en el
// directorio. Todos los bucles de pregunta están acotados: agotados los
// intentos, el token se ignora.

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/alejandrodnm/valuebet/internal/domain"
	"github.com/alejandrodnm/valuebet/internal/fuzz"
	"github.com/alejandrodnm/valuebet/internal/parser"
	"github.com/alejandrodnm/valuebet/internal/ports"
	"github.com/alejandrodnm/valuebet/internal/selector"
)

const (
	maxPromptAttempts = 3
	suggestionLimit   = 5
	suggestionCutoff  = 0.6
)

// Prompter implementa ports.Classifier sobre un par reader/writer, que en
// producción son stdin/stdout y en tests un script.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter crea un clasificador interactivo.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Classify pregunta al usuario por el token y persiste el resultado. El
// usuario puede acotar primero el fragmento a una parte de él y clasificar
// solo esa parte.
func (p *Prompter) Classify(ctx context.Context, token string, dir ports.Directory) (ports.Classification, error) {
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		kind, ok := p.askKind(token)
		if !ok {
			return ports.Classification{Kind: ports.Ignore}, nil
		}
		if kind == "s" {
			sub, ok := p.askSubstring(token)
			if !ok {
				return ports.Classification{Kind: ports.Ignore}, nil
			}
			token = sub
			continue
		}

		snap, err := dir.Snapshot(ctx)
		if err != nil {
			return ports.Classification{}, fmt.Errorf("console.Classify: %w", err)
		}

		switch kind {
		case "t":
			return p.classifyTeam(ctx, token, snap, dir)
		case "m":
			return p.classifyMarket(ctx, token, snap, dir)
		}
	}
	return ports.Classification{Kind: ports.Ignore}, nil
}

// askKind pregunta si el token es equipo, mercado, una parte de él o ruido.
// Devuelve ok=false cuando el usuario elige ignorar o agota los intentos.
func (p *Prompter) askKind(token string) (string, bool) {
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		answer := p.ask("Unrecognized %q. Is it a [t]eam, a [m]arket, a [s]ubstring of it, or should I [i]gnore it? ", token)
		switch answer {
		case "t", "team":
			return "t", true
		case "m", "market":
			return "m", true
		case "s", "substring", "select":
			return "s", true
		case "i", "ignore", "":
			return "", false
		}
		fmt.Fprintln(p.out, "Please answer t, m, s or i.")
	}
	slog.Warn("classifier attempts exhausted, ignoring token", "token", token)
	return "", false
}

// askSubstring pide la parte del fragmento que interesa clasificar. Solo se
// acepta texto contenido en el fragmento.
func (p *Prompter) askSubstring(token string) (string, bool) {
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		answer := p.ask("Which part of %q? ", token)
		if answer == "" {
			return "", false
		}
		if strings.Contains(token, answer) {
			return answer, true
		}
		fmt.Fprintln(p.out, "That text is not part of the fragment.")
	}
	return "", false
}

func (p *Prompter) classifyTeam(ctx context.Context, token string, snap domain.Snapshot, dir ports.Directory) (ports.Classification, error) {
	// Las sugerencias y la resolución cubren también los aliases ya
	// conocidos, no solo los nombres canónicos.
	aliases := parser.BuildTeamAliases(snap.Teams)
	answer, isAlias, ok := p.askExistingOrNew("team", token, sortedKeys(aliases))
	if !ok {
		return ports.Classification{Kind: ports.Ignore}, nil
	}

	if isAlias {
		canonical, found := aliases.Canonical(parser.Normalize(answer))
		if !found {
			fmt.Fprintf(p.out, "No team named %q in the directory, ignoring.\n", answer)
			return ports.Classification{Kind: ports.Ignore}, nil
		}
		if err := dir.AddTeamAlias(ctx, canonical, token); err != nil {
			return ports.Classification{}, fmt.Errorf("console.classifyTeam: %w", err)
		}
		return ports.Classification{Kind: ports.ExistingEntity, Name: canonical}, nil
	}

	sport := p.ask("Sport for %q (empty for football): ", token)
	if sport == "" {
		sport = "football"
	}
	if err := dir.AddTeam(ctx, domain.Team{Name: token, Sport: sport}); err != nil {
		return ports.Classification{}, fmt.Errorf("console.classifyTeam: %w", err)
	}
	return ports.Classification{Kind: ports.NewEntity, Name: token}, nil
}

func (p *Prompter) classifyMarket(ctx context.Context, token string, snap domain.Snapshot, dir ports.Directory) (ports.Classification, error) {
	aliases := parser.BuildMarketAliases(snap.Markets)
	answer, isAlias, ok := p.askExistingOrNew("market", token, sortedKeys(aliases))
	if !ok {
		return ports.Classification{Kind: ports.Ignore}, nil
	}

	if isAlias {
		canonical, found := aliases.Canonical(parser.Normalize(answer))
		if !found {
			fmt.Fprintf(p.out, "No market named %q in the directory, ignoring.\n", answer)
			return ports.Classification{Kind: ports.Ignore}, nil
		}
		if err := dir.AddMarketAlias(ctx, canonical, token); err != nil {
			return ports.Classification{}, fmt.Errorf("console.classifyMarket: %w", err)
		}
		return ports.Classification{Kind: ports.ExistingEntity, Name: canonical}, nil
	}

	market := domain.Market{Name: token, Sport: selector.InferSport(token)}
	if err := dir.AddMarket(ctx, market); err != nil {
		return ports.Classification{}, fmt.Errorf("console.classifyMarket: %w", err)
	}
	return ports.Classification{Kind: ports.NewEntity, Name: token}, nil
}

// askExistingOrNew decide si el token es un alias de una entidad existente o
// una entidad nueva. Si es alias devuelve el nombre elegido (canónico o
// alias conocido), que el caller resuelve contra el alias map.
func (p *Prompter) askExistingOrNew(kind, token string, candidates []string) (canonical string, isAlias, ok bool) {
	suggestions := fuzz.Closest(token, candidates, suggestionLimit, suggestionCutoff)
	if len(suggestions) > 0 {
		fmt.Fprintf(p.out, "Closest existing %ss:\n", kind)
		for i, s := range suggestions {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, s)
		}
	}

	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		answer := p.ask("Is %q a [n]ew %s or an [a]lias of an existing one? ", token, kind)
		switch answer {
		case "n", "new":
			return "", false, true
		case "a", "alias":
			name := p.askCanonical(kind, suggestions)
			if name == "" {
				return "", false, false
			}
			return name, true, true
		case "i", "ignore", "":
			return "", false, false
		}
		fmt.Fprintln(p.out, "Please answer n, a or i.")
	}
	slog.Warn("classifier attempts exhausted, ignoring token", "token", token)
	return "", false, false
}

// askCanonical pide el nombre canónico: un número de la lista de sugerencias
// o el nombre escrito tal cual.
func (p *Prompter) askCanonical(kind string, suggestions []string) string {
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		answer := p.ask("Canonical %s name (number from the list or full name): ", kind)
		if answer == "" {
			return ""
		}
		if n, err := strconv.Atoi(answer); err == nil {
			if n >= 1 && n <= len(suggestions) {
				return suggestions[n-1]
			}
			fmt.Fprintln(p.out, "Number out of range.")
			continue
		}
		return answer
	}
	return ""
}

// ask escribe el prompt y devuelve la respuesta en minúsculas sin espacios
// sobrantes. Un reader agotado cuenta como respuesta vacía.
func (p *Prompter) ask(format string, args ...any) string {
	fmt.Fprintf(p.out, format, args...)
	if !p.in.Scan() {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(p.in.Text()))
}

func sortedKeys(m parser.AliasMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
