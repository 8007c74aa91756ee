package console

// input.go — descomposición de la línea de entrada del usuario.
//
// Formato explícito: "bookmaker - sport - bet - odds" con exactamente tres
// separadores " - ". Cualquier otra línea se trata como texto libre de
// apuesta y los datos restantes se piden por prompt.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alejandrodnm/valuebet/internal/domain"
)

// ParseInputLine interpreta una línea de entrada. Si la línea usa el formato
// explícito completo, el BetRequest vuelve con Explicit=true y todos los
// campos rellenos; si las cuotas del formato explícito no son un número
// válido, la línea entera degrada a texto libre.
func ParseInputLine(line string) domain.BetRequest {
	line = strings.TrimSpace(line)
	parts := strings.Split(line, " - ")
	if len(parts) == 4 {
		odds, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err == nil && odds > 1 {
			return domain.BetRequest{
				Bookmaker: strings.TrimSpace(parts[0]),
				Sport:     strings.ToLower(strings.TrimSpace(parts[1])),
				Text:      strings.TrimSpace(parts[2]),
				Odds:      odds,
				Explicit:  true,
			}
		}
	}
	return domain.BetRequest{Text: line}
}

// ReadLine lee la siguiente línea cruda de la entrada. ok es false al
// agotarse el reader. Toda la entrada de la sesión debe pasar por el mismo
// Prompter: dos lectores con buffer sobre el mismo stdin se roban líneas.
func (p *Prompter) ReadLine() (string, bool) {
	if !p.in.Scan() {
		return "", false
	}
	return p.in.Text(), true
}

// AskOdds pide las cuotas del bookmaker hasta obtener un número válido
// mayor que 1. Agotados los intentos devuelve ok=false.
func (p *Prompter) AskOdds() (float64, bool) {
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		answer := p.ask("Bookmaker odds: ")
		odds, err := strconv.ParseFloat(answer, 64)
		if err == nil && odds > 1 {
			return odds, true
		}
		fmt.Fprintln(p.out, "Odds must be a decimal number greater than 1.")
	}
	return 0, false
}

// AskText hace una pregunta de texto libre y devuelve la respuesta en
// minúsculas y sin espacios sobrantes; puede volver vacía.
func (p *Prompter) AskText(prompt string) string {
	return p.ask("%s", prompt)
}

// AskYesNo hace una pregunta de sí/no; la respuesta vacía toma el valor por
// defecto.
func (p *Prompter) AskYesNo(question string, def bool) bool {
	hint := "[Y/n]"
	if !def {
		hint = "[y/N]"
	}
	answer := p.ask("%s %s ", question, hint)
	switch answer {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	return def
}
