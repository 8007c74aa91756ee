package parser

import (
	"strings"
	"unicode"
)

var apostrophes = strings.NewReplacer("'", "", "’", "")

// Normalize canonicaliza un string para comparación de aliases:
// recorta espacios, pasa a minúsculas y elimina apóstrofes (rectos y
// tipográficos). Conserva guiones, que sí distinguen aliases.
//
//	Normalize("  O'Neill's ") == "oneills"
func Normalize(s string) string {
	return apostrophes.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// FullyNormalize prepara el texto crudo de una apuesta antes del
// reconocimiento de entidades: minúsculas, guiones tipográficos a "-",
// tokens "&" sueltos a "and", elimina todo excepto letras, dígitos,
// espacios, puntos y guiones, y colapsa espacios internos.
//
//	FullyNormalize("Ajax & Lazio!!!") == "ajax and lazio"
func FullyNormalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.ReplaceAll(s, "—", "-")

	fields := strings.Fields(s)
	for i, f := range fields {
		if f == "&" {
			fields[i] = "and"
		}
	}
	s = strings.Join(fields, " ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' ||
			r == ' ' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CleanToken elimina caracteres no alfanuméricos al principio y final de
// un token, dejando intacto el interior ("2-1" o "st.gallen" no cambian).
func CleanToken(tok string) string {
	return strings.TrimFunc(tok, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// PreprocessInput simplifica la línea del usuario antes de parsear:
// minúsculas, comas y ampersands a espacios, espacios colapsados.
func PreprocessInput(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ",", " ")
	s = strings.ReplaceAll(s, "&", " ")
	return strings.Join(strings.Fields(s), " ")
}
