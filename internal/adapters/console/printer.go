package console

// printer.go — presentación del resultado del parser y del veredicto.

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/valuebet/internal/domain"
)

// Printer escribe los resultados al terminal, con tabla o en líneas planas.
type Printer struct {
	out   io.Writer
	table bool
}

// NewPrinter crea un printer. Con table=false escribe líneas planas, útil
// para redirigir la salida.
func NewPrinter(out io.Writer, table bool) *Printer {
	return &Printer{out: out, table: table}
}

// PrintParsed muestra el resultado de interpretar la apuesta.
func (p *Printer) PrintParsed(bet domain.ParsedBet) {
	if !p.table {
		fmt.Fprintf(p.out, "teams: %s | markets: %s | scores: %s | unrecognized: %s\n",
			joinOrDash(bet.Teams), joinOrDash(bet.Markets),
			joinOrDash(scoreNames(bet.Scores)), joinOrDash(bet.Unrecognized))
		return
	}

	table := tablewriter.NewWriter(p.out)
	table.Header("Teams", "Markets", "Scores", "Unrecognized")
	table.Append(
		joinOrDash(bet.Teams),
		joinOrDash(bet.Markets),
		joinOrDash(scoreNames(bet.Scores)),
		joinOrDash(bet.Unrecognized),
	)
	table.Render()
}

// PrintDecision muestra el precio calculado, las cuotas y el veredicto.
func (p *Printer) PrintDecision(req domain.BetRequest, price float64, decision domain.ValueDecision) {
	if !p.table {
		fmt.Fprintf(p.out, "odds: %v | lay price: %v | verdict: %s\n",
			req.Odds, domain.RoundPrice(price), decision)
		return
	}

	table := tablewriter.NewWriter(p.out)
	table.Header("Bet", "Odds", "Lay price", "Verdict")
	table.Append(
		truncate(strings.TrimSpace(req.Text), 40),
		fmt.Sprintf("%v", req.Odds),
		fmt.Sprintf("%v", domain.RoundPrice(price)),
		decision.String(),
	)
	table.Render()
}

// PrintSavedBets muestra las últimas apuestas guardadas.
func (p *Printer) PrintSavedBets(bets []domain.SavedBet) {
	if len(bets) == 0 {
		fmt.Fprintln(p.out, "No saved bets yet.")
		return
	}
	if !p.table {
		for _, b := range bets {
			fmt.Fprintln(p.out, b.Line())
		}
		return
	}

	table := tablewriter.NewWriter(p.out)
	table.Header("Date", "Bookmaker", "Sport", "Bet", "Odds", "Price", "Verdict")
	for _, b := range bets {
		table.Append(
			b.CreatedAt.Format("2006-01-02 15:04"),
			b.Bookmaker,
			domain.DisplaySport(b.Sport),
			truncate(b.Text, 40),
			fmt.Sprintf("%v", b.Odds),
			fmt.Sprintf("%v", b.Price),
			b.Decision.String(),
		)
	}
	table.Render()
}

func scoreNames(scores []domain.Score) []string {
	var names []string
	for _, s := range scores {
		names = append(names, s.RunnerName())
	}
	return names
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
