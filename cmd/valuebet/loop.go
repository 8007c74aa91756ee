package main

// loop.go — bucle interactivo de consola: leer apuesta, interpretar,
// clasificar lo no reconocido, evaluar contra el exchange y ofrecer
// guardar las apuestas con valor.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/valuebet/internal/adapters/console"
	"github.com/alejandrodnm/valuebet/internal/domain"
	"github.com/alejandrodnm/valuebet/internal/evaluator"
	"github.com/alejandrodnm/valuebet/internal/parser"
	"github.com/alejandrodnm/valuebet/internal/ports"
)

// maxReparses acota el ciclo clasificar → re-parsear de una misma entrada.
const maxReparses = 3

// loop es el intérprete interactivo. Vive lo que dura la sesión.
type loop struct {
	parser    *parser.Parser
	evaluator *evaluator.Evaluator
	dir       ports.Directory
	betLog    ports.BetLog
	prompter  *console.Prompter
	printer   *console.Printer
	out       io.Writer
}

// run procesa entradas hasta EOF, "q" o cancelación del contexto.
func (l *loop) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fmt.Fprint(l.out, "\nbet> ")
		raw, ok := l.prompter.ReadLine()
		if !ok {
			return nil
		}
		line := strings.TrimSpace(raw)
		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "recent":
			l.showRecent(ctx)
			continue
		}

		if err := l.handle(ctx, line); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			slog.Error("bet evaluation failed", "err", err)
		}
	}
}

// handle procesa una línea de apuesta completa.
func (l *loop) handle(ctx context.Context, line string) error {
	req := console.ParseInputLine(line)

	text := req.Text
	if strings.Count(strings.ToLower(text), " v ") > 1 {
		text = parser.SimplifyMultiMatch(text)
		slog.Debug("multi-match input simplified", "text", text)
	}

	bet, snap, err := l.parseWithClassification(ctx, text)
	if err != nil {
		return err
	}
	l.printer.PrintParsed(bet)

	if bet.IsEmpty() {
		fmt.Fprintln(l.out, "Could not identify any team or market, bet skipped.")
		return nil
	}

	if req.Odds == 0 {
		odds, ok := l.prompter.AskOdds()
		if !ok {
			fmt.Fprintln(l.out, "No valid odds, bet skipped.")
			return nil
		}
		req.Odds = odds
	}

	result, err := l.evaluator.Evaluate(ctx, bet, req, snap)
	if err != nil {
		return err
	}
	if !result.Priced {
		fmt.Fprintln(l.out, "Could not price the bet on the exchange.")
		return nil
	}

	l.printer.PrintDecision(req, result.Price, result.Decision)

	if result.Decision != domain.NotValue {
		l.offerSave(ctx, req, bet, snap, result)
	}
	return nil
}

// parseWithClassification interpreta el texto y ofrece clasificar los
// fragmentos sin reconocer. Si el directorio cambió, re-parsea desde cero
// con un snapshot nuevo, un número acotado de veces.
func (l *loop) parseWithClassification(ctx context.Context, text string) (domain.ParsedBet, domain.Snapshot, error) {
	snap, err := l.dir.Snapshot(ctx)
	if err != nil {
		return domain.ParsedBet{}, domain.Snapshot{}, err
	}
	bet := l.parser.Parse(ctx, text, snap)

	for attempt := 0; attempt < maxReparses && len(bet.Unrecognized) > 0; attempt++ {
		for _, fragment := range bet.Unrecognized {
			if _, err := l.prompter.Classify(ctx, fragment, l.dir); err != nil {
				return domain.ParsedBet{}, domain.Snapshot{}, err
			}
		}

		version, err := l.dir.Version(ctx)
		if err != nil {
			return domain.ParsedBet{}, domain.Snapshot{}, err
		}
		if version == snap.Version {
			break
		}

		snap, err = l.dir.Snapshot(ctx)
		if err != nil {
			return domain.ParsedBet{}, domain.Snapshot{}, err
		}
		bet = l.parser.Parse(ctx, text, snap)
	}
	return bet, snap, nil
}

// offerSave ofrece guardar la apuesta en el registro. Las líneas en
// formato explícito ya traen todos sus datos y no se persisten: el
// registro recoge solo las apuestas dictadas en texto libre que el
// usuario decide conservar.
func (l *loop) offerSave(ctx context.Context, req domain.BetRequest, bet domain.ParsedBet, snap domain.Snapshot, result evaluator.Result) {
	if req.Explicit {
		return
	}
	if !l.prompter.AskYesNo("Save this bet?", true) {
		return
	}
	if req.Bookmaker == "" {
		req.Bookmaker = l.prompter.AskText("Bookmaker: ")
	}

	sport := req.Sport
	if sport == "" && len(bet.Teams) > 0 {
		sport = snap.TeamSport(bet.Teams[0], "football")
	}

	saved := domain.SavedBet{
		ID:        uuid.NewString(),
		Bookmaker: req.Bookmaker,
		Sport:     sport,
		Text:      req.Text,
		Odds:      req.Odds,
		Price:     domain.RoundPrice(result.Price),
		Decision:  result.Decision,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.betLog.SaveBet(ctx, saved); err != nil {
		slog.Error("failed to save bet", "err", err)
		return
	}
	fmt.Fprintln(l.out, saved.Line())
}

func (l *loop) showRecent(ctx context.Context) {
	bets, err := l.betLog.RecentBets(ctx, 20)
	if err != nil {
		slog.Error("failed to load saved bets", "err", err)
		return
	}
	l.printer.PrintSavedBets(bets)
}
