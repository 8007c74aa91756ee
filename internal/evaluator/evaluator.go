// Package evaluator orquesta la evaluación de una apuesta interpretada:
// por cada equipo localiza el evento, el mercado y el runner en el
// exchange, obtiene el mejor precio lay y agrega los precios en un único
// precio implícito que se compara contra las odds del bookmaker.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alejandrodnm/valuebet/config"
	"github.com/alejandrodnm/valuebet/internal/domain"
	"github.com/alejandrodnm/valuebet/internal/ports"
	"github.com/alejandrodnm/valuebet/internal/selector"
)

// Result es el desenlace de evaluar una apuesta. Priced es false cuando
// faltó algún dato (sin evento, sin mercado o sin precio para algún
// equipo): en ese caso la apuesta entera queda sin veredicto.
type Result struct {
	Price    float64
	Decision domain.ValueDecision
	Priced   bool
}

// Evaluator calcula el precio lay implícito de una apuesta completa.
type Evaluator struct {
	exchange ports.Exchange
	mapper   *selector.Mapper
	sports   config.SportsConfig
}

// New crea un Evaluator sobre el exchange y las tablas de configuración.
func New(exchange ports.Exchange, mapper *selector.Mapper, sports config.SportsConfig) *Evaluator {
	return &Evaluator{exchange: exchange, mapper: mapper, sports: sports}
}

// Evaluate obtiene un precio lay por cada equipo de la apuesta, multiplica
// los precios entre sí y clasifica el resultado contra las odds. Si algún
// equipo queda sin precio, la evaluación entera aborta con Priced=false.
// Los eventos ya consultados para un equipo anterior de la misma apuesta
// se saltan sin volver a pedir precios.
func (e *Evaluator) Evaluate(ctx context.Context, bet domain.ParsedBet, req domain.BetRequest, snap domain.Snapshot) (Result, error) {
	if len(bet.Teams) == 0 {
		return Result{}, nil
	}

	queried := make(map[string]bool)
	var prices []float64

	for _, team := range bet.Teams {
		sport := snap.TeamSport(team, fallbackSport(req.Sport))
		marketNames := e.marketsForTeam(bet.Markets, snap, sport)

		price, eventID, ok, err := e.priceTeam(ctx, team, sport, marketNames, bet.Scores, queried)
		if err != nil {
			return Result{}, fmt.Errorf("evaluator.Evaluate: team %q: %w", team, err)
		}
		if eventID != "" && queried[eventID] {
			slog.Debug("event already priced for this bet, skipping team",
				"team", team, "event_id", eventID)
			continue
		}
		if eventID != "" {
			queried[eventID] = true
		}
		if !ok {
			slog.Info("no lay price for team, aborting bet",
				"team", team, "markets", marketNames)
			return Result{}, nil
		}
		prices = append(prices, price)
	}

	product, ok := domain.MultiplyLayPrices(prices)
	if !ok {
		return Result{}, nil
	}
	return Result{
		Price:    product,
		Decision: domain.Classify(product, req.Odds),
		Priced:   true,
	}, nil
}

// priceTeam localiza el evento del equipo y prueba los mercados
// candidatos en orden hasta que alguno devuelve precio. eventID vuelve
// relleno en cuanto hay evento elegido, incluso si después no hay precio,
// para que el caller registre el duplicado.
func (e *Evaluator) priceTeam(ctx context.Context, team, sport string, marketNames []string, scores []domain.Score, queried map[string]bool) (price float64, eventID string, ok bool, err error) {
	sportID := e.sportID(sport)

	events, err := e.exchange.FindEvents(ctx, team, sportID)
	if err != nil {
		return 0, "", false, err
	}
	event, found := selector.PickBestEvent(events, team)
	if !found {
		slog.Info("no event found for team", "team", team, "sport", sport)
		return 0, "", false, nil
	}
	if queried[event.ID] {
		return 0, event.ID, false, nil
	}

	for _, name := range marketNames {
		price, ok, err = e.priceMarket(ctx, event, team, sport, name, scores)
		if err != nil {
			return 0, event.ID, false, err
		}
		if ok {
			return price, event.ID, true, nil
		}
		slog.Debug("market yielded no price, trying next", "team", team, "market", name)
	}
	return 0, event.ID, false, nil
}

// priceMarket consulta un mercado concreto del evento y devuelve el
// precio lay del runner que corresponda al equipo.
func (e *Evaluator) priceMarket(ctx context.Context, event domain.Event, team, sport, marketName string, scores []domain.Score) (float64, bool, error) {
	typeCodes := e.mapper.TypeCodes(marketName, sport)
	if len(typeCodes) == 0 {
		// "to win to nil": la variante A/B depende del lado del evento.
		typeCodes = selector.ResolveWinToNil(event.Name, team)
	}

	catalogues, err := e.exchange.ListMarketCatalogue(ctx, event.ID, typeCodes)
	if err != nil {
		return 0, false, err
	}
	market, found := selector.PickBestMarket(catalogues)
	if !found {
		slog.Info("no market in catalogue", "team", team, "event", event.Name, "codes", typeCodes)
		return 0, false, nil
	}

	if hasCorrectScore(typeCodes) && len(scores) > 0 {
		return e.priceCorrectScore(ctx, market, event.Name, team, scores)
	}

	runner, found := selector.PickBestRunner(market.Runners, team, typeCodes, market.Name, event.Name)
	if !found {
		slog.Info("no runner matched", "team", team, "market", market.Name)
		return 0, false, nil
	}

	return e.exchange.BestLayPrice(ctx, market.MarketID, runner.SelectionID)
}

// priceCorrectScore agrega los precios lay de cada resultado exacto en un
// único precio implícito. Los scores se orientan según el lado del evento
// que ocupe el equipo; los resultados sin oferta lay se omiten de la suma.
func (e *Evaluator) priceCorrectScore(ctx context.Context, market domain.MarketCatalogue, eventName, team string, scores []domain.Score) (float64, bool, error) {
	isHome := selector.IsHomeSide(eventName, team)

	var prices []float64
	for _, score := range scores {
		oriented := score
		if !isHome {
			oriented = score.Swapped()
		}
		runner, found := findRunnerByName(market.Runners, oriented.RunnerName())
		if !found {
			slog.Debug("score has no runner in market", "score", oriented.RunnerName())
			continue
		}
		price, ok, err := e.exchange.BestLayPrice(ctx, market.MarketID, runner.SelectionID)
		if err != nil {
			return 0, false, err
		}
		if !ok {
			slog.Debug("score runner has no lay offer", "score", oriented.RunnerName())
			continue
		}
		prices = append(prices, price)
	}

	combined, ok := domain.CombineLayPrices(prices)
	return combined, ok, nil
}

// marketsForTeam devuelve los mercados a consultar, en el orden en que se
// reconocieron: todos los compatibles con el deporte del equipo, o el
// mercado por defecto del deporte si no hay ninguno.
func (e *Evaluator) marketsForTeam(markets []string, snap domain.Snapshot, sport string) []string {
	var compatible []string
	for _, name := range markets {
		m, ok := snap.MarketByName(name)
		if !ok {
			continue
		}
		if m.Sport == "" || strings.EqualFold(m.Sport, sport) {
			compatible = append(compatible, name)
		}
	}
	if len(compatible) > 0 {
		return compatible
	}
	if def, ok := e.sports.DefaultMarkets[strings.ToLower(sport)]; ok {
		return []string{def}
	}
	return []string{"match odds"}
}

func (e *Evaluator) sportID(sport string) string {
	if id, ok := e.sports.EventTypeIDs[strings.ToLower(sport)]; ok {
		return id
	}
	return "1" // fútbol
}

func fallbackSport(sport string) string {
	if sport == "" {
		return "football"
	}
	return strings.ToLower(sport)
}

func hasCorrectScore(codes []string) bool {
	for _, c := range codes {
		if c == selector.TypeCorrectScore {
			return true
		}
	}
	return false
}

func findRunnerByName(runners []domain.Runner, name string) (domain.Runner, bool) {
	for _, r := range runners {
		if strings.EqualFold(strings.TrimSpace(r.Name), name) {
			return r, true
		}
	}
	return domain.Runner{}, false
}
