package evaluator

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/valuebet/config"
	"github.com/alejandrodnm/valuebet/internal/domain"
	"github.com/alejandrodnm/valuebet/internal/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExchange devuelve datos preparados por test y registra las consultas.
type fakeExchange struct {
	events     map[string][]domain.Event           // teamQuery → eventos
	catalogues map[string][]domain.MarketCatalogue // eventID → catálogo
	layPrices  map[int64]float64                   // selectionID → precio lay

	// cataloguesFn, si está definido, sustituye al mapa catalogues y
	// permite variar el catálogo según los type codes consultados.
	cataloguesFn func(eventID string, typeCodes []string) []domain.MarketCatalogue

	findCalls      []string
	catalogueCalls [][]string
}

func (f *fakeExchange) FindEvents(_ context.Context, teamQuery, _ string) ([]domain.Event, error) {
	f.findCalls = append(f.findCalls, teamQuery)
	return f.events[teamQuery], nil
}

func (f *fakeExchange) ListMarketCatalogue(_ context.Context, eventID string, typeCodes []string) ([]domain.MarketCatalogue, error) {
	f.catalogueCalls = append(f.catalogueCalls, typeCodes)
	if f.cataloguesFn != nil {
		return f.cataloguesFn(eventID, typeCodes), nil
	}
	return f.catalogues[eventID], nil
}

func (f *fakeExchange) BestLayPrice(_ context.Context, _ string, selectionID int64) (float64, bool, error) {
	p, ok := f.layPrices[selectionID]
	return p, ok, nil
}

func testMapper() *selector.Mapper {
	return selector.NewMapper(map[string][]string{
		"match odds":    {selector.TypeMatchOdds},
		"correct score": {selector.TypeCorrectScore},
	})
}

func testSports() config.SportsConfig {
	return config.SportsConfig{
		EventTypeIDs:   map[string]string{"football": "1", "nba": "7522"},
		DefaultMarkets: map[string]string{"football": "match odds", "nba": "moneyline_nba"},
	}
}

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Version: 1,
		Teams: []domain.Team{
			{Name: "chelsea", Sport: "football"},
			{Name: "arsenal", Sport: "football"},
		},
		Markets: []domain.Market{
			{Name: "match odds", Sport: "football"},
			{Name: "correct score", Sport: "football"},
		},
	}
}

func kickoff(h int) time.Time {
	return time.Date(2025, 3, 1, h, 0, 0, 0, time.UTC)
}

func TestEvaluateSingleTeamValue(t *testing.T) {
	exchange := &fakeExchange{
		events: map[string][]domain.Event{
			"chelsea": {{ID: "ev1", Name: "Chelsea v Fulham", OpenDate: kickoff(15)}},
		},
		catalogues: map[string][]domain.MarketCatalogue{
			"ev1": {{
				MarketID: "mk1",
				Name:     "Match Odds",
				Runners: []domain.Runner{
					{SelectionID: 1, Name: "Chelsea"},
					{SelectionID: 2, Name: "Fulham"},
					{SelectionID: 3, Name: "The Draw"},
				},
			}},
		},
		layPrices: map[int64]float64{1: 1.9},
	}
	ev := New(exchange, testMapper(), testSports())

	bet := domain.ParsedBet{Teams: []string{"chelsea"}, Markets: []string{"match odds"}}
	req := domain.BetRequest{Odds: 2.1}

	res, err := ev.Evaluate(context.Background(), bet, req, testSnapshot())
	require.NoError(t, err)
	require.True(t, res.Priced)
	assert.Equal(t, 1.9, res.Price)
	assert.Equal(t, domain.Value, res.Decision)
}

func TestEvaluateCorrectScoreCombinesPrices(t *testing.T) {
	exchange := &fakeExchange{
		events: map[string][]domain.Event{
			"chelsea": {{ID: "ev1", Name: "Chelsea v Fulham", OpenDate: kickoff(15)}},
		},
		catalogues: map[string][]domain.MarketCatalogue{
			"ev1": {{
				MarketID: "mk1",
				Name:     "Correct Score",
				Runners: []domain.Runner{
					{SelectionID: 10, Name: "2 - 1"},
					{SelectionID: 11, Name: "1 - 0"},
					{SelectionID: 12, Name: "0 - 0"},
				},
			}},
		},
		layPrices: map[int64]float64{10: 2.0, 11: 3.0},
	}
	ev := New(exchange, testMapper(), testSports())

	bet := domain.ParsedBet{
		Teams:   []string{"chelsea"},
		Markets: []string{"correct score"},
		Scores:  []domain.Score{{Home: 2, Away: 1}, {Home: 1, Away: 0}},
	}
	req := domain.BetRequest{Odds: 1.1}

	res, err := ev.Evaluate(context.Background(), bet, req, testSnapshot())
	require.NoError(t, err)
	require.True(t, res.Priced)
	// 1/(1/2 + 1/3) da 1.2000000000000002 en float64; el techo al 0.1
	// más cercano lo sube a 1.3.
	assert.InDelta(t, 1.3, res.Price, 1e-9)
	assert.Equal(t, domain.NotValue, res.Decision)
}

func TestEvaluateCorrectScoreAwaySwapsScores(t *testing.T) {
	exchange := &fakeExchange{
		events: map[string][]domain.Event{
			"chelsea": {{ID: "ev1", Name: "Fulham v Chelsea", OpenDate: kickoff(15)}},
		},
		catalogues: map[string][]domain.MarketCatalogue{
			"ev1": {{
				MarketID: "mk1",
				Name:     "Correct Score",
				Runners: []domain.Runner{
					{SelectionID: 10, Name: "1 - 2"},
					{SelectionID: 11, Name: "2 - 1"},
				},
			}},
		},
		// Solo el score invertido tiene oferta: el equipo juega fuera.
		layPrices: map[int64]float64{10: 4.0},
	}
	ev := New(exchange, testMapper(), testSports())

	bet := domain.ParsedBet{
		Teams:   []string{"chelsea"},
		Markets: []string{"correct score"},
		Scores:  []domain.Score{{Home: 2, Away: 1}},
	}
	req := domain.BetRequest{Odds: 5.0}

	res, err := ev.Evaluate(context.Background(), bet, req, testSnapshot())
	require.NoError(t, err)
	require.True(t, res.Priced)
	assert.Equal(t, 4.0, res.Price)
	assert.Equal(t, domain.Value, res.Decision)
}

func TestEvaluateNoEventAborts(t *testing.T) {
	exchange := &fakeExchange{events: map[string][]domain.Event{}}
	ev := New(exchange, testMapper(), testSports())

	bet := domain.ParsedBet{Teams: []string{"chelsea"}, Markets: []string{"match odds"}}
	res, err := ev.Evaluate(context.Background(), bet, domain.BetRequest{Odds: 2.0}, testSnapshot())
	require.NoError(t, err)
	assert.False(t, res.Priced)
}

func TestEvaluateNoLayPriceAborts(t *testing.T) {
	exchange := &fakeExchange{
		events: map[string][]domain.Event{
			"chelsea": {{ID: "ev1", Name: "Chelsea v Fulham", OpenDate: kickoff(15)}},
		},
		catalogues: map[string][]domain.MarketCatalogue{
			"ev1": {{
				MarketID: "mk1",
				Name:     "Match Odds",
				Runners:  []domain.Runner{{SelectionID: 1, Name: "Chelsea"}},
			}},
		},
		layPrices: map[int64]float64{},
	}
	ev := New(exchange, testMapper(), testSports())

	bet := domain.ParsedBet{Teams: []string{"chelsea"}, Markets: []string{"match odds"}}
	res, err := ev.Evaluate(context.Background(), bet, domain.BetRequest{Odds: 2.0}, testSnapshot())
	require.NoError(t, err)
	assert.False(t, res.Priced)
}

func TestEvaluateMultipleTeamsMultiplyPrices(t *testing.T) {
	exchange := &fakeExchange{
		events: map[string][]domain.Event{
			"chelsea": {{ID: "ev1", Name: "Chelsea v Fulham", OpenDate: kickoff(15)}},
			"arsenal": {{ID: "ev2", Name: "Arsenal v Spurs", OpenDate: kickoff(17)}},
		},
		catalogues: map[string][]domain.MarketCatalogue{
			"ev1": {{
				MarketID: "mk1",
				Runners:  []domain.Runner{{SelectionID: 1, Name: "Chelsea"}},
			}},
			"ev2": {{
				MarketID: "mk2",
				Runners:  []domain.Runner{{SelectionID: 2, Name: "Arsenal"}},
			}},
		},
		layPrices: map[int64]float64{1: 1.5, 2: 2.0},
	}
	ev := New(exchange, testMapper(), testSports())

	bet := domain.ParsedBet{Teams: []string{"chelsea", "arsenal"}, Markets: []string{"match odds"}}
	req := domain.BetRequest{Odds: 3.0}

	res, err := ev.Evaluate(context.Background(), bet, req, testSnapshot())
	require.NoError(t, err)
	require.True(t, res.Priced)
	assert.InDelta(t, 3.0, res.Price, 1e-9)
	// 3.0 no está por debajo de la banda de valor pero cae dentro del 2%.
	assert.Equal(t, domain.TwoPercent, res.Decision)
}

func TestEvaluateDuplicateEventSkipped(t *testing.T) {
	shared := []domain.Event{{ID: "ev1", Name: "Chelsea v Arsenal", OpenDate: kickoff(15)}}
	exchange := &fakeExchange{
		events: map[string][]domain.Event{"chelsea": shared, "arsenal": shared},
		catalogues: map[string][]domain.MarketCatalogue{
			"ev1": {{
				MarketID: "mk1",
				Runners: []domain.Runner{
					{SelectionID: 1, Name: "Chelsea"},
					{SelectionID: 2, Name: "Arsenal"},
				},
			}},
		},
		layPrices: map[int64]float64{1: 1.8, 2: 2.2},
	}
	ev := New(exchange, testMapper(), testSports())

	bet := domain.ParsedBet{Teams: []string{"chelsea", "arsenal"}, Markets: []string{"match odds"}}
	res, err := ev.Evaluate(context.Background(), bet, domain.BetRequest{Odds: 2.0}, testSnapshot())
	require.NoError(t, err)
	require.True(t, res.Priced)
	// El segundo equipo resuelve al mismo evento y se salta: solo cuenta
	// el precio del primero.
	assert.Equal(t, 1.8, res.Price)
}

func TestEvaluateFallsBackToNextMarket(t *testing.T) {
	exchange := &fakeExchange{
		events: map[string][]domain.Event{
			"chelsea": {{ID: "ev1", Name: "Chelsea v Fulham", OpenDate: kickoff(15)}},
		},
		// El primer mercado reconocido no tiene catálogo; el segundo sí.
		cataloguesFn: func(_ string, typeCodes []string) []domain.MarketCatalogue {
			if typeCodes[0] != selector.TypeMatchOdds {
				return nil
			}
			return []domain.MarketCatalogue{{
				MarketID: "mk1",
				Name:     "Match Odds",
				Runners:  []domain.Runner{{SelectionID: 1, Name: "Chelsea"}},
			}}
		},
		layPrices: map[int64]float64{1: 1.9},
	}
	ev := New(exchange, testMapper(), testSports())

	bet := domain.ParsedBet{
		Teams:   []string{"chelsea"},
		Markets: []string{"correct score", "match odds"},
		Scores:  []domain.Score{{Home: 1, Away: 0}},
	}
	res, err := ev.Evaluate(context.Background(), bet, domain.BetRequest{Odds: 2.1}, testSnapshot())
	require.NoError(t, err)
	require.True(t, res.Priced)
	assert.Equal(t, 1.9, res.Price)
	assert.Equal(t, domain.Value, res.Decision)
	// El evento se busca una sola vez; los mercados se consultan en orden.
	assert.Equal(t, []string{"chelsea"}, exchange.findCalls)
	require.Len(t, exchange.catalogueCalls, 2)
	assert.Equal(t, []string{selector.TypeCorrectScore}, exchange.catalogueCalls[0])
	assert.Equal(t, []string{selector.TypeMatchOdds}, exchange.catalogueCalls[1])
}

func TestEvaluateDefaultMarketWhenNoneRecognized(t *testing.T) {
	exchange := &fakeExchange{
		events: map[string][]domain.Event{
			"chelsea": {{ID: "ev1", Name: "Chelsea v Fulham", OpenDate: kickoff(15)}},
		},
		catalogues: map[string][]domain.MarketCatalogue{
			"ev1": {{
				MarketID: "mk1",
				Runners:  []domain.Runner{{SelectionID: 1, Name: "Chelsea"}},
			}},
		},
		layPrices: map[int64]float64{1: 2.0},
	}
	ev := New(exchange, testMapper(), testSports())

	bet := domain.ParsedBet{Teams: []string{"chelsea"}}
	res, err := ev.Evaluate(context.Background(), bet, domain.BetRequest{Odds: 2.5}, testSnapshot())
	require.NoError(t, err)
	require.True(t, res.Priced)
	assert.Equal(t, 2.0, res.Price)
}

func TestEvaluateNoTeams(t *testing.T) {
	exchange := &fakeExchange{}
	ev := New(exchange, testMapper(), testSports())

	res, err := ev.Evaluate(context.Background(), domain.ParsedBet{}, domain.BetRequest{Odds: 2.0}, testSnapshot())
	require.NoError(t, err)
	assert.False(t, res.Priced)
	assert.Empty(t, exchange.findCalls, "sin equipos no debe consultarse el exchange")
}
