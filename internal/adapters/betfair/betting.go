package betfair

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/valuebet/internal/domain"
)

const (
	pathListEvents          = "/listEvents/"
	pathListMarketCatalogue = "/listMarketCatalogue/"
	pathListMarketBook      = "/listMarketBook/"

	catalogueMaxResults = 100
)

// FindEvents busca eventos en vivo que mencionen al equipo dentro del
// deporte dado. Implementa ports.Exchange.
func (c *Client) FindEvents(ctx context.Context, teamQuery, sportID string) ([]domain.Event, error) {
	req := listEventsRequest{
		Filter: marketFilter{
			EventTypeIDs: []string{sportID},
			TextQuery:    teamQuery,
		},
	}

	var results []eventResult
	if err := c.post(ctx, pathListEvents, req, &results); err != nil {
		return nil, fmt.Errorf("betfair.FindEvents: %w", err)
	}

	events := make([]domain.Event, 0, len(results))
	for _, r := range results {
		events = append(events, domain.Event{
			ID:       r.Event.ID,
			Name:     r.Event.Name,
			OpenDate: parseISOTime(r.Event.OpenDate),
		})
	}
	slog.Debug("events fetched", "team", teamQuery, "sport_id", sportID, "count", len(events))
	return events, nil
}

// ListMarketCatalogue devuelve los mercados de un evento filtrados por
// códigos de tipo, con la descripción de runners incluida.
func (c *Client) ListMarketCatalogue(ctx context.Context, eventID string, typeCodes []string) ([]domain.MarketCatalogue, error) {
	req := listMarketCatalogueRequest{
		Filter: marketFilter{
			EventIDs:        []string{eventID},
			MarketTypeCodes: typeCodes,
		},
		MaxResults:       catalogueMaxResults,
		MarketProjection: []string{"RUNNER_DESCRIPTION"},
	}

	var results []marketCatalogueDTO
	if err := c.post(ctx, pathListMarketCatalogue, req, &results); err != nil {
		return nil, fmt.Errorf("betfair.ListMarketCatalogue: %w", err)
	}

	catalogues := make([]domain.MarketCatalogue, 0, len(results))
	for _, dto := range results {
		runners := make([]domain.Runner, 0, len(dto.Runners))
		for _, r := range dto.Runners {
			runners = append(runners, domain.Runner{SelectionID: r.SelectionID, Name: r.RunnerName})
		}
		catalogues = append(catalogues, domain.MarketCatalogue{
			MarketID:  dto.MarketID,
			Name:      dto.MarketName,
			StartTime: parseISOTime(dto.MarketStartTime),
			Runners:   runners,
		})
	}
	slog.Debug("market catalogues fetched", "event_id", eventID, "types", typeCodes, "count", len(catalogues))
	return catalogues, nil
}

// BestLayPrice devuelve el mejor precio lay disponible para un runner.
// ok false significa que no hay oferta lay; no es un error.
func (c *Client) BestLayPrice(ctx context.Context, marketID string, selectionID int64) (float64, bool, error) {
	req := listMarketBookRequest{
		MarketIDs:       []string{marketID},
		PriceProjection: priceProjection{PriceData: []string{"EX_BEST_OFFERS"}},
	}

	var books []marketBookDTO
	if err := c.post(ctx, pathListMarketBook, req, &books); err != nil {
		return 0, false, fmt.Errorf("betfair.BestLayPrice: %w", err)
	}

	for _, book := range books {
		if book.MarketID != marketID {
			continue
		}
		for _, r := range book.Runners {
			if r.SelectionID != selectionID {
				continue
			}
			if len(r.Ex.AvailableToLay) == 0 {
				slog.Debug("no lay offers for runner", "market_id", marketID, "selection_id", selectionID)
				return 0, false, nil
			}
			return r.Ex.AvailableToLay[0].Price, true, nil
		}
	}
	slog.Debug("runner not present in market book", "market_id", marketID, "selection_id", selectionID)
	return 0, false, nil
}

// parseISOTime interpreta los timestamps ISO-8601 del exchange; un
// formato inesperado deja el zero value, que el selector trata como
// "sin hora conocida".
func parseISOTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		slog.Debug("unparseable timestamp from exchange", "value", s)
		return time.Time{}
	}
	return t
}
