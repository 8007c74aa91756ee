package ports

import (
	"context"

	"github.com/alejandrodnm/valuebet/internal/domain"
)

// Exchange es el proveedor de datos de mercado del exchange de apuestas.
type Exchange interface {
	// FindEvents busca eventos en vivo que mencionen al equipo dado
	// dentro del deporte indicado (eventTypeId del exchange).
	FindEvents(ctx context.Context, teamQuery, sportID string) ([]domain.Event, error)

	// ListMarketCatalogue devuelve los mercados de un evento filtrados
	// por códigos de tipo, con sus runners.
	ListMarketCatalogue(ctx context.Context, eventID string, typeCodes []string) ([]domain.MarketCatalogue, error)

	// BestLayPrice devuelve el mejor precio lay disponible para un runner.
	// ok es false si no hay ninguna oferta lay: es un resultado normal,
	// no un error.
	BestLayPrice(ctx context.Context, marketID string, selectionID int64) (price float64, ok bool, err error)
}
