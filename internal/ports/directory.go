package ports

import (
	"context"

	"github.com/alejandrodnm/valuebet/internal/domain"
)

// Directory es el directorio persistente de equipos y mercados.
// Cada mutación exitosa incrementa la versión del directorio; un snapshot
// con versión vieja debe descartarse y reconstruirse antes de re-parsear.
type Directory interface {
	// Snapshot devuelve una vista inmutable del directorio completo,
	// etiquetada con la versión actual.
	Snapshot(ctx context.Context) (domain.Snapshot, error)

	// Version devuelve la versión actual sin cargar el directorio.
	Version(ctx context.Context) (int64, error)

	// AddTeam crea un equipo nuevo. No hace nada si ya existe.
	AddTeam(ctx context.Context, team domain.Team) error

	// AddMarket crea un mercado nuevo. No hace nada si ya existe.
	AddMarket(ctx context.Context, market domain.Market) error

	// AddTeamAlias añade un alias a un equipo existente.
	AddTeamAlias(ctx context.Context, team, alias string) error

	// AddMarketAlias añade un alias a un mercado existente.
	AddMarketAlias(ctx context.Context, market, alias string) error
}
