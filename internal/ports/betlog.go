package ports

import (
	"context"

	"github.com/alejandrodnm/valuebet/internal/domain"
)

// BetLog persiste las apuestas con valor que el usuario decide guardar.
type BetLog interface {
	// SaveBet registra la apuesta. El ID debe venir ya asignado.
	SaveBet(ctx context.Context, bet domain.SavedBet) error

	// RecentBets devuelve las últimas apuestas guardadas, la más nueva primero.
	RecentBets(ctx context.Context, limit int) ([]domain.SavedBet, error)
}
