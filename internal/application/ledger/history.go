package ledger

import (
	"context"

	"github.com/farmops/agrostock/internal/domain"
	"github.com/farmops/agrostock/internal/domain/entity"
	"github.com/farmops/agrostock/internal/domain/repository"
)

// Límites de paginación del historial.
const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 500
)

// ListMovements consulta el historial de movimientos (solo lectura, sin efectos).
// Orden: occurred_at descendente. Filtros opcionales por dirección, item,
// almacén y rango de fechas.
func (uc *UseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementRecord, error) {
	switch filter.Direction {
	case "", entity.DirectionIN, entity.DirectionOUT:
	default:
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.movements.List(filter)
}
