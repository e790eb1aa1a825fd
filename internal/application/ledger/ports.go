package ledger

import (
	"context"

	"github.com/farmops/agrostock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que la actualización del StockItem y el asiento del
// movimiento se confirman juntos o no se confirman (sección crítica por item).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.StockItemRepository,
		movements repository.MovementRecordRepository,
	) error) error
}
