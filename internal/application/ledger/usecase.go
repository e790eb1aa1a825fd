package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmops/agrostock/internal/domain"
	"github.com/farmops/agrostock/internal/domain/entity"
	domledger "github.com/farmops/agrostock/internal/domain/ledger"
	"github.com/farmops/agrostock/internal/domain/repository"
)

// maxConflictRetries reintentos de la sección crítica completa ante ErrConflict.
// La operación relee el estado en cada intento, por lo que reintentar es seguro.
const maxConflictRetries = 3

// UseCase motor del ledger de inventario: aplica entradas (Receive) y salidas
// (Issue) de forma transaccional con bloqueo de fila, mantiene el costo promedio
// ponderado y asienta un MovementRecord por operación.
type UseCase struct {
	tx        TxRunner
	items     repository.StockItemRepository    // lado de lectura (pool)
	movements repository.MovementRecordRepository // lado de lectura (pool)
	now       func() time.Time
}

// NewUseCase construye el caso de uso. items y movements son repos atados al pool
// para las consultas de solo lectura; las mutaciones siempre pasan por tx.
func NewUseCase(tx TxRunner, items repository.StockItemRepository, movements repository.MovementRecordRepository) *UseCase {
	return &UseCase{tx: tx, items: items, movements: movements, now: time.Now}
}

// ReceiveInput entrada para registrar una recepción de stock.
type ReceiveInput struct {
	Ref       repository.ItemRef
	Units     decimal.Decimal // > 0
	UnitCost  decimal.Decimal // >= 0
	Reference string
	Notes     string
}

// IssueInput entrada para registrar una salida de stock.
type IssueInput struct {
	Ref       repository.ItemRef
	Units     decimal.Decimal // > 0
	Reference string
	Notes     string
}

// Receive aplica una entrada: recalcula el costo promedio ponderado, suma las
// unidades y asienta el movimiento IN, todo en una sola transacción. Crea el
// StockItem si es la primera recepción de esa combinación.
func (uc *UseCase) Receive(ctx context.Context, in ReceiveInput) (*entity.StockItemSnapshot, error) {
	if !in.Units.GreaterThan(decimal.Zero) || in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.Ref.Store == "" || in.Ref.Category == "" {
		return nil, domain.ErrInvalidInput
	}

	var snap entity.StockItemSnapshot
	err := uc.withRetry(ctx, func(
		items repository.StockItemRepository,
		movements repository.MovementRecordRepository,
	) error {
		// Bloquea la fila (SELECT FOR UPDATE) para evitar condiciones de carrera
		item, err := items.GetForUpdate(in.Ref)
		if err != nil {
			return err
		}
		now := uc.now()
		newCost := domledger.CostForReceive(item.UnitsInStock, item.UnitCost, in.Units, in.UnitCost)
		item.UnitsInStock = item.UnitsInStock.Add(in.Units)
		item.UnitCost = newCost
		item.UpdatedAt = now
		if err := items.Upsert(item); err != nil {
			return err
		}
		mov := &entity.MovementRecord{
			ItemID:         item.ID,
			Direction:      entity.DirectionIN,
			Units:          in.Units,
			UnitCostAtTime: in.UnitCost,
			Reference:      in.Reference,
			Notes:          in.Notes,
			OccurredAt:     now,
			CreatedAt:      now,
		}
		if err := movements.Create(mov); err != nil {
			return err
		}
		snap = item.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Issue aplica una salida: verifica stock suficiente (comparación estricta:
// sacar exactamente el saldo es válido), resta las unidades y asienta el
// movimiento OUT. El costo promedio no cambia en salidas.
func (uc *UseCase) Issue(ctx context.Context, in IssueInput) (*entity.StockItemSnapshot, error) {
	if !in.Units.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.Ref.Store == "" || in.Ref.Category == "" {
		return nil, domain.ErrInvalidInput
	}

	var snap entity.StockItemSnapshot
	err := uc.withRetry(ctx, func(
		items repository.StockItemRepository,
		movements repository.MovementRecordRepository,
	) error {
		item, err := items.GetForUpdate(in.Ref)
		if err != nil {
			return err
		}
		if in.Units.GreaterThan(item.UnitsInStock) {
			// Rechazo sin mutación: el rollback de la tx deja todo como estaba
			return domain.ErrInsufficientStock
		}
		now := uc.now()
		item.UnitsInStock = item.UnitsInStock.Sub(in.Units)
		item.UpdatedAt = now
		if err := items.Upsert(item); err != nil {
			return err
		}
		mov := &entity.MovementRecord{
			ItemID:     item.ID,
			Direction:  entity.DirectionOUT,
			Units:      in.Units,
			Reference:  in.Reference,
			Notes:      in.Notes,
			OccurredAt: now,
			CreatedAt:  now,
		}
		if err := movements.Create(mov); err != nil {
			return err
		}
		snap = item.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// withRetry ejecuta la sección crítica y la reintenta completa (releer →
// recalcular → escribir) hasta maxConflictRetries veces si la tx detecta un
// lost update (ErrConflict). Otros errores se propagan de inmediato.
func (uc *UseCase) withRetry(ctx context.Context, fn func(
	items repository.StockItemRepository,
	movements repository.MovementRecordRepository,
) error) error {
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		err = uc.tx.Run(ctx, fn)
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	return err
}

// GetItem devuelve el snapshot actual de un StockItem.
func (uc *UseCase) GetItem(ctx context.Context, ref repository.ItemRef) (*entity.StockItemSnapshot, error) {
	item, err := uc.items.Get(ref)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	snap := item.Snapshot()
	return &snap, nil
}

// ListItems devuelve los snapshots de un almacén (o de todos si store es vacío).
func (uc *UseCase) ListItems(ctx context.Context, store string) ([]entity.StockItemSnapshot, error) {
	items, err := uc.items.List(store)
	if err != nil {
		return nil, err
	}
	snaps := make([]entity.StockItemSnapshot, 0, len(items))
	for _, it := range items {
		snaps = append(snaps, it.Snapshot())
	}
	return snaps, nil
}
