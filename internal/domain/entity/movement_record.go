package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de movimiento del ledger.
const (
	DirectionIN  = "IN"  // entrada (compra, cosecha, devolución)
	DirectionOUT = "OUT" // salida (consumo, merma)
)

// MovementRecord asiento inmutable del ledger: un registro por cada
// receive/issue, creado en la misma transacción que la actualización del
// StockItem. Nunca se modifica ni se borra (pista de auditoría).
type MovementRecord struct {
	ID             string
	ItemID         string
	Direction      string          // IN u OUT
	Units          decimal.Decimal // siempre positivo
	UnitCostAtTime decimal.Decimal // costo unitario de la entrada; 0 en salidas
	Reference      string          // documento origen: orden, vale, remisión
	Notes          string
	OccurredAt     time.Time
	CreatedAt      time.Time
}

// SignedUnits unidades con signo: positivas en IN, negativas en OUT.
// sum(SignedUnits) sobre el historial de un item == UnitsInStock actual.
func (m *MovementRecord) SignedUnits() decimal.Decimal {
	if m.Direction == DirectionOUT {
		return m.Units.Neg()
	}
	return m.Units
}
