package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem representa el saldo vivo de una combinación (almacén, categoría,
// subcategoría) con su costo promedio ponderado. Se crea con el primer
// movimiento de entrada y nunca se elimina mientras existan movimientos.
type StockItem struct {
	ID           string
	Store        string
	Category     string
	Subcategory  *string // nil = sin subcategoría
	UnitsInStock decimal.Decimal
	UnitCost     decimal.Decimal // promedio ponderado; indefinido (0) con stock en cero
	Version      int64           // para detección optimista de lost updates
	UpdatedAt    time.Time
}

// SubcategoryOrEmpty devuelve la subcategoría o cadena vacía si no hay.
func (s *StockItem) SubcategoryOrEmpty() string {
	if s.Subcategory == nil {
		return ""
	}
	return *s.Subcategory
}

// Snapshot devuelve la vista de solo lectura que se entrega a los callers.
// Con stock en cero el costo se reporta como 0 por convención.
func (s *StockItem) Snapshot() StockItemSnapshot {
	cost := s.UnitCost
	if s.UnitsInStock.IsZero() {
		cost = decimal.Zero
	}
	return StockItemSnapshot{
		ID:           s.ID,
		Store:        s.Store,
		Category:     s.Category,
		Subcategory:  s.Subcategory,
		UnitsInStock: s.UnitsInStock,
		UnitCost:     cost,
		UpdatedAt:    s.UpdatedAt,
	}
}

// StockItemSnapshot estado de un StockItem tras una operación del ledger.
type StockItemSnapshot struct {
	ID           string          `json:"id"`
	Store        string          `json:"store"`
	Category     string          `json:"category"`
	Subcategory  *string         `json:"subcategory,omitempty"`
	UnitsInStock decimal.Decimal `json:"units_in_stock"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TotalValue valor del inventario a costo promedio (unidades * costo).
func (s StockItemSnapshot) TotalValue() decimal.Decimal {
	return s.UnitsInStock.Mul(s.UnitCost)
}
