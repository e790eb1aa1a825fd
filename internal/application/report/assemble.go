package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmops/agrostock/internal/domain/entity"
)

// Constructores de reportes sobre datos vivos del ledger. Producen Requests
// listos para el Generator; no tocan persistencia.

// StockSummary un renglón por StockItem con su valor a costo promedio y un
// bloque de metadata con los totales del corte.
func StockSummary(store string, snaps []entity.StockItemSnapshot, asOf time.Time) Request {
	rows := make([]any, 0, len(snaps))
	totalValue := decimal.Zero
	totalUnits := decimal.Zero
	for _, s := range snaps {
		value := s.TotalValue()
		totalValue = totalValue.Add(value)
		totalUnits = totalUnits.Add(s.UnitsInStock)
		rows = append(rows, Row{
			{Key: "store", Value: s.Store},
			{Key: "category", Value: s.Category},
			{Key: "subcategory", Value: s.Subcategory},
			{Key: "units_in_stock", Value: s.UnitsInStock},
			{Key: "unit_cost", Value: s.UnitCost},
			{Key: "total_value", Value: value},
		})
	}

	scope := store
	if scope == "" {
		scope = "todos los almacenes"
	}
	return Request{
		Title:       "Resumen de stock",
		Description: "Saldos y valorización a costo promedio ponderado.",
		Metadata: []MetaEntry{
			{Label: "Almacén", Value: scope},
			{Label: "Corte", Value: asOf},
			{Label: "Items", Value: len(snaps)},
			{Label: "Unidades totales", Value: totalUnits},
			{Label: "Valor total", Value: totalValue},
		},
		Rows: rows,
	}
}

// MovementHistory el historial de movimientos como reporte tabular.
func MovementHistory(movs []*entity.MovementRecord, asOf time.Time) Request {
	rows := make([]any, 0, len(movs))
	for _, m := range movs {
		cost := any(m.UnitCostAtTime)
		if m.Direction == entity.DirectionOUT {
			cost = nil // el costo de entrada no aplica en salidas
		}
		rows = append(rows, Row{
			{Key: "occurred_at", Value: m.OccurredAt},
			{Key: "direction", Value: m.Direction},
			{Key: "units", Value: m.Units},
			{Key: "unit_cost", Value: cost},
			{Key: "reference", Value: m.Reference},
			{Key: "notes", Value: m.Notes},
		})
	}
	return Request{
		Title:       "Historial de movimientos",
		Description: "Asientos del ledger en orden de commit descendente.",
		Metadata: []MetaEntry{
			{Label: "Corte", Value: asOf},
			{Label: "Movimientos", Value: len(movs)},
		},
		Rows: rows,
	}
}
