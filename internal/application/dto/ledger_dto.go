package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmops/agrostock/internal/domain/entity"
)

// Las cantidades viajan como string decimal ("12.5") para que el JSON Schema
// de las herramientas sea plano y no haya pérdida de precisión en el wire.

// ReceiveStockRequest parámetros de la herramienta receive_stock.
type ReceiveStockRequest struct {
	Store       string `json:"store" jsonschema:"description=Almacén o bodega del item"`
	Category    string `json:"category" jsonschema:"description=Categoría del item"`
	Subcategory string `json:"subcategory,omitempty" jsonschema:"description=Subcategoría opcional"`
	Units       string `json:"units" jsonschema:"description=Unidades a ingresar (decimal > 0)"`
	UnitCost    string `json:"unit_cost" jsonschema:"description=Costo unitario de la entrada (decimal >= 0)"`
	Reference   string `json:"reference,omitempty" jsonschema:"description=Documento origen (orden, remisión)"`
	Notes       string `json:"notes,omitempty"`
}

// IssueStockRequest parámetros de la herramienta issue_stock.
type IssueStockRequest struct {
	Store       string `json:"store" jsonschema:"description=Almacén o bodega del item"`
	Category    string `json:"category" jsonschema:"description=Categoría del item"`
	Subcategory string `json:"subcategory,omitempty" jsonschema:"description=Subcategoría opcional"`
	Units       string `json:"units" jsonschema:"description=Unidades a retirar (decimal > 0)"`
	Reference   string `json:"reference,omitempty" jsonschema:"description=Documento origen (vale, consumo)"`
	Notes       string `json:"notes,omitempty"`
}

// ListMovementsRequest parámetros de la herramienta list_movements.
type ListMovementsRequest struct {
	Direction string `json:"direction,omitempty" jsonschema:"enum=IN,enum=OUT,description=Filtrar por dirección"`
	Store     string `json:"store,omitempty"`
	ItemID    string `json:"item_id,omitempty"`
	From      string `json:"from,omitempty" jsonschema:"description=Fecha inicial YYYY-MM-DD"`
	To        string `json:"to,omitempty" jsonschema:"description=Fecha final YYYY-MM-DD"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// MovementDTO un asiento del ledger en la respuesta de list_movements.
type MovementDTO struct {
	ID         string          `json:"id"`
	ItemID     string          `json:"item_id"`
	Direction  string          `json:"direction"`
	Units      decimal.Decimal `json:"units"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Reference  string          `json:"reference,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// MovementFromEntity mapea el asiento de dominio al DTO del wire.
func MovementFromEntity(m *entity.MovementRecord) MovementDTO {
	return MovementDTO{
		ID:         m.ID,
		ItemID:     m.ItemID,
		Direction:  m.Direction,
		Units:      m.Units,
		UnitCost:   m.UnitCostAtTime,
		Reference:  m.Reference,
		Notes:      m.Notes,
		OccurredAt: m.OccurredAt,
	}
}
