package repository

import "github.com/farmops/agrostock/internal/domain/entity"

// ItemRef identifica un StockItem por su llave natural (almacén, categoría, subcategoría?).
type ItemRef struct {
	Store       string
	Category    string
	Subcategory *string
}

// StockItemRepository define el puerto para consultar/actualizar saldos de stock.
// Usado dentro de transacciones para garantizar consistencia.
type StockItemRepository interface {
	Get(ref ItemRef) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE) dentro de la tx.
	// Si el item no existe devuelve uno nuevo en cero (se materializa en el Upsert).
	GetForUpdate(ref ItemRef) (*entity.StockItem, error)
	// Upsert persiste unidades y costo. Debe fallar con domain.ErrConflict si la
	// versión leída ya no es la vigente (lost update detectado).
	Upsert(item *entity.StockItem) error
	List(store string) ([]*entity.StockItem, error)
}
