package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/farmops/agrostock/internal/domain"
	"github.com/farmops/agrostock/internal/domain/entity"
	"github.com/farmops/agrostock/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL
// (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

const stockItemColumns = `id, store, category, subcategory, units_in_stock, unit_cost, version, updated_at`

// Get obtiene el saldo actual de una combinación; nil si no existe.
func (r *StockItemRepo) Get(ref repository.ItemRef) (*entity.StockItem, error) {
	query := `
		SELECT ` + stockItemColumns + `
		FROM stock_items
		WHERE store = $1 AND category = $2 AND subcategory IS NOT DISTINCT FROM $3`
	item, err := r.scanOne(r.q.QueryRow(context.Background(), query, ref.Store, ref.Category, ref.Subcategory))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return item, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE). Si la
// combinación aún no existe devuelve un item nuevo en cero que se materializa
// en el Upsert de la misma tx.
func (r *StockItemRepo) GetForUpdate(ref repository.ItemRef) (*entity.StockItem, error) {
	query := `
		SELECT ` + stockItemColumns + `
		FROM stock_items
		WHERE store = $1 AND category = $2 AND subcategory IS NOT DISTINCT FROM $3
		FOR UPDATE`
	item, err := r.scanOne(r.q.QueryRow(context.Background(), query, ref.Store, ref.Category, ref.Subcategory))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockItem{
				Store:        ref.Store,
				Category:     ref.Category,
				Subcategory:  ref.Subcategory,
				UnitsInStock: decimal.Zero,
				UnitCost:     decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get stock item for update: %w", err)
	}
	return item, nil
}

// Upsert inserta o actualiza el saldo con chequeo de versión: si la fila ya
// avanzó respecto de la versión leída no se escribe nada y sale ErrConflict
// (lost update detectado).
func (r *StockItemRepo) Upsert(item *entity.StockItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_items (id, store, category, subcategory, units_in_stock, unit_cost, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7 + 1, now())
		ON CONFLICT (store, category, subcategory)
		DO UPDATE SET
			units_in_stock = EXCLUDED.units_in_stock,
			unit_cost      = EXCLUDED.unit_cost,
			version        = stock_items.version + 1,
			updated_at     = now()
		WHERE stock_items.version = $7`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.Store, item.Category, item.Subcategory,
		item.UnitsInStock, item.UnitCost, item.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// dos tx insertando la misma combinación a la vez
			return domain.ErrConflict
		}
		return fmt.Errorf("upsert stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	item.Version++
	return nil
}

// List devuelve los items de un almacén; con store vacío, todos.
func (r *StockItemRepo) List(store string) ([]*entity.StockItem, error) {
	query := `
		SELECT ` + stockItemColumns + `
		FROM stock_items`
	args := []any{}
	if store != "" {
		query += ` WHERE store = $1`
		args = append(args, store)
	}
	query += ` ORDER BY store, category, subcategory NULLS FIRST`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		item, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func (r *StockItemRepo) scanOne(row pgx.Row) (*entity.StockItem, error) {
	var it entity.StockItem
	err := row.Scan(&it.ID, &it.Store, &it.Category, &it.Subcategory,
		&it.UnitsInStock, &it.UnitCost, &it.Version, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
