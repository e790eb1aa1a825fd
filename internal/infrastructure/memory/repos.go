package memory

import (
	"github.com/google/uuid"

	"github.com/farmops/agrostock/internal/domain"
	"github.com/farmops/agrostock/internal/domain/entity"
	"github.com/farmops/agrostock/internal/domain/repository"
)

var (
	_ repository.StockItemRepository      = (*StockItemRepo)(nil)
	_ repository.MovementRecordRepository = (*MovementRecordRepo)(nil)
)

type stagedItem struct {
	item *entity.StockItem
}

type stagedMovement struct {
	record *entity.MovementRecord
}

// StockItemRepo implementación en memoria. Con tx != nil las escrituras van al
// buffer de la tx; con tx == nil opera directo sobre el estado confirmado.
type StockItemRepo struct {
	store *Store
	tx    *memTx
}

// NewStockItemRepository repo de solo lectura atado al store (lado pool).
func NewStockItemRepository(store *Store) *StockItemRepo {
	return &StockItemRepo{store: store}
}

// Get devuelve el item confirmado o nil si no existe.
func (r *StockItemRepo) Get(ref repository.ItemRef) (*entity.StockItem, error) {
	return r.store.committedItem(keyOf(ref)), nil
}

// GetForUpdate toma el candado del item dentro de la tx y devuelve una copia
// de trabajo; si no existe devuelve uno nuevo en cero que se materializa en Upsert.
func (r *StockItemRepo) GetForUpdate(ref repository.ItemRef) (*entity.StockItem, error) {
	if r.tx == nil {
		return nil, domain.ErrInvalidInput
	}
	key := keyOf(ref)
	r.tx.lock(key)
	if staged, ok := r.tx.pendingItem[key]; ok {
		cp := *staged.item
		return &cp, nil
	}
	if it := r.store.committedItem(key); it != nil {
		return it, nil
	}
	return &entity.StockItem{Store: ref.Store, Category: ref.Category, Subcategory: ref.Subcategory}, nil
}

// Upsert persiste el item verificando la versión leída contra la confirmada;
// versión distinta significa lost update → domain.ErrConflict.
func (r *StockItemRepo) Upsert(item *entity.StockItem) error {
	key := keyOf(refOf(item))

	r.store.mu.Lock()
	committed, exists := r.store.items[key]
	if exists && committed.Version != item.Version {
		r.store.mu.Unlock()
		return domain.ErrConflict
	}
	r.store.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	cp := *item
	cp.Version = item.Version + 1

	if r.tx != nil {
		if r.tx.pendingItem == nil {
			r.tx.pendingItem = make(map[string]*stagedItem)
		}
		r.tx.pendingItem[key] = &stagedItem{item: &cp}
		return nil
	}

	r.store.mu.Lock()
	r.store.items[key] = &cp
	r.store.mu.Unlock()
	return nil
}

// List devuelve los items de un almacén (todos si store es vacío).
func (r *StockItemRepo) List(store string) ([]*entity.StockItem, error) {
	return r.store.listItems(store), nil
}

// MovementRecordRepo implementación en memoria del ledger de movimientos.
type MovementRecordRepo struct {
	store *Store
	tx    *memTx
}

// NewMovementRecordRepository repo de solo lectura atado al store (lado pool).
func NewMovementRecordRepository(store *Store) *MovementRecordRepo {
	return &MovementRecordRepo{store: store}
}

// Create asienta un movimiento (append-only).
func (r *MovementRecordRepo) Create(movement *entity.MovementRecord) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	cp := *movement
	if r.tx != nil {
		r.tx.pendingMovs = append(r.tx.pendingMovs, stagedMovement{record: &cp})
		return nil
	}
	r.store.mu.Lock()
	r.store.movements = append(r.store.movements, &cp)
	r.store.mu.Unlock()
	return nil
}

// GetByID busca un movimiento por ID, nil si no existe.
func (r *MovementRecordRepo) GetByID(id string) (*entity.MovementRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range r.store.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

// List devuelve movimientos en orden de commit descendente con filtros.
func (r *MovementRecordRepo) List(filter repository.MovementFilter) ([]*entity.MovementRecord, error) {
	return r.store.listMovements(filter), nil
}
