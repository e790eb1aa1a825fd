// Package memory implementa el puerto de persistencia del ledger en memoria.
// Reproduce las mismas garantías que la implementación PostgreSQL: candado por
// item (equivalente al SELECT FOR UPDATE), chequeo de versión con ErrConflict
// y commit atómico de saldo + movimiento. Se usa en tests y como driver de
// desarrollo del tool server (STORE_DRIVER=memory).
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/farmops/agrostock/internal/domain/entity"
	"github.com/farmops/agrostock/internal/domain/repository"
)

// Store estado compartido en memoria. Los mapas se protegen con mu; cada item
// tiene además su propio candado para serializar receive/issue concurrentes
// sin bloquear operaciones sobre items distintos.
type Store struct {
	mu        sync.Mutex
	items     map[string]*entity.StockItem // key natural → estado confirmado
	locks     map[string]*sync.Mutex       // candado por item
	movements []*entity.MovementRecord     // append-only, en orden de commit
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		items: make(map[string]*entity.StockItem),
		locks: make(map[string]*sync.Mutex),
	}
}

// keyOf llave natural plana: store|category|subcategory.
func keyOf(ref repository.ItemRef) string {
	sub := ""
	if ref.Subcategory != nil {
		sub = *ref.Subcategory
	}
	return strings.Join([]string{ref.Store, ref.Category, sub}, "|")
}

func refOf(item *entity.StockItem) repository.ItemRef {
	return repository.ItemRef{Store: item.Store, Category: item.Category, Subcategory: item.Subcategory}
}

// lockFor devuelve (creando si hace falta) el candado del item.
func (s *Store) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// committedItem copia del estado confirmado, o nil si no existe.
func (s *Store) committedItem(key string) *entity.StockItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[key]
	if !ok {
		return nil
	}
	cp := *it
	return &cp
}

func (s *Store) listItems(store string) []*entity.StockItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.StockItem
	for _, it := range s.items {
		if store != "" && it.Store != store {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Store != out[j].Store {
			return out[i].Store < out[j].Store
		}
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].SubcategoryOrEmpty() < out[j].SubcategoryOrEmpty()
	})
	return out
}

// listMovements recorre el ledger de atrás hacia adelante (orden de commit
// descendente) aplicando los filtros.
func (s *Store) listMovements(f repository.MovementFilter) []*entity.MovementRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	itemsInStore := map[string]bool{}
	if f.Store != "" {
		for _, it := range s.items {
			if it.Store == f.Store {
				itemsInStore[it.ID] = true
			}
		}
	}

	var out []*entity.MovementRecord
	skipped := 0
	for i := len(s.movements) - 1; i >= 0; i-- {
		m := s.movements[i]
		if f.Direction != "" && m.Direction != f.Direction {
			continue
		}
		if f.ItemID != "" && m.ItemID != f.ItemID {
			continue
		}
		if f.Store != "" && !itemsInStore[m.ItemID] {
			continue
		}
		if f.From != nil && m.OccurredAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.OccurredAt.After(*f.To) {
			continue
		}
		if skipped < f.Offset {
			skipped++
			continue
		}
		cp := *m
		out = append(out, &cp)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out
}
