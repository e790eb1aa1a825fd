package memory

import (
	"context"
	"sync"

	appledger "github.com/farmops/agrostock/internal/application/ledger"
	"github.com/farmops/agrostock/internal/domain/repository"
)

var _ appledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks contra el Store con semántica transaccional:
// los candados por item se toman en GetForUpdate y las escrituras quedan en
// un buffer que solo se aplica si fn termina sin error.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos atados a una tx en memoria; commit al final o
// descarte del buffer si fn falla (rollback implícito).
func (r *TxRunner) Run(ctx context.Context, fn func(
	items repository.StockItemRepository,
	movements repository.MovementRecordRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memTx{store: r.store, held: make(map[string]*sync.Mutex)}
	defer tx.release()

	if err := fn(&StockItemRepo{store: r.store, tx: tx}, &MovementRecordRepo{store: r.store, tx: tx}); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// memTx buffer de escrituras + candados tomados durante la tx.
type memTx struct {
	store       *Store
	held        map[string]*sync.Mutex
	pendingItem map[string]*stagedItem
	pendingMovs []stagedMovement
}

// lock toma el candado del item una sola vez por tx (reentrante por clave).
func (t *memTx) lock(key string) {
	if _, ok := t.held[key]; ok {
		return
	}
	l := t.store.lockFor(key)
	l.Lock()
	t.held[key] = l
}

func (t *memTx) release() {
	for _, l := range t.held {
		l.Unlock()
	}
	t.held = nil
}

// commit aplica el buffer al estado confirmado bajo el mutex global.
func (t *memTx) commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for key, staged := range t.pendingItem {
		t.store.items[key] = staged.item
	}
	for _, m := range t.pendingMovs {
		t.store.movements = append(t.store.movements, m.record)
	}
}
