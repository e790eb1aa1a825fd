package ledger_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/farmops/agrostock/internal/application/ledger"
	"github.com/farmops/agrostock/internal/domain"
	"github.com/farmops/agrostock/internal/domain/entity"
	"github.com/farmops/agrostock/internal/domain/repository"
	"github.com/farmops/agrostock/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestUseCase() *appledger.UseCase {
	store := memory.NewStore()
	return appledger.NewUseCase(
		memory.NewTxRunner(store),
		memory.NewStockItemRepository(store),
		memory.NewMovementRecordRepository(store),
	)
}

func testRef() repository.ItemRef {
	sub := "fertilizante"
	return repository.ItemRef{Store: "bodega-central", Category: "insumos", Subcategory: &sub}
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive / Issue
// ──────────────────────────────────────────────────────────────────────────────

// Escenario completo del motor: costo promedio exacto, salida sin cambio de
// costo y rechazo sin mutación.
func TestUseCase_EscenarioCompleto(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()
	ref := testRef()

	// receive(5, 10.00) → (5, 10.00)
	snap, err := uc.Receive(ctx, appledger.ReceiveInput{Ref: ref, Units: dec("5"), UnitCost: dec("10.00")})
	require.NoError(t, err)
	assert.True(t, dec("5").Equal(snap.UnitsInStock))
	assert.True(t, dec("10").Equal(snap.UnitCost))

	// receive(5, 20.00) → (10, 15.00)
	snap, err = uc.Receive(ctx, appledger.ReceiveInput{Ref: ref, Units: dec("5"), UnitCost: dec("20.00")})
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(snap.UnitsInStock))
	assert.True(t, dec("15").Equal(snap.UnitCost))

	// issue(3) → (7, 15.00), el costo no cambia en salidas
	snap, err = uc.Issue(ctx, appledger.IssueInput{Ref: ref, Units: dec("3")})
	require.NoError(t, err)
	assert.True(t, dec("7").Equal(snap.UnitsInStock))
	assert.True(t, dec("15").Equal(snap.UnitCost))

	// issue(10) → falla y el estado queda intacto
	_, err = uc.Issue(ctx, appledger.IssueInput{Ref: ref, Units: dec("10")})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := uc.GetItem(ctx, ref)
	require.NoError(t, err)
	assert.True(t, dec("7").Equal(got.UnitsInStock))
	assert.True(t, dec("15").Equal(got.UnitCost))
}

// receive(10, 100) + receive(10, 200) → costo 150, 20 unidades.
func TestUseCase_PromedioPonderado(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()
	ref := repository.ItemRef{Store: "bodega-norte", Category: "semillas"}

	_, err := uc.Receive(ctx, appledger.ReceiveInput{Ref: ref, Units: dec("10"), UnitCost: dec("100")})
	require.NoError(t, err)
	snap, err := uc.Receive(ctx, appledger.ReceiveInput{Ref: ref, Units: dec("10"), UnitCost: dec("200")})
	require.NoError(t, err)

	assert.True(t, dec("20").Equal(snap.UnitsInStock))
	assert.True(t, dec("150").Equal(snap.UnitCost))
}

// Cantidades no positivas se rechazan sin asentar movimiento alguno.
func TestUseCase_CantidadInvalida(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()
	ref := testRef()

	_, err := uc.Receive(ctx, appledger.ReceiveInput{Ref: ref, Units: decimal.Zero, UnitCost: dec("100")})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Receive(ctx, appledger.ReceiveInput{Ref: ref, Units: dec("-5"), UnitCost: dec("100")})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Issue(ctx, appledger.IssueInput{Ref: ref, Units: dec("-1")})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	movs, err := uc.ListMovements(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs, "un rechazo no debe producir MovementRecord")
}

// Un costo unitario negativo en la entrada también es cantidad inválida.
func TestUseCase_CostoNegativo(t *testing.T) {
	uc := newTestUseCase()
	_, err := uc.Receive(context.Background(), appledger.ReceiveInput{
		Ref: testRef(), Units: dec("1"), UnitCost: dec("-0.01"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// Sacar exactamente el saldo restante es válido (comparación estricta);
// drenado el item, el snapshot reporta costo 0.
func TestUseCase_SalidaExacta(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()
	ref := testRef()

	_, err := uc.Receive(ctx, appledger.ReceiveInput{Ref: ref, Units: dec("4"), UnitCost: dec("25")})
	require.NoError(t, err)

	snap, err := uc.Issue(ctx, appledger.IssueInput{Ref: ref, Units: dec("4")})
	require.NoError(t, err)
	assert.True(t, snap.UnitsInStock.IsZero())
	assert.True(t, snap.UnitCost.IsZero(), "con stock cero el costo reportado es 0")
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariante de conservación
// ──────────────────────────────────────────────────────────────────────────────

// sum(IN) - sum(OUT) del historial debe igualar el saldo en todo momento.
func TestUseCase_Conservacion(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()
	ref := testRef()

	ops := []struct {
		dir   string
		units string
		cost  string
	}{
		{entity.DirectionIN, "12.5", "8.00"},
		{entity.DirectionIN, "7.5", "12.40"},
		{entity.DirectionOUT, "3", ""},
		{entity.DirectionIN, "0.25", "9.99"},
		{entity.DirectionOUT, "10.75", ""},
	}
	for _, op := range ops {
		var err error
		if op.dir == entity.DirectionIN {
			_, err = uc.Receive(ctx, appledger.ReceiveInput{Ref: ref, Units: dec(op.units), UnitCost: dec(op.cost)})
		} else {
			_, err = uc.Issue(ctx, appledger.IssueInput{Ref: ref, Units: dec(op.units)})
		}
		require.NoError(t, err)

		movs, err := uc.ListMovements(ctx, repository.MovementFilter{})
		require.NoError(t, err)
		sum := decimal.Zero
		for _, m := range movs {
			sum = sum.Add(m.SignedUnits())
		}
		snap, err := uc.GetItem(ctx, ref)
		require.NoError(t, err)
		assert.True(t, sum.Equal(snap.UnitsInStock),
			"deriva detectada: historial %s vs saldo %s", sum, snap.UnitsInStock)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// N receives concurrentes sobre un item vacío: sin lost updates, N unidades y
// exactamente N movimientos sin importar el entrelazado.
func TestUseCase_RecepcionesConcurrentes(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()
	ref := testRef()
	const n = 50

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.Receive(ctx, appledger.ReceiveInput{
				Ref:      ref,
				Units:    dec("1"),
				UnitCost: decimal.NewFromInt(int64(i + 1)),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	snap, err := uc.GetItem(ctx, ref)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(n).Equal(snap.UnitsInStock),
		"lost update: esperadas %d unidades, hay %s", n, snap.UnitsInStock)

	movs, err := uc.ListMovements(ctx, repository.MovementFilter{Limit: n * 2})
	require.NoError(t, err)
	assert.Len(t, movs, n)
}

// Operaciones sobre items distintos no se bloquean entre sí ni se mezclan.
func TestUseCase_ItemsIndependientes(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref := repository.ItemRef{Store: "bodega-central", Category: fmt.Sprintf("cat-%d", i)}
			_, err := uc.Receive(ctx, appledger.ReceiveInput{Ref: ref, Units: dec("3"), UnitCost: dec("5")})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snaps, err := uc.ListItems(ctx, "bodega-central")
	require.NoError(t, err)
	require.Len(t, snaps, n)
	for _, s := range snaps {
		assert.True(t, dec("3").Equal(s.UnitsInStock))
	}
}

// conflictTxRunner devuelve ErrConflict las primeras failures ejecuciones y
// después delega en el runner real; cuenta los intentos observados.
type conflictTxRunner struct {
	inner    appledger.TxRunner
	failures int
	attempts int
}

func (r *conflictTxRunner) Run(ctx context.Context, fn func(
	items repository.StockItemRepository,
	movements repository.MovementRecordRepository,
) error) error {
	r.attempts++
	if r.attempts <= r.failures {
		return domain.ErrConflict
	}
	return r.inner.Run(ctx, fn)
}

// Un lost update detectado (ErrConflict) reintenta la sección crítica completa
// de forma transparente: tres conflictos seguidos y la operación igual termina
// bien en el cuarto intento, con un solo movimiento asentado.
func TestUseCase_ReintentoPorConflicto(t *testing.T) {
	store := memory.NewStore()
	runner := &conflictTxRunner{inner: memory.NewTxRunner(store), failures: 3}
	uc := appledger.NewUseCase(runner,
		memory.NewStockItemRepository(store),
		memory.NewMovementRecordRepository(store),
	)
	ctx := context.Background()

	snap, err := uc.Receive(ctx, appledger.ReceiveInput{Ref: testRef(), Units: dec("2"), UnitCost: dec("40")})
	require.NoError(t, err)
	assert.Equal(t, 4, runner.attempts)
	assert.True(t, dec("2").Equal(snap.UnitsInStock))

	movs, err := uc.ListMovements(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, movs, 1, "los intentos fallidos no deben asentar movimientos")
}

// Con conflicto permanente el reintento es acotado: tras agotar los intentos
// el error sale al caller en vez de ciclar.
func TestUseCase_ConflictoPersistente(t *testing.T) {
	store := memory.NewStore()
	runner := &conflictTxRunner{inner: memory.NewTxRunner(store), failures: 1 << 20}
	uc := appledger.NewUseCase(runner,
		memory.NewStockItemRepository(store),
		memory.NewMovementRecordRepository(store),
	)

	_, err := uc.Receive(context.Background(), appledger.ReceiveInput{Ref: testRef(), Units: dec("1"), UnitCost: dec("5")})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 4, runner.attempts, "un intento inicial más tres reintentos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial
// ──────────────────────────────────────────────────────────────────────────────

// El historial sale en orden de commit descendente y filtra por dirección.
func TestUseCase_HistorialOrdenYFiltro(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()
	ref := testRef()

	_, err := uc.Receive(ctx, appledger.ReceiveInput{Ref: ref, Units: dec("10"), UnitCost: dec("2"), Reference: "OC-001"})
	require.NoError(t, err)
	_, err = uc.Issue(ctx, appledger.IssueInput{Ref: ref, Units: dec("4"), Reference: "VALE-07"})
	require.NoError(t, err)
	_, err = uc.Receive(ctx, appledger.ReceiveInput{Ref: ref, Units: dec("1"), UnitCost: dec("3")})
	require.NoError(t, err)

	all, err := uc.ListMovements(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// el más reciente primero
	assert.Equal(t, entity.DirectionIN, all[0].Direction)
	assert.True(t, dec("1").Equal(all[0].Units))
	assert.Equal(t, entity.DirectionOUT, all[1].Direction)
	assert.Equal(t, "VALE-07", all[1].Reference)

	outs, err := uc.ListMovements(ctx, repository.MovementFilter{Direction: entity.DirectionOUT})
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.True(t, dec("4").Equal(outs[0].Units))

	_, err = uc.ListMovements(ctx, repository.MovementFilter{Direction: "SIDEWAYS"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
