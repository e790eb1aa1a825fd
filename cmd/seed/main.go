// seed puebla el ledger con un inventario agropecuario de ejemplo, pasando
// por el caso de uso (no por SQL directo) para que los movimientos y el
// costo promedio queden asentados igual que en producción.
//
// Uso: go run ./cmd/seed
// Respeta STORE_DRIVER: con "memory" solo sirve para probar la salida.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	appledger "github.com/farmops/agrostock/internal/application/ledger"
	"github.com/farmops/agrostock/internal/domain/repository"
	"github.com/farmops/agrostock/internal/infrastructure/memory"
	"github.com/farmops/agrostock/internal/infrastructure/postgres"
	"github.com/farmops/agrostock/pkg/config"
)

type seedEntry struct {
	store       string
	category    string
	subcategory string
	units       string
	unitCost    string
	reference   string
}

var entries = []seedEntry{
	{"bodega-central", "semillas", "maiz-hibrido", "500", "12.50", "OC-1001"},
	{"bodega-central", "semillas", "soya", "300", "9.80", "OC-1001"},
	{"bodega-central", "fertilizantes", "urea-46", "1200", "2.10", "OC-1002"},
	{"bodega-central", "fertilizantes", "dap", "800", "3.45", "OC-1002"},
	{"bodega-central", "agroquimicos", "glifosato", "150", "18.00", "OC-1003"},
	{"bodega-norte", "semillas", "maiz-hibrido", "200", "13.10", "OC-1004"},
	{"bodega-norte", "alimento", "concentrado-bovino", "600", "1.75", "OC-1005"},
	{"bodega-norte", "medicamentos", "ivermectina", "40", "22.30", "OC-1006"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var uc *appledger.UseCase
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		uc = appledger.NewUseCase(
			postgres.NewTxRunner(pool),
			postgres.NewStockItemRepository(pool),
			postgres.NewMovementRecordRepository(pool),
		)
	case config.DriverMemory:
		store := memory.NewStore()
		uc = appledger.NewUseCase(
			memory.NewTxRunner(store),
			memory.NewStockItemRepository(store),
			memory.NewMovementRecordRepository(store),
		)
	}

	for _, e := range entries {
		units, err := decimal.NewFromString(e.units)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unidades de %s/%s: %v\n", e.category, e.subcategory, err)
			os.Exit(1)
		}
		cost, err := decimal.NewFromString(e.unitCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Costo de %s/%s: %v\n", e.category, e.subcategory, err)
			os.Exit(1)
		}
		sub := e.subcategory
		snap, err := uc.Receive(ctx, appledger.ReceiveInput{
			Ref:       repository.ItemRef{Store: e.store, Category: e.category, Subcategory: &sub},
			Units:     units,
			UnitCost:  cost,
			Reference: e.reference,
			Notes:     "seed inicial",
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Recibir %s/%s: %v\n", e.category, e.subcategory, err)
			os.Exit(1)
		}
		fmt.Printf("%s  %s/%s  unidades=%s costo=%s\n",
			snap.Store, snap.Category, e.subcategory, snap.UnitsInStock, snap.UnitCost)
	}
	fmt.Printf("Seed completo: %d items\n", len(entries))
}
