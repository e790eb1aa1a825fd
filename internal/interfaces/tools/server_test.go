package tools_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/farmops/agrostock/internal/application/ledger"
	"github.com/farmops/agrostock/internal/application/dto"
	"github.com/farmops/agrostock/internal/application/report"
	"github.com/farmops/agrostock/internal/infrastructure/memory"
	"github.com/farmops/agrostock/internal/infrastructure/pdf"
	"github.com/farmops/agrostock/internal/interfaces/tools"
	"github.com/farmops/agrostock/pkg/logger"
)

func newTestServer(t *testing.T) *tools.Server {
	t.Helper()
	store := memory.NewStore()
	uc := appledger.NewUseCase(
		memory.NewTxRunner(store),
		memory.NewStockItemRepository(store),
		memory.NewMovementRecordRepository(store),
	)
	gen := report.NewGenerator(pdf.NewMarotoReportRenderer(), report.DefaultLayout())
	reg := tools.NewRegistry()
	tools.RegisterLedgerTools(reg, uc)
	tools.RegisterReportTools(reg, uc, gen)
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	return tools.NewServer(reg, log)
}

// serve corre el loop con las líneas dadas y devuelve las respuestas decodificadas.
func serve(t *testing.T, s *tools.Server, lines ...string) []tools.Response {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out strings.Builder
	require.NoError(t, s.Serve(context.Background(), in, &out))

	var resps []tools.Response
	dec := json.NewDecoder(strings.NewReader(out.String()))
	for dec.More() {
		var r tools.Response
		require.NoError(t, dec.Decode(&r))
		resps = append(resps, r)
	}
	return resps
}

func TestServer_RecibirYConsultar(t *testing.T) {
	s := newTestServer(t)

	resps := serve(t, s,
		`{"id":"1","tool":"receive_stock","params":{"store":"bodega","category":"semillas","units":"10","unit_cost":"100"}}`,
		`{"id":"2","tool":"receive_stock","params":{"store":"bodega","category":"semillas","units":"10","unit_cost":"200"}}`,
		`{"id":"3","tool":"list_movements","params":{"store":"bodega"}}`,
	)
	require.Len(t, resps, 3)

	for _, r := range resps {
		assert.True(t, r.OK, "respuesta %s", r.ID)
		assert.Nil(t, r.Error)
	}

	// el promedio ponderado queda en la segunda respuesta
	snap := resps[1].Result.(map[string]any)
	assert.Equal(t, "20", snap["units_in_stock"])
	assert.Equal(t, "150", snap["unit_cost"])

	movs := resps[2].Result.([]any)
	assert.Len(t, movs, 2)
}

func TestServer_StockInsuficiente(t *testing.T) {
	s := newTestServer(t)

	resps := serve(t, s,
		`{"id":"1","tool":"receive_stock","params":{"store":"bodega","category":"abono","units":"5","unit_cost":"10"}}`,
		`{"id":"2","tool":"issue_stock","params":{"store":"bodega","category":"abono","units":"8"}}`,
	)
	require.Len(t, resps, 2)
	require.True(t, resps[0].OK)

	r := resps[1]
	assert.False(t, r.OK)
	require.NotNil(t, r.Error)
	assert.Equal(t, dto.CodeInsufficientStock, r.Error.Code)
	// el saldo disponible viaja en los detalles para que el caller ajuste
	assert.Equal(t, "5", r.Error.Details["units_in_stock"])
}

func TestServer_CantidadInvalida(t *testing.T) {
	s := newTestServer(t)

	resps := serve(t, s,
		`{"id":"1","tool":"receive_stock","params":{"store":"bodega","category":"abono","units":"cinco","unit_cost":"10"}}`,
		`{"id":"2","tool":"receive_stock","params":{"store":"bodega","category":"abono","units":"-3","unit_cost":"10"}}`,
	)
	require.Len(t, resps, 2)

	for _, r := range resps {
		assert.False(t, r.OK, "respuesta %s", r.ID)
		require.NotNil(t, r.Error, "respuesta %s", r.ID)
		assert.Equal(t, dto.CodeInvalidQuantity, r.Error.Code)
		// la entrada rechazada se devuelve tal cual llegó
		input := r.Error.Details["input"].(map[string]any)
		assert.Equal(t, "bodega", input["store"])
	}
}

func TestServer_ListTools(t *testing.T) {
	s := newTestServer(t)

	resps := serve(t, s, `{"id":"1","tool":"list_tools"}`)
	require.Len(t, resps, 1)
	require.True(t, resps[0].OK)

	infos := resps[0].Result.([]any)
	require.Len(t, infos, 4)
	names := make([]string, 0, len(infos))
	for _, i := range infos {
		info := i.(map[string]any)
		names = append(names, info["name"].(string))
		assert.NotNil(t, info["input_schema"], "schema de %s", info["name"])
	}
	assert.ElementsMatch(t, []string{"receive_stock", "issue_stock", "list_movements", "generate_report"}, names)
}

// generate_report devuelve un PDF válido en base64 con su conteo de páginas.
func TestServer_GenerateReport(t *testing.T) {
	s := newTestServer(t)

	resps := serve(t, s,
		`{"id":"1","tool":"receive_stock","params":{"store":"bodega","category":"semillas","units":"10","unit_cost":"12.50"}}`,
		`{"id":"2","tool":"generate_report","params":{"report":"stock_summary","store":"bodega"}}`,
		`{"id":"3","tool":"generate_report","params":{"report":"boletín"}}`,
	)
	require.Len(t, resps, 3)
	require.True(t, resps[0].OK)

	require.True(t, resps[1].OK)
	result := resps[1].Result.(map[string]any)
	assert.Equal(t, float64(1), result["pages"])
	assert.Contains(t, result["filename"], "resumen_stock")
	raw, err := base64.StdEncoding.DecodeString(result["content_base64"].(string))
	require.NoError(t, err)
	require.Greater(t, len(raw), 4)
	assert.Equal(t, "%PDF", string(raw[:4]))

	// tipo de reporte desconocido: error de validación, no caída del loop
	assert.False(t, resps[2].OK)
	require.NotNil(t, resps[2].Error)
	assert.Equal(t, dto.CodeValidation, resps[2].Error.Code)
}

func TestServer_PeticionesMalformadas(t *testing.T) {
	s := newTestServer(t)

	resps := serve(t, s,
		`{esto no es json}`,
		`{"id":"2","tool":"herramienta_fantasma","params":{}}`,
	)
	require.Len(t, resps, 2)

	assert.False(t, resps[0].OK)
	assert.Equal(t, dto.CodeValidation, resps[0].Error.Code)

	assert.False(t, resps[1].OK)
	assert.Equal(t, dto.CodeNotFound, resps[1].Error.Code)
}
