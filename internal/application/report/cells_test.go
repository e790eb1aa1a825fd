package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/farmops/agrostock/internal/application/report"
)

// Cada tipo de origen mapea a su string de presentación; ningún valor falla.
func TestSerializeCell_Tipos(t *testing.T) {
	fecha := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)
	d := decimal.RequireFromString("1234.5")

	cases := []struct {
		name  string
		value any
		want  string
	}{
		{"fecha", fecha, "2026-03-15"},
		{"decimal", d, "1234.50"},
		{"float", 3.14159, "3.14"},
		{"bool true", true, "Yes"},
		{"bool false", false, "No"},
		{"nil", nil, "N/A"},
		{"lista strings", []string{"a", "b", "c"}, "a, b, c"},
		{"lista mixta", []any{1, true, nil}, "1, Yes, N/A"},
		{"string", "hola", "hola"},
		{"entero", 42, "42"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, report.SerializeCell(tc.value))
		})
	}
}

// Un mapa se stringifica con el formateo por defecto (degradación, no error).
func TestSerializeCell_Mapa(t *testing.T) {
	got := report.SerializeCell(map[string]any{"k": 1})
	assert.Contains(t, got, "k")
}

// Strings de más de 50 caracteres quedan en 47 más elipsis.
func TestSerializeCell_Truncado(t *testing.T) {
	long := strings.Repeat("x", 80)
	got := report.SerializeCell(long)
	assert.Equal(t, 50, len(got))
	assert.Equal(t, strings.Repeat("x", 47)+"...", got)

	exact := strings.Repeat("y", 50)
	assert.Equal(t, exact, report.SerializeCell(exact), "50 exactos no se truncan")
}
