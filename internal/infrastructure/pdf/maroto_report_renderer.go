// Package pdf implementa el backend de dibujo del proyector de reportes
// usando Maroto v2.
//
// Layout de la página A4 (una página Maroto por página proyectada):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  TÍTULO                                                      │
//	│  Descripción (opcional)                                      │
//	│  Metadata: Etiqueta: valor (una línea por entrada)           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CABECERA DE COLUMNAS (se repite en cada página)             │
//	│  fila | fila | fila ...                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/farmops/agrostock/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 27, Green: 94, Blue: 32}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// gridWidth grilla de 12 columnas de Maroto.
const gridWidth = 12

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ report.DocumentRenderer = (*MarotoReportRenderer)(nil)

// MarotoReportRenderer implementa report.DocumentRenderer con Maroto v2.
// Sin estado: seguro para reportes concurrentes.
type MarotoReportRenderer struct{}

// NewMarotoReportRenderer construye el renderer.
func NewMarotoReportRenderer() *MarotoReportRenderer { return &MarotoReportRenderer{} }

// Render dibuja las páginas ya proyectadas y devuelve los bytes del PDF.
func (g *MarotoReportRenderer) Render(_ context.Context, pages []report.Page) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		Build()

	m := maroto.New(cfg)

	for _, p := range pages {
		pg := page.New()
		pg.Add(headerRows(p)...)
		pg.Add(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))
		if p.NoData {
			pg.Add(noDataRow())
		} else {
			grid := gridSizes(p.Columns)
			pg.Add(columnHeaderRow(p.Columns, grid))
			for _, cells := range p.Cells {
				pg.Add(cellRow(cells, grid))
			}
		}
		m.AddPages(pg)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRows título + descripción + líneas de metadata.
func headerRows(p report.Page) []core.Row {
	rows := []core.Row{
		row.New(10).Add(col.New(gridWidth).Add(
			text.New(p.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	if p.Description != "" {
		rows = append(rows, row.New(6).Add(col.New(gridWidth).Add(
			text.New(p.Description, props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}
	for _, meta := range p.Metadata {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(meta.Label+":", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 0.5,
			})),
			col.New(9).Add(text.New(report.SerializeCell(meta.Value), props.Text{
				Size: 8, Top: 0.5, Color: colorGray,
			})),
		))
	}
	return rows
}

// columnHeaderRow cabecera de la tabla, en negrita y color primario.
func columnHeaderRow(cols []report.Column, grid []int) core.Row {
	r := row.New(8)
	for i, c := range cols {
		r.Add(col.New(grid[i]).Add(text.New(c.Label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 1,
		})))
	}
	return r
}

// cellRow una fila de celdas ya serializadas.
func cellRow(cells []string, grid []int) core.Row {
	r := row.New(7)
	for i, cell := range cells {
		r.Add(col.New(grid[i]).Add(text.New(cell, props.Text{
			Size: 8, Top: 1, Left: 1,
		})))
	}
	return r
}

// noDataRow marcador explícito para reportes sin filas.
func noDataRow() core.Row {
	return row.New(12).Add(col.New(gridWidth).Add(
		text.New("No data available", props.Text{
			Size: 10, Color: colorGray, Top: 4, Left: 1,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// gridSizes lleva los anchos proporcionales del proyector a la grilla entera
// de 12 de Maroto: piso por columna (mínimo 1) y reparto del resto por mayor
// parte fraccionaria. La suma sale exactamente 12.
func gridSizes(cols []report.Column) []int {
	n := len(cols)
	if n == 0 {
		return nil
	}
	total := 0.0
	for _, c := range cols {
		total += c.Width
	}
	if total <= 0 {
		total = float64(n)
	}

	sizes := make([]int, n)
	fracs := make([]float64, n)
	used := 0
	for i, c := range cols {
		exact := c.Width / total * gridWidth
		sizes[i] = int(exact)
		if sizes[i] < 1 {
			sizes[i] = 1
		}
		fracs[i] = exact - float64(int(exact))
		used += sizes[i]
	}
	for used < gridWidth {
		best := 0
		for i := 1; i < n; i++ {
			if fracs[i] > fracs[best] {
				best = i
			}
		}
		sizes[best]++
		fracs[best] = -1
		used++
	}
	for used > gridWidth {
		// demasiadas columnas para la grilla: recorta desde la más ancha
		widest := 0
		for i := 1; i < n; i++ {
			if sizes[i] > sizes[widest] {
				widest = i
			}
		}
		if sizes[widest] <= 1 {
			break
		}
		sizes[widest]--
		used--
	}
	return sizes
}
