package report

import (
	"context"
	"fmt"
)

// Generator caso de uso del proyector: infiere columnas, escala anchos,
// pagina y delega el dibujo al renderer. Sin estado mutable compartido:
// una llamada, una salida; reentrante entre reportes independientes.
type Generator struct {
	renderer DocumentRenderer
	layout   Layout
}

// NewGenerator construye el generador con su backend de dibujo.
func NewGenerator(renderer DocumentRenderer, layout Layout) *Generator {
	return &Generator{renderer: renderer, layout: layout}
}

// Generate produce los bytes del documento para una petición de reporte.
// Con cero filas emite la página única de "No data available" en vez de fallar.
func (g *Generator) Generate(ctx context.Context, req Request) ([]byte, error) {
	doc, err := g.RenderPages(ctx, g.Project(req))
	if err != nil {
		return nil, fmt.Errorf("reporte %q: %w", req.Title, err)
	}
	return doc, nil
}

// RenderPages dibuja páginas ya proyectadas. Los callers que necesitan
// inspeccionar las páginas (conteo, preview) proyectan una vez y pasan el
// resultado acá en vez de pagar la proyección dos veces.
func (g *Generator) RenderPages(ctx context.Context, pages []Page) ([]byte, error) {
	doc, err := g.renderer.Render(ctx, pages)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return doc, nil
}

// Project hace solo el shaping (columnas + páginas), para callers que
// paginan/dibujan por su cuenta. Determinista por construcción.
func (g *Generator) Project(req Request) []Page {
	var cols []Column
	if len(req.Rows) > 0 {
		cols = InferColumns(FieldsOf(req.Rows[0]))
		cols = ScaleWidths(cols, g.layout.PrintableWidth)
	}
	return Paginate(req, cols, g.layout)
}
