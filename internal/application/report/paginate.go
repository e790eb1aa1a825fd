package report

// MetaEntry línea etiqueta/valor del bloque de resumen. Se modela como slice
// ordenado (no mapa) porque el layout debe ser determinista.
type MetaEntry struct {
	Label string
	Value any
}

// Request petición transitoria de reporte: título, filas heterogéneas y
// bloque opcional de descripción/metadata. No posee las filas, solo las lee.
type Request struct {
	Title       string
	Description string
	Metadata    []MetaEntry
	Rows        []any
}

// Layout presupuesto vertical/horizontal de la página, en milímetros.
type Layout struct {
	PageHeight         float64
	TopMargin          float64
	BottomMargin       float64
	TitleHeight        float64
	DescriptionHeight  float64
	MetaLineHeight     float64
	ColumnHeaderHeight float64
	RowHeight          float64
	PrintableWidth     float64 // en unidades de ancho de columna
}

// DefaultLayout presupuesto A4 con los márgenes que usa el renderer.
func DefaultLayout() Layout {
	return Layout{
		PageHeight:         297,
		TopMargin:          10,
		BottomMargin:       10,
		TitleHeight:        12,
		DescriptionHeight:  8,
		MetaLineHeight:     6,
		ColumnHeaderHeight: 8,
		RowHeight:          7,
		PrintableWidth:     12, // grilla de 12 columnas del renderer
	}
}

// Page una página ya proyectada: bloque de cabecera + filas serializadas.
// El renderer solo dibuja; todo el shaping ocurre aquí.
type Page struct {
	Number      int
	Title       string
	Description string
	Metadata    []MetaEntry
	Columns     []Column   // cabecera de tabla, repetida en cada página
	Cells       [][]string // filas de la página, ya serializadas
	NoData      bool       // sin filas: marcador "No data available"
}

// Paginate función pura de (filas, columnas, layout) a páginas: la misma
// entrada produce siempre el mismo layout. Cada página lleva el bloque de
// cabecera y repite la fila de títulos de columna; cuando una fila no cabe
// antes del margen inferior se abre página nueva.
func Paginate(req Request, cols []Column, layout Layout) []Page {
	rows := make([]Row, 0, len(req.Rows))
	for _, raw := range req.Rows {
		rows = append(rows, FieldsOf(raw))
	}

	if len(rows) == 0 {
		return []Page{{
			Number:      1,
			Title:       req.Title,
			Description: req.Description,
			Metadata:    req.Metadata,
			Columns:     cols,
			NoData:      true,
		}}
	}

	perPage := rowsPerPage(req, layout)
	var pages []Page
	for start := 0; start < len(rows); start += perPage {
		end := min(start+perPage, len(rows))
		cells := make([][]string, 0, end-start)
		for _, row := range rows[start:end] {
			cells = append(cells, projectRow(row, cols))
		}
		pages = append(pages, Page{
			Number:      len(pages) + 1,
			Title:       req.Title,
			Description: req.Description,
			Metadata:    req.Metadata,
			Columns:     cols,
			Cells:       cells,
		})
	}
	return pages
}

// rowsPerPage filas que caben tras el bloque de cabecera; mínimo una por
// página para que el render siempre avance.
func rowsPerPage(req Request, layout Layout) int {
	avail := layout.PageHeight - layout.TopMargin - layout.BottomMargin - layout.TitleHeight
	if req.Description != "" {
		avail -= layout.DescriptionHeight
	}
	avail -= float64(len(req.Metadata)) * layout.MetaLineHeight
	avail -= layout.ColumnHeaderHeight

	n := int(avail / layout.RowHeight)
	if n < 1 {
		n = 1
	}
	return n
}

// projectRow mapea una fila contra el set fijo de columnas: claves faltantes
// rinden "N/A", claves extra se descartan en silencio.
func projectRow(row Row, cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		v, ok := row.valueOf(c.Key)
		if !ok {
			out[i] = cellNA
			continue
		}
		out[i] = SerializeCell(v)
	}
	return out
}
