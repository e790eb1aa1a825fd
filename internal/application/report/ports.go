package report

import "context"

// DocumentRenderer puerto del backend de dibujo (colocar texto, colocar tabla
// con salto de página). La matemática de paginación asume estas primitivas
// pero no las implementa: el adaptador PDF vive en infrastructure.
type DocumentRenderer interface {
	Render(ctx context.Context, pages []Page) ([]byte, error)
}
