// Package tools expone el ledger y el proyector de reportes como herramientas
// de tool-calling: definiciones con JSON Schema de entrada y un loop de
// despacho por stdin/stdout. Sin prompts ni loop de agente: eso vive en el
// cliente que consume las herramientas.
package tools

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Handler función de ejecución de una herramienta. Recibe los parámetros JSON
// crudos y devuelve el resultado serializable o un *CallError.
type Handler func(ctx context.Context, params json.RawMessage) (any, error)

// Definition describe una herramienta del registro.
type Definition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Handler     Handler
}

// Registry todas las herramientas disponibles para el despachador.
type Registry struct {
	defs []Definition
}

// NewRegistry crea un registro vacío.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register agrega una herramienta.
func (r *Registry) Register(d Definition) {
	r.defs = append(r.defs, d)
}

// Get busca una herramienta por nombre.
func (r *Registry) Get(name string) (Definition, bool) {
	for _, d := range r.defs {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// All devuelve todas las herramientas registradas.
func (r *Registry) All() []Definition {
	return r.defs
}

// schemaFor refleja el JSON Schema del struct de parámetros de una herramienta.
func schemaFor[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
