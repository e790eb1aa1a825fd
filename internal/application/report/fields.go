package report

import (
	"sort"
)

// Field un par clave/valor de una fila, en orden de presentación.
type Field struct {
	Key   string
	Value any
}

// Row fila ya proyectada a campos ordenados.
type Row []Field

// Viewer contrato explícito de "vista de registro": cualquier tipo de fila lo
// implementa declarando sus campos en orden. El proyector nunca inspecciona
// internals por reflexión.
type Viewer interface {
	DisplayFields() []Field
}

// FieldsOf normaliza una fila heterogénea a Row:
//   - Viewer → sus DisplayFields en el orden declarado
//   - Row / []Field → tal cual
//   - map[string]any → claves ordenadas alfabéticamente (los mapas de Go no
//     tienen orden y el render debe ser determinista)
//
// Cualquier otro tipo produce una fila de un solo campo "value" (degradación
// benigna: el proyector nunca falla por un tipo exótico).
func FieldsOf(rec any) Row {
	switch v := rec.(type) {
	case Viewer:
		return v.DisplayFields()
	case Row:
		return v
	case []Field:
		return v
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		row := make(Row, 0, len(keys))
		for _, k := range keys {
			row = append(row, Field{Key: k, Value: v[k]})
		}
		return row
	default:
		return Row{{Key: "value", Value: rec}}
	}
}

// valueOf busca el valor de una clave en la fila; ok=false si la fila no trae
// esa columna (se renderiza "N/A"). Claves extra de la fila se ignoran.
func (r Row) valueOf(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}
