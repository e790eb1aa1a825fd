package report

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Column columna inferida del primer registro. El set de columnas es fijo para
// todo el reporte: nunca se re-deriva por fila, así que el drift de esquema se
// manifiesta como celdas "N/A" o campos ignorados, no como columnas nuevas.
type Column struct {
	Key   string
	Label string
	Width float64 // en unidades de longitud (2.5–6 antes de escalar)
}

// Campos excluidos de todo reporte.
var excludedKeys = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"password":   true,
	"token":      true,
}

// internalPrefix marca claves internas que nunca se reportan.
const internalPrefix = "_"

// Rango de anchos estimados por columna.
const (
	minColWidth       = 2.5
	maxColWidth       = 6.0
	widthPerChar      = 0.18
	sampleLengthLimit = 30
)

// InferColumns deriva el esquema de columnas del primer registro: aplica la
// lista de exclusión, arma la etiqueta legible y estima el ancho a partir de
// la etiqueta y el valor de muestra.
func InferColumns(first Row) []Column {
	cols := make([]Column, 0, len(first))
	for _, f := range first {
		if excludedKeys[f.Key] || strings.HasPrefix(f.Key, internalPrefix) {
			continue
		}
		label := labelFor(f.Key)
		sample := SerializeCell(f.Value)
		cols = append(cols, Column{
			Key:   f.Key,
			Label: label,
			Width: widthEstimate(label, sample),
		})
	}
	return cols
}

// labelFor etiqueta legible: recorta sufijos _id/_at, separa palabras y pone
// mayúscula inicial. Ej: "unit_cost" → "Unit Cost", "warehouse_id" → "Warehouse".
func labelFor(key string) string {
	key = strings.TrimSuffix(key, "_id")
	key = strings.TrimSuffix(key, "_at")
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// widthEstimate max(len(etiqueta), min(len(muestra), 30)) llevado al rango
// acotado. Cuenta runas, no bytes: las etiquetas acentuadas miden igual que
// sus equivalentes ASCII.
func widthEstimate(label, sample string) float64 {
	chars := utf8.RuneCountInString(label)
	if s := min(utf8.RuneCountInString(sample), sampleLengthLimit); s > chars {
		chars = s
	}
	w := float64(chars) * widthPerChar
	if w < minColWidth {
		return minColWidth
	}
	if w > maxColWidth {
		return maxColWidth
	}
	return w
}

// ScaleWidths encoge todas las columnas por el mismo factor cuando la suma de
// anchos estimados excede el ancho imprimible. Nunca trunca columnas, solo las
// reduce proporcionalmente.
func ScaleWidths(cols []Column, printable float64) []Column {
	if printable <= 0 || len(cols) == 0 {
		return cols
	}
	total := 0.0
	for _, c := range cols {
		total += c.Width
	}
	if total <= printable {
		return cols
	}
	factor := printable / total
	scaled := make([]Column, len(cols))
	for i, c := range cols {
		c.Width *= factor
		scaled[i] = c
	}
	return scaled
}
