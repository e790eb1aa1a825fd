package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Marcadores de presentación.
const (
	cellNA       = "N/A"
	cellYes      = "Yes"
	cellNo       = "No"
	dateLayout   = "2006-01-02"
	maxCellChars = 50
	truncateTo   = 47
)

// SerializeCell lleva cualquier valor a su string de presentación. Nunca
// falla: los tipos no reconocidos caen al formateo por defecto.
//
//	fecha/hora → YYYY-MM-DD; decimal/float → 2 decimales; bool → Yes/No;
//	nil → N/A; slice → unión por comas; map → stringificado.
func SerializeCell(value any) string {
	return truncate(serialize(value))
}

func serialize(value any) string {
	switch v := value.(type) {
	case nil:
		return cellNA
	case string:
		return v
	case *string:
		if v == nil {
			return cellNA
		}
		return *v
	case time.Time:
		return v.Format(dateLayout)
	case *time.Time:
		if v == nil {
			return cellNA
		}
		return v.Format(dateLayout)
	case decimal.Decimal:
		return v.StringFixed(2)
	case *decimal.Decimal:
		if v == nil {
			return cellNA
		}
		return v.StringFixed(2)
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', 2, 32)
	case bool:
		if v {
			return cellYes
		}
		return cellNo
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, serialize(e))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// truncate recorta strings de más de 50 caracteres a 47 más elipsis.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxCellChars {
		return s
	}
	return string(runes[:truncateTo]) + "..."
}
