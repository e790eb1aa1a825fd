package ledger

import "github.com/shopspring/decimal"

// CostForReceive implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Con total resultante <= 0 devuelve cero por convención (stock vacío = costo indefinido).
func CostForReceive(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	total := stockActual.Add(cantEntrada)
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(total)
}
