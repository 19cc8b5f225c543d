// Package margen concentra la aritmética de costos unitarios y márgenes de
// venta derivados de precios por bulto. Todos los valores monetarios usan
// decimal.Decimal; un margen no computable se representa como nil, nunca como
// cero (el cero es un margen válido).
package margen

import "github.com/shopspring/decimal"

// La columna margen_pct es decimal(5,2): el rango representable es ±999.99.
// Un valor fuera de rango se satura al borde, no se rechaza.
var (
	MargenMax = decimal.RequireFromString("999.99")
	MargenMin = decimal.RequireFromString("-999.99")

	cien = decimal.NewFromInt(100)
)

// CostoUnitario divide el precio por bulto entre las unidades por bulto (UxB).
// Con uxb <= 0 no existe costo por unidad: devuelve cero.
func CostoUnitario(precioBulto decimal.Decimal, uxb int) decimal.Decimal {
	if uxb <= 0 {
		return decimal.Zero
	}
	return precioBulto.Div(decimal.NewFromInt(int64(uxb)))
}

// Margen calcula (precioVenta − costoUnitario) / costoUnitario × 100,
// saturado a ±999.99 y redondeado a 2 decimales. Devuelve nil cuando el costo
// unitario no es positivo: "no computable" se renderiza como "—", no como 0%.
func Margen(precioVenta, costoUnitario decimal.Decimal) *decimal.Decimal {
	if costoUnitario.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	m := precioVenta.Sub(costoUnitario).Div(costoUnitario).Mul(cien)
	m = Clamp(m)
	return &m
}

// Clamp satura un margen al rango representable y lo redondea a 2 decimales.
func Clamp(m decimal.Decimal) decimal.Decimal {
	if m.GreaterThan(MargenMax) {
		return MargenMax
	}
	if m.LessThan(MargenMin) {
		return MargenMin
	}
	return m.Round(2)
}

// PrecioPorKg divide el precio por bulto entre el peso por bulto.
// Devuelve nil cuando el peso no es positivo.
func PrecioPorKg(precioBulto, pesoBulto decimal.Decimal) *decimal.Decimal {
	if pesoBulto.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	kg := precioBulto.Div(pesoBulto).Round(2)
	return &kg
}
