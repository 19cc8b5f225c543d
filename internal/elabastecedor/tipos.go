// Package elabastecedor es el gateway de solo lectura contra la base legada
// del punto de venta (ELABASTECEDOR, SQL Server). Todas las operaciones
// degradan a resultado vacío ante cualquier falla de conexión o de esquema:
// el agregado aguas abajo sigue con ceros en vez de tirar abajo el request.
package elabastecedor

import "github.com/shopspring/decimal"

// Proveedor es una fila del maestro de proveedores externo.
type Proveedor struct {
	Clave  string `json:"clave"`
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
}

// ArticuloRef identifica un artículo encajonable del maestro externo.
type ArticuloRef struct {
	Codigo      string `json:"codigo"`
	Descripcion string `json:"descripcion"`
}

// Stock es el stock de un artículo separado por grupo de sucursales.
type Stock struct {
	Sucursales decimal.Decimal `json:"sucursales"`
	CentroDist decimal.Decimal `json:"centro_distribucion"`
}

// Precios es la referencia de precios externa de un artículo. Costo ya viene
// con IVA aplicado (costo base × (1 + iva/100), redondeado a 2).
type Precios struct {
	Costo       decimal.Decimal `json:"costo"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	MargenPct   decimal.Decimal `json:"margen_pct"`
}

// Ventas son las cantidades vendidas en las ventanas fijas de reporte:
// día −1, día −2 y los 7 días que terminan en día −1. Solo sucursales de
// venta; el centro de distribución queda excluido.
type Ventas struct {
	Dia1   int `json:"dia_1"`
	Dia2   int `json:"dia_2"`
	Semana int `json:"semana"`
}
