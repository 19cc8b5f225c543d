package dto

import "github.com/shopspring/decimal"

// ─── Filter / Pagination ─────────────────────────────────────────────────────

// ProductoFilter controla el listado enriquecido. Los campos de orden son los
// enriquecidos (stock/ventas/precios), que no existen como columnas nativas
// del espejo local: el servicio trae el set filtrado completo, enriquece,
// ordena en memoria y recién ahí pagina.
type ProductoFilter struct {
	Busqueda  string `form:"busqueda"`
	Depto     string `form:"depto"`
	Proveedor string `form:"proveedor"` // código externo del proveedor
	Fecha     string `form:"fecha"`     // YYYY-MM-DD para ventanas de ventas; default hoy
	Orden     string `form:"orden"`     // campo enriquecido; ver listado.go
	Dir       string `form:"dir,default=desc" validate:"omitempty,oneof=asc desc"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ProductoEnriquecido es una fila de listado: el artículo base más el stock,
// precios y ventas de referencia traídos de ELABASTECEDOR (ceros si la fuente
// no respondió).
type ProductoEnriquecido struct {
	Codigo          string          `json:"codigo"`
	Descripcion     string          `json:"descripcion"`
	StockSucursales decimal.Decimal `json:"stock_sucursales"`
	StockCD         decimal.Decimal `json:"stock_cd"`
	VentasDia1      int             `json:"ventas_dia_1"`
	VentasDia2      int             `json:"ventas_dia_2"`
	VentasSemana    int             `json:"ventas_semana"`
	Costo           decimal.Decimal `json:"costo"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"`
	MargenPct       decimal.Decimal `json:"margen_pct"`
}

type ProductoListResponse struct {
	Data  []ProductoEnriquecido `json:"data"`
	Total int                   `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// ProveedorResponse espeja una fila del maestro externo de proveedores.
type ProveedorResponse struct {
	Clave  string `json:"clave"`
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
}

// ArticuloRefResponse es un artículo encajonable referenciable en una compra.
type ArticuloRefResponse struct {
	Codigo      string `json:"codigo"`
	Descripcion string `json:"descripcion"`
}
