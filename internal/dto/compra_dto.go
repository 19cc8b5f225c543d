package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearCompraRequest struct {
	ProveedorID string             `json:"proveedor_id" validate:"required,uuid"`
	Fecha       string             `json:"fecha"        validate:"required,datetime=2006-01-02"`
	Items       []CompraItemInput  `json:"items"        validate:"required,min=1,dive"`
}

type CompraItemInput struct {
	Codigo      string           `json:"codigo"       validate:"required"`
	Descripcion string           `json:"descripcion"  validate:"required"`
	Bultos      int              `json:"bultos"       validate:"required,gt=0"`
	PrecioBulto decimal.Decimal  `json:"precio_bulto" validate:"required"`
	PesoBulto   *decimal.Decimal `json:"peso_bulto"`
}

type CompraFilter struct {
	Fecha       string `form:"fecha"`
	ProveedorID string `form:"proveedor_id"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// EconomiaRequest pide la economía de un renglón suelto (previsualización en
// la pantalla de carga, antes de persistir nada).
type EconomiaRequest struct {
	PrecioBulto decimal.Decimal  `json:"precio_bulto" validate:"required"`
	UxB         int              `json:"uxb"`
	PesoBulto   *decimal.Decimal `json:"peso_bulto"`
	PrecioVenta *decimal.Decimal `json:"precio_venta"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CompraItemResponse struct {
	ID          string           `json:"id"`
	Codigo      string           `json:"codigo"`
	Descripcion string           `json:"descripcion"`
	Bultos      int              `json:"bultos"`
	PrecioBulto decimal.Decimal  `json:"precio_bulto"`
	PesoBulto   *decimal.Decimal `json:"peso_bulto"`
	PrecioKg    *decimal.Decimal `json:"precio_kg"`
	TotalLinea  decimal.Decimal  `json:"total_linea"`
}

type CompraResponse struct {
	ID           string               `json:"id"`
	Numero       int                  `json:"numero"`
	ProveedorID  string               `json:"proveedor_id"`
	Proveedor    string               `json:"proveedor"`
	Fecha        string               `json:"fecha"`
	TotalBultos  int                  `json:"total_bultos"`
	TotalImporte decimal.Decimal      `json:"total_importe"`
	Items        []CompraItemResponse `json:"items"`
}

type CompraListResponse struct {
	Data  []CompraResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// EconomiaResponse: margen y precio/kg nil significan "no computable" y se
// renderizan como "—", nunca como 0.
type EconomiaResponse struct {
	CostoUnitario decimal.Decimal  `json:"costo_unitario"`
	MargenPct     *decimal.Decimal `json:"margen_pct"`
	PrecioKg      *decimal.Decimal `json:"precio_kg"`
}
