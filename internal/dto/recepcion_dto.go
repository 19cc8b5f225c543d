package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RecibirRequest reemplaza los renglones recibidos de una compra. El POST es
// idempotente por reemplazo: borra y recrea los renglones en una transacción.
type RecibirRequest struct {
	Items []RecibirItemInput `json:"items" validate:"required,min=1,dive"`
}

type RecibirItemInput struct {
	CompraItemID     string          `json:"compra_item_id"    validate:"required,uuid"`
	CantidadRecibida decimal.Decimal `json:"cantidad_recibida"`
	UxB              int             `json:"uxb"               validate:"min=0"`
}

// GuardarPreciosRequest fija precio de venta por renglón; el margen se
// calcula y la recepción queda marcada completa.
type GuardarPreciosRequest struct {
	Items []PrecioItemInput `json:"items" validate:"required,min=1,dive"`
}

type PrecioItemInput struct {
	RecepcionItemID string          `json:"recepcion_item_id" validate:"required,uuid"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"      validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RecepcionItemResponse struct {
	ID               string           `json:"id"`
	CompraItemID     string           `json:"compra_item_id"`
	Codigo           string           `json:"codigo"`
	Descripcion      string           `json:"descripcion"`
	CantidadRecibida decimal.Decimal  `json:"cantidad_recibida"`
	UxB              int              `json:"uxb"`
	PrecioBulto      decimal.Decimal  `json:"precio_bulto"`
	PrecioVenta      *decimal.Decimal `json:"precio_venta"`
	MargenPct        *decimal.Decimal `json:"margen_pct"`
}

type RecepcionResponse struct {
	ID       string                  `json:"id"`
	Numero   int                     `json:"numero"`
	CompraID string                  `json:"compra_id"`
	Completa bool                    `json:"completa"`
	Items    []RecepcionItemResponse `json:"items"`
}

// InfoFinalFila es una fila del reporte final del día: un grupo
// (código, uxb) con su cantidad total recibida, el costo ponderado del
// artículo (compartido entre todos los grupos del mismo código) y la
// referencia externa para resaltar discrepancias.
type InfoFinalFila struct {
	Codigo           string           `json:"codigo"`
	Descripcion      string           `json:"descripcion"`
	UxB              int              `json:"uxb"`
	CantidadRecibida decimal.Decimal  `json:"cantidad_recibida"`
	CostoPonderado   *decimal.Decimal `json:"costo_ponderado"`
	PrecioVenta      *decimal.Decimal `json:"precio_venta"`
	MargenPct        *decimal.Decimal `json:"margen_pct"`

	// Referencia ELABASTECEDOR (ceros si la fuente no respondió).
	CostoRef       decimal.Decimal `json:"costo_ref"`
	PrecioVentaRef decimal.Decimal `json:"precio_venta_ref"`
	MargenRef      decimal.Decimal `json:"margen_ref"`
}

type InfoFinalResponse struct {
	Fecha string          `json:"fecha"`
	Filas []InfoFinalFila `json:"filas"`
}
