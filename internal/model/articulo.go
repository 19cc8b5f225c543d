package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Articulo es el espejo local de un artículo de ELABASTECEDOR. La base
// externa es la fuente de verdad; esta copia existe para listar rápido y para
// anclar renglones de compra. Se upserta por código normalizado en cada
// fetch de listado y nunca se borra desde este subsistema.
type Articulo struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Codigo siempre se guarda normalizado (ver internal/codigo).
	Codigo      string `gorm:"uniqueIndex;not null"`
	Descripcion string `gorm:"not null"`

	// Stock de referencia, separado por grupo de sucursal.
	StockSucursales decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	StockCD         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// Ventas históricas (solo sucursales de venta, excluye CD).
	VentasDia1   int `gorm:"not null;default:0"`
	VentasDia2   int `gorm:"not null;default:0"`
	VentasSemana int `gorm:"not null;default:0"`

	// Referencia de precios del sistema externo.
	CostoRef       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PrecioVentaRef decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	MargenRef      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Articulo) TableName() string { return "articulos" }
