package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recepcion registra lo efectivamente recibido contra UNA compra (1:1).
// Reenviar cantidades borra y recrea los renglones en una transacción
// (idempotencia por reemplazo) y resetea Completa: un renglón nuevo todavía
// no tiene precio de venta ni margen cargados.
type Recepcion struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero   int       `gorm:"uniqueIndex;not null"`
	CompraID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	// Completa se fija en true al guardar precios/márgenes; es el registro
	// durable de esa operación.
	Completa  bool `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Compra *Compra         `gorm:"foreignKey:CompraID"`
	Items  []RecepcionItem `gorm:"foreignKey:RecepcionID"`
}

func (Recepcion) TableName() string { return "recepciones" }

// RecepcionItem ata un renglón recibido a exactamente un renglón de compra.
// Invariante: el CompraItem padre pertenece a la misma Compra que la
// Recepcion (lo valida el servicio al recibir).
// PrecioVenta y MargenPct quedan nil hasta que se guardan precios.
type RecepcionItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecepcionID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CompraItemID uuid.UUID `gorm:"type:uuid;not null;index"`

	CantidadRecibida decimal.Decimal `gorm:"type:decimal(10,2);not null"` // bultos, >= 0
	UxB              int             `gorm:"not null;default:0"`          // unidades por bulto, >= 0

	PrecioVenta *decimal.Decimal `gorm:"type:decimal(10,2)"`
	MargenPct   *decimal.Decimal `gorm:"type:decimal(5,2)"` // saturado a ±999.99

	CompraItem *CompraItem `gorm:"foreignKey:CompraItemID"`
}

func (RecepcionItem) TableName() string { return "recepcion_items" }
