package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compra es un pedido a un proveedor en una fecha. El número es secuencial
// (secuencia de Postgres, ver CompraRepository.NextNumero) y los totales son
// sumas derivadas de sus renglones. Inmutable una vez creada, salvo por la
// recepción asociada.
type Compra struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero      int       `gorm:"uniqueIndex;not null"`
	ProveedorID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Fecha es la fecha de negocio del pedido (solo fecha, UTC).
	Fecha        time.Time       `gorm:"type:date;not null;index"`
	TotalBultos  int             `gorm:"not null"`
	TotalImporte decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt    time.Time

	Proveedor *Proveedor   `gorm:"foreignKey:ProveedorID"`
	Items     []CompraItem `gorm:"foreignKey:CompraID"`
}

func (Compra) TableName() string { return "compras" }

// CompraItem es un renglón de compra: tantos bultos de un artículo a tal
// precio por bulto. PrecioKg solo existe cuando se cargó peso por bulto.
type CompraItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Codigo normalizado del artículo + descripción instantánea al comprar.
	Codigo      string `gorm:"not null;index"`
	Descripcion string `gorm:"not null"`

	Bultos      int              `gorm:"not null"` // > 0
	PrecioBulto decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	PesoBulto   *decimal.Decimal `gorm:"type:decimal(10,2)"`
	PrecioKg    *decimal.Decimal `gorm:"type:decimal(10,2)"`
	TotalLinea  decimal.Decimal  `gorm:"type:decimal(12,2);not null"`

	Recepciones []RecepcionItem `gorm:"foreignKey:CompraItemID"`
}

func (CompraItem) TableName() string { return "compra_items" }
