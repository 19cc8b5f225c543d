package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor es el espejo local de un proveedor de ELABASTECEDOR.
// Clave es la clave interna del sistema externo; Codigo el código comercial
// con el que se lo referencia en la columna proveedor de los artículos.
type Proveedor struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Clave  string    `gorm:"uniqueIndex;not null"`
	Codigo string    `gorm:"index;not null"`
	Nombre string    `gorm:"not null"`
	Activo bool      `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Compras []Compra `gorm:"foreignKey:ProveedorID"`
}

func (Proveedor) TableName() string { return "proveedores" }
