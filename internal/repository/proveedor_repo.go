package repository

import (
	"context"

	"comprasverdu/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProveedorRepository maneja el espejo local del maestro de proveedores.
// Igual que los artículos, se upserta desde ELABASTECEDOR y nunca se borra.
type ProveedorRepository interface {
	UpsertPorClave(ctx context.Context, proveedores []model.Proveedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	FindByClave(ctx context.Context, clave string) (*model.Proveedor, error)
	List(ctx context.Context) ([]model.Proveedor, error)
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) UpsertPorClave(ctx context.Context, proveedores []model.Proveedor) error {
	if len(proveedores) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "clave"}},
		DoUpdates: clause.AssignmentColumns([]string{"codigo", "nombre", "updated_at"}),
	}).Create(&proveedores).Error
}

func (r *proveedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *proveedorRepo) FindByClave(ctx context.Context, clave string) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).Where("clave = ?", clave).First(&p).Error
	return &p, err
}

func (r *proveedorRepo) List(ctx context.Context) ([]model.Proveedor, error) {
	var out []model.Proveedor
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&out).Error
	return out, err
}
