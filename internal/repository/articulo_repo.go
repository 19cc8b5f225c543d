package repository

import (
	"context"

	"comprasverdu/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticuloRepository maneja el espejo local de artículos. El upsert es por
// código normalizado: cada fetch de listado refresca la copia, nunca borra.
type ArticuloRepository interface {
	UpsertPorCodigo(ctx context.Context, articulos []model.Articulo) error
	FindByCodigo(ctx context.Context, codigo string) (*model.Articulo, error)
	FindByCodigos(ctx context.Context, codigos []string) ([]model.Articulo, error)
	Buscar(ctx context.Context, texto string) ([]model.Articulo, error)
}

type articuloRepo struct{ db *gorm.DB }

func NewArticuloRepository(db *gorm.DB) ArticuloRepository { return &articuloRepo{db: db} }

func (r *articuloRepo) UpsertPorCodigo(ctx context.Context, articulos []model.Articulo) error {
	if len(articulos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "codigo"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"descripcion", "stock_sucursales", "stock_cd",
			"ventas_dia1", "ventas_dia2", "ventas_semana",
			"costo_ref", "precio_venta_ref", "margen_ref", "updated_at",
		}),
	}).Create(&articulos).Error
}

func (r *articuloRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Articulo, error) {
	var a model.Articulo
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&a).Error
	return &a, err
}

func (r *articuloRepo) FindByCodigos(ctx context.Context, codigos []string) ([]model.Articulo, error) {
	var out []model.Articulo
	err := r.db.WithContext(ctx).Where("codigo IN ?", codigos).Find(&out).Error
	return out, err
}

func (r *articuloRepo) Buscar(ctx context.Context, texto string) ([]model.Articulo, error) {
	var out []model.Articulo
	err := r.db.WithContext(ctx).
		Where("descripcion ILIKE ? OR codigo = ?", "%"+texto+"%", texto).
		Order("descripcion ASC").
		Find(&out).Error
	return out, err
}
