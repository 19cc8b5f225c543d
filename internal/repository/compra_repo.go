package repository

import (
	"context"

	"comprasverdu/internal/dto"
	"comprasverdu/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompraRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error)
	// FindByFecha trae las compras de un día calendario (fecha de negocio).
	FindByFecha(ctx context.Context, fecha string) ([]model.Compra, error)
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).Preload("Items").Preload("Proveedor").First(&c, id).Error
	return &c, err
}

func (r *compraRepo) List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error) {
	var compras []model.Compra
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if filter.Fecha != "" {
		q = q.Where("fecha = ?", filter.Fecha)
	}
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Preload("Proveedor").
		Order("numero DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&compras).Error
	return compras, total, err
}

func (r *compraRepo) FindByFecha(ctx context.Context, fecha string) ([]model.Compra, error) {
	var compras []model.Compra
	err := r.db.WithContext(ctx).Where("fecha = ?", fecha).Find(&compras).Error
	return compras, err
}

// NextNumero usa una secuencia de Postgres: la asignación es atómica y no
// existe ventana de carrera entre lectores concurrentes, a diferencia de un
// SELECT MAX(numero)+1 suelto.
func (r *compraRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('compras_numero_seq')").Scan(&num).Error
	return num, err
}
