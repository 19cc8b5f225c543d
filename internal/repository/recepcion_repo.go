package repository

import (
	"context"

	"comprasverdu/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecepcionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rec *model.Recepcion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Recepcion, error)
	FindByCompraID(ctx context.Context, compraID uuid.UUID) (*model.Recepcion, error)
	// FindByCompraIDs trae las recepciones (con renglones y renglones de
	// compra) de un conjunto de compras — el insumo del reporte diario.
	FindByCompraIDs(ctx context.Context, compraIDs []uuid.UUID) ([]model.Recepcion, error)
	// ReemplazarItemsTx borra y recrea los renglones dentro de la tx, y deja
	// la recepción marcada incompleta: los renglones nuevos no tienen precios.
	ReemplazarItemsTx(tx *gorm.DB, recepcionID uuid.UUID, items []model.RecepcionItem) error
	ActualizarItemTx(tx *gorm.DB, item *model.RecepcionItem) error
	MarcarCompletaTx(tx *gorm.DB, recepcionID uuid.UUID, completa bool) error
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	DB() *gorm.DB
}

type recepcionRepo struct{ db *gorm.DB }

func NewRecepcionRepository(db *gorm.DB) RecepcionRepository { return &recepcionRepo{db: db} }

func (r *recepcionRepo) DB() *gorm.DB { return r.db }

func (r *recepcionRepo) Create(ctx context.Context, tx *gorm.DB, rec *model.Recepcion) error {
	return tx.WithContext(ctx).Create(rec).Error
}

func (r *recepcionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Recepcion, error) {
	var rec model.Recepcion
	err := r.db.WithContext(ctx).
		Preload("Items.CompraItem").
		First(&rec, id).Error
	return &rec, err
}

func (r *recepcionRepo) FindByCompraID(ctx context.Context, compraID uuid.UUID) (*model.Recepcion, error) {
	var rec model.Recepcion
	err := r.db.WithContext(ctx).
		Preload("Items.CompraItem").
		Where("compra_id = ?", compraID).
		First(&rec).Error
	return &rec, err
}

func (r *recepcionRepo) FindByCompraIDs(ctx context.Context, compraIDs []uuid.UUID) ([]model.Recepcion, error) {
	if len(compraIDs) == 0 {
		return []model.Recepcion{}, nil
	}
	var recs []model.Recepcion
	err := r.db.WithContext(ctx).
		Preload("Items.CompraItem").
		Where("compra_id IN ?", compraIDs).
		Find(&recs).Error
	return recs, err
}

func (r *recepcionRepo) ReemplazarItemsTx(tx *gorm.DB, recepcionID uuid.UUID, items []model.RecepcionItem) error {
	if err := tx.Where("recepcion_id = ?", recepcionID).Delete(&model.RecepcionItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].RecepcionID = recepcionID
	}
	if err := tx.Create(&items).Error; err != nil {
		return err
	}
	return tx.Model(&model.Recepcion{}).Where("id = ?", recepcionID).Update("completa", false).Error
}

func (r *recepcionRepo) ActualizarItemTx(tx *gorm.DB, item *model.RecepcionItem) error {
	return tx.Model(&model.RecepcionItem{}).Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"precio_venta": item.PrecioVenta,
			"margen_pct":   item.MargenPct,
		}).Error
}

func (r *recepcionRepo) MarcarCompletaTx(tx *gorm.DB, recepcionID uuid.UUID, completa bool) error {
	return tx.Model(&model.Recepcion{}).Where("id = ?", recepcionID).Update("completa", completa).Error
}

// NextNumero usa una secuencia de Postgres, igual que las compras.
func (r *recepcionRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('recepciones_numero_seq')").Scan(&num).Error
	return num, err
}
