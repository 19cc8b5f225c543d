package service

import (
	"context"
	"errors"
	"fmt"

	"comprasverdu/internal/dto"
	"comprasverdu/internal/margen"
	"comprasverdu/internal/model"
	"comprasverdu/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecepcionService interface {
	// Recibir reemplaza los renglones recibidos de la compra. Idempotente por
	// reemplazo; crea la recepción si todavía no existe.
	Recibir(ctx context.Context, compraID uuid.UUID, req dto.RecibirRequest) (*dto.RecepcionResponse, error)
	GuardarPrecios(ctx context.Context, recepcionID uuid.UUID, req dto.GuardarPreciosRequest) (*dto.RecepcionResponse, error)
	ObtenerPorCompra(ctx context.Context, compraID uuid.UUID) (*dto.RecepcionResponse, error)
}

type recepcionService struct {
	repo       repository.RecepcionRepository
	compraRepo repository.CompraRepository
}

func NewRecepcionService(repo repository.RecepcionRepository, compraRepo repository.CompraRepository) RecepcionService {
	return &recepcionService{repo: repo, compraRepo: compraRepo}
}

func (s *recepcionService) Recibir(ctx context.Context, compraID uuid.UUID, req dto.RecibirRequest) (*dto.RecepcionResponse, error) {
	compra, err := s.compraRepo.FindByID(ctx, compraID)
	if err != nil {
		return nil, errors.New("compra no encontrada")
	}

	// Invariante: cada renglón recibido apunta a un renglón de ESTA compra.
	itemsCompra := make(map[uuid.UUID]bool, len(compra.Items))
	for _, it := range compra.Items {
		itemsCompra[it.ID] = true
	}

	nuevos := make([]model.RecepcionItem, 0, len(req.Items))
	for _, it := range req.Items {
		ciID, err := uuid.Parse(it.CompraItemID)
		if err != nil {
			return nil, fmt.Errorf("compra_item_id inválido: %w", err)
		}
		if !itemsCompra[ciID] {
			return nil, fmt.Errorf("el renglón %s no pertenece a la compra", it.CompraItemID)
		}
		if it.CantidadRecibida.IsNegative() {
			return nil, errors.New("cantidad_recibida no puede ser negativa")
		}
		if it.UxB < 0 {
			return nil, errors.New("uxb no puede ser negativo")
		}
		nuevos = append(nuevos, model.RecepcionItem{
			CompraItemID:     ciID,
			CantidadRecibida: it.CantidadRecibida,
			UxB:              it.UxB,
		})
	}
	if len(nuevos) == 0 {
		return nil, errors.New("la recepción no tiene renglones válidos")
	}

	var recepcionID uuid.UUID
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		existente, err := s.repo.FindByCompraID(ctx, compraID)
		switch {
		case err == nil:
			recepcionID = existente.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			numero, err := s.repo.NextNumero(ctx, tx)
			if err != nil {
				return err
			}
			rec := model.Recepcion{Numero: numero, CompraID: compraID}
			if err := s.repo.Create(ctx, tx, &rec); err != nil {
				return err
			}
			recepcionID = rec.ID
		default:
			return err
		}
		// Borra y recrea; también resetea el flag completa: los renglones
		// nuevos no tienen precio ni margen todavía.
		return s.repo.ReemplazarItemsTx(tx, recepcionID, nuevos)
	})
	if txErr != nil {
		return nil, txErr
	}

	rec, err := s.repo.FindByID(ctx, recepcionID)
	if err != nil {
		return nil, err
	}
	return recepcionToResponse(rec), nil
}

// GuardarPrecios fija el precio de venta por renglón, calcula el margen
// contra el costo unitario (precio bulto / uxb) y marca la recepción
// completa. Esta es la única transición Draft → PricesSet.
func (s *recepcionService) GuardarPrecios(ctx context.Context, recepcionID uuid.UUID, req dto.GuardarPreciosRequest) (*dto.RecepcionResponse, error) {
	rec, err := s.repo.FindByID(ctx, recepcionID)
	if err != nil {
		return nil, errors.New("recepción no encontrada")
	}

	porID := make(map[uuid.UUID]*model.RecepcionItem, len(rec.Items))
	for i := range rec.Items {
		porID[rec.Items[i].ID] = &rec.Items[i]
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, it := range req.Items {
			riID, err := uuid.Parse(it.RecepcionItemID)
			if err != nil {
				return fmt.Errorf("recepcion_item_id inválido: %w", err)
			}
			item, ok := porID[riID]
			if !ok {
				return fmt.Errorf("el renglón %s no pertenece a la recepción", it.RecepcionItemID)
			}

			precio := it.PrecioVenta
			item.PrecioVenta = &precio
			item.MargenPct = nil
			if item.CompraItem != nil && item.UxB > 0 {
				costo := margen.CostoUnitario(item.CompraItem.PrecioBulto, item.UxB)
				item.MargenPct = margen.Margen(precio, costo)
			}
			// Con uxb <= 0 el margen queda nil: "no computable" se muestra
			// como "—", nunca como 0%.
			if err := s.repo.ActualizarItemTx(tx, item); err != nil {
				return err
			}
		}
		return s.repo.MarcarCompletaTx(tx, recepcionID, true)
	})
	if txErr != nil {
		return nil, txErr
	}

	rec, err = s.repo.FindByID(ctx, recepcionID)
	if err != nil {
		return nil, err
	}
	return recepcionToResponse(rec), nil
}

func (s *recepcionService) ObtenerPorCompra(ctx context.Context, compraID uuid.UUID) (*dto.RecepcionResponse, error) {
	rec, err := s.repo.FindByCompraID(ctx, compraID)
	if err != nil {
		return nil, errors.New("la compra no tiene recepción")
	}
	return recepcionToResponse(rec), nil
}

// RecepcionCompleta decide la elegibilidad para el reporte final. El flag
// guardado cortocircuita a true (es el registro durable de un guardado de
// precios previo); el chequeo renglón por renglón es el fallback para
// recepciones nunca marcadas.
func RecepcionCompleta(rec *model.Recepcion) bool {
	if rec.Completa {
		return true
	}
	if len(rec.Items) == 0 {
		return false
	}
	for _, it := range rec.Items {
		if it.PrecioVenta == nil || it.MargenPct == nil || it.UxB <= 0 {
			return false
		}
	}
	return true
}

func recepcionToResponse(rec *model.Recepcion) *dto.RecepcionResponse {
	items := make([]dto.RecepcionItemResponse, 0, len(rec.Items))
	for _, it := range rec.Items {
		r := dto.RecepcionItemResponse{
			ID:               it.ID.String(),
			CompraItemID:     it.CompraItemID.String(),
			CantidadRecibida: it.CantidadRecibida,
			UxB:              it.UxB,
			PrecioVenta:      it.PrecioVenta,
			MargenPct:        it.MargenPct,
		}
		if it.CompraItem != nil {
			r.Codigo = it.CompraItem.Codigo
			r.Descripcion = it.CompraItem.Descripcion
			r.PrecioBulto = it.CompraItem.PrecioBulto
		}
		items = append(items, r)
	}
	return &dto.RecepcionResponse{
		ID:       rec.ID.String(),
		Numero:   rec.Numero,
		CompraID: rec.CompraID.String(),
		Completa: rec.Completa,
		Items:    items,
	}
}
