package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comprasverdu/internal/codigo"
	"comprasverdu/internal/dto"
	"comprasverdu/internal/margen"
	"comprasverdu/internal/model"
	"comprasverdu/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CompraService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearCompraRequest) (*dto.CompraResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	Listar(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error)
	Economia(req dto.EconomiaRequest) dto.EconomiaResponse
}

type compraService struct {
	repo          repository.CompraRepository
	proveedorRepo repository.ProveedorRepository
}

func NewCompraService(repo repository.CompraRepository, proveedorRepo repository.ProveedorRepository) CompraService {
	return &compraService{repo: repo, proveedorRepo: proveedorRepo}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Crear registra una compra con sus renglones. Los totales son sumas
// derivadas; el número sale de la secuencia dentro de la misma tx.
func (s *compraService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearCompraRequest) (*dto.CompraResponse, error) {
	provID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}
	prov, err := s.proveedorRepo.FindByID(ctx, provID)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	fecha, err := time.ParseInLocation("2006-01-02", req.Fecha, time.UTC)
	if err != nil {
		return nil, errors.New("fecha inválida, formato esperado YYYY-MM-DD")
	}

	totalBultos := 0
	totalImporte := decimal.Zero
	items := make([]model.CompraItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Bultos <= 0 {
			return nil, fmt.Errorf("el artículo %s tiene bultos <= 0", it.Codigo)
		}
		totalLinea := it.PrecioBulto.Mul(decimal.NewFromInt(int64(it.Bultos)))
		item := model.CompraItem{
			Codigo:      codigo.Normalizar(it.Codigo),
			Descripcion: it.Descripcion,
			Bultos:      it.Bultos,
			PrecioBulto: it.PrecioBulto,
			PesoBulto:   it.PesoBulto,
			TotalLinea:  totalLinea,
		}
		if it.PesoBulto != nil {
			item.PrecioKg = margen.PrecioPorKg(it.PrecioBulto, *it.PesoBulto)
		}
		totalBultos += it.Bultos
		totalImporte = totalImporte.Add(totalLinea)
		items = append(items, item)
	}

	var compra model.Compra
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}
		compra = model.Compra{
			Numero:       numero,
			ProveedorID:  provID,
			Fecha:        fecha,
			TotalBultos:  totalBultos,
			TotalImporte: totalImporte,
			UsuarioID:    usuarioID,
			Items:        items,
		}
		return s.repo.Create(ctx, tx, &compra)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := compraToResponse(&compra)
	resp.Proveedor = prov.Nombre
	return resp, nil
}

func (s *compraService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("compra no encontrada")
	}
	return compraToResponse(compra), nil
}

func (s *compraService) Listar(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	compras, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		data = append(data, *compraToResponse(&compras[i]))
	}
	return &dto.CompraListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Economia previsualiza la economía de un renglón sin persistir nada.
func (s *compraService) Economia(req dto.EconomiaRequest) dto.EconomiaResponse {
	resp := dto.EconomiaResponse{
		CostoUnitario: decimal.Zero,
	}
	if req.UxB > 0 {
		resp.CostoUnitario = margen.CostoUnitario(req.PrecioBulto, req.UxB).Round(2)
		if req.PrecioVenta != nil {
			resp.MargenPct = margen.Margen(*req.PrecioVenta, margen.CostoUnitario(req.PrecioBulto, req.UxB))
		}
	}
	if req.PesoBulto != nil {
		resp.PrecioKg = margen.PrecioPorKg(req.PrecioBulto, *req.PesoBulto)
	}
	return resp
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	items := make([]dto.CompraItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, dto.CompraItemResponse{
			ID:          it.ID.String(),
			Codigo:      it.Codigo,
			Descripcion: it.Descripcion,
			Bultos:      it.Bultos,
			PrecioBulto: it.PrecioBulto,
			PesoBulto:   it.PesoBulto,
			PrecioKg:    it.PrecioKg,
			TotalLinea:  it.TotalLinea,
		})
	}
	nombreProv := ""
	if c.Proveedor != nil {
		nombreProv = c.Proveedor.Nombre
	}
	return &dto.CompraResponse{
		ID:           c.ID.String(),
		Numero:       c.Numero,
		ProveedorID:  c.ProveedorID.String(),
		Proveedor:    nombreProv,
		Fecha:        c.Fecha.Format("2006-01-02"),
		TotalBultos:  c.TotalBultos,
		TotalImporte: c.TotalImporte,
		Items:        items,
	}
}
