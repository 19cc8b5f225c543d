package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"comprasverdu/internal/dto"
	"comprasverdu/internal/elabastecedor"
	"comprasverdu/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory CompraRepository stub ──────────────────────────────────────────

type stubCompraRepo struct {
	compras map[uuid.UUID]*model.Compra
	numero  int
}

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]*model.Compra)}
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

func (r *stubCompraRepo) Create(_ context.Context, _ *gorm.DB, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Items {
		if c.Items[i].ID == uuid.Nil {
			c.Items[i].ID = uuid.New()
		}
		c.Items[i].CompraID = c.ID
	}
	r.compras[c.ID] = c
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCompraRepo) List(_ context.Context, _ dto.CompraFilter) ([]model.Compra, int64, error) {
	out := make([]model.Compra, 0, len(r.compras))
	for _, c := range r.compras {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCompraRepo) FindByFecha(_ context.Context, fecha string) ([]model.Compra, error) {
	var out []model.Compra
	for _, c := range r.compras {
		if c.Fecha.Format("2006-01-02") == fecha {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCompraRepo) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.numero++
	return r.numero, nil
}

// ── In-memory RecepcionRepository stub ───────────────────────────────────────

type stubRecepcionRepo struct {
	recepciones map[uuid.UUID]*model.Recepcion
	numero      int
	// compraItems resuelve el preload Items.CompraItem de los finders.
	compraItems map[uuid.UUID]*model.CompraItem
}

func newStubRecepcionRepo() *stubRecepcionRepo {
	return &stubRecepcionRepo{
		recepciones: make(map[uuid.UUID]*model.Recepcion),
		compraItems: make(map[uuid.UUID]*model.CompraItem),
	}
}

func (r *stubRecepcionRepo) conItems(ci []model.CompraItem) {
	for i := range ci {
		r.compraItems[ci[i].ID] = &ci[i]
	}
}

func (r *stubRecepcionRepo) DB() *gorm.DB { return nil }

func (r *stubRecepcionRepo) Create(_ context.Context, _ *gorm.DB, rec *model.Recepcion) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	r.recepciones[rec.ID] = rec
	return nil
}

func (r *stubRecepcionRepo) preload(rec *model.Recepcion) *model.Recepcion {
	copia := *rec
	copia.Items = make([]model.RecepcionItem, len(rec.Items))
	copy(copia.Items, rec.Items)
	for i := range copia.Items {
		if ci, ok := r.compraItems[copia.Items[i].CompraItemID]; ok {
			copia.Items[i].CompraItem = ci
		}
	}
	return &copia
}

func (r *stubRecepcionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Recepcion, error) {
	rec, ok := r.recepciones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.preload(rec), nil
}

func (r *stubRecepcionRepo) FindByCompraID(_ context.Context, compraID uuid.UUID) (*model.Recepcion, error) {
	for _, rec := range r.recepciones {
		if rec.CompraID == compraID {
			return r.preload(rec), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRecepcionRepo) FindByCompraIDs(_ context.Context, compraIDs []uuid.UUID) ([]model.Recepcion, error) {
	quiero := make(map[uuid.UUID]bool, len(compraIDs))
	for _, id := range compraIDs {
		quiero[id] = true
	}
	var out []model.Recepcion
	for _, rec := range r.recepciones {
		if quiero[rec.CompraID] {
			out = append(out, *r.preload(rec))
		}
	}
	return out, nil
}

func (r *stubRecepcionRepo) ReemplazarItemsTx(_ *gorm.DB, recepcionID uuid.UUID, items []model.RecepcionItem) error {
	rec, ok := r.recepciones[recepcionID]
	if !ok {
		return errors.New("record not found")
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].RecepcionID = recepcionID
	}
	rec.Items = items
	rec.Completa = false
	return nil
}

func (r *stubRecepcionRepo) ActualizarItemTx(_ *gorm.DB, item *model.RecepcionItem) error {
	rec, ok := r.recepciones[item.RecepcionID]
	if !ok {
		return errors.New("record not found")
	}
	for i := range rec.Items {
		if rec.Items[i].ID == item.ID {
			rec.Items[i].PrecioVenta = item.PrecioVenta
			rec.Items[i].MargenPct = item.MargenPct
			return nil
		}
	}
	return errors.New("record not found")
}

func (r *stubRecepcionRepo) MarcarCompletaTx(_ *gorm.DB, recepcionID uuid.UUID, completa bool) error {
	rec, ok := r.recepciones[recepcionID]
	if !ok {
		return errors.New("record not found")
	}
	rec.Completa = completa
	return nil
}

func (r *stubRecepcionRepo) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.numero++
	return r.numero, nil
}

// ── In-memory ProveedorRepository stub ───────────────────────────────────────

type stubProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
}

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *stubProveedorRepo) UpsertPorClave(_ context.Context, provs []model.Proveedor) error {
	for i := range provs {
		p := provs[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.proveedores[p.ID] = &p
	}
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProveedorRepo) FindByClave(_ context.Context, clave string) (*model.Proveedor, error) {
	for _, p := range r.proveedores {
		if p.Clave == clave {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProveedorRepo) List(_ context.Context) ([]model.Proveedor, error) {
	out := make([]model.Proveedor, 0, len(r.proveedores))
	for _, p := range r.proveedores {
		out = append(out, *p)
	}
	return out, nil
}

// ── In-memory ArticuloRepository stub ────────────────────────────────────────

type stubArticuloRepo struct {
	articulos map[string]*model.Articulo // por código normalizado
	upserts   int
}

func newStubArticuloRepo() *stubArticuloRepo {
	return &stubArticuloRepo{articulos: make(map[string]*model.Articulo)}
}

func (r *stubArticuloRepo) UpsertPorCodigo(_ context.Context, articulos []model.Articulo) error {
	for i := range articulos {
		a := articulos[i]
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		r.articulos[a.Codigo] = &a
	}
	r.upserts++
	return nil
}

func (r *stubArticuloRepo) FindByCodigo(_ context.Context, codigo string) (*model.Articulo, error) {
	a, ok := r.articulos[codigo]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubArticuloRepo) FindByCodigos(_ context.Context, codigos []string) ([]model.Articulo, error) {
	var out []model.Articulo
	for _, c := range codigos {
		if a, ok := r.articulos[c]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubArticuloRepo) Buscar(_ context.Context, texto string) ([]model.Articulo, error) {
	var out []model.Articulo
	for _, a := range r.articulos {
		if a.Codigo == texto || strings.Contains(strings.ToLower(a.Descripcion), strings.ToLower(texto)) {
			out = append(out, *a)
		}
	}
	return out, nil
}

// ── FuenteExterna stub ───────────────────────────────────────────────────────

type stubFuente struct {
	proveedores []elabastecedor.Proveedor
	porProv     []elabastecedor.ArticuloRef
	porDepto    []elabastecedor.ArticuloRef
	stock       map[string]elabastecedor.Stock
	precios     map[string]elabastecedor.Precios
	iva         map[string]decimal.Decimal
	ventas      map[string]elabastecedor.Ventas
}

func (f *stubFuente) Proveedores(_ context.Context) []elabastecedor.Proveedor {
	return f.proveedores
}

func (f *stubFuente) ArticulosPorProveedor(_ context.Context, _, _ string) []elabastecedor.ArticuloRef {
	return f.porProv
}

func (f *stubFuente) ArticulosPorDepartamento(_ context.Context, _ string) []elabastecedor.ArticuloRef {
	return f.porDepto
}

func (f *stubFuente) StockPorCodigos(_ context.Context, _ []string) map[string]elabastecedor.Stock {
	if f.stock == nil {
		return map[string]elabastecedor.Stock{}
	}
	return f.stock
}

func (f *stubFuente) PreciosPorCodigos(_ context.Context, _ []string) map[string]elabastecedor.Precios {
	if f.precios == nil {
		return map[string]elabastecedor.Precios{}
	}
	return f.precios
}

func (f *stubFuente) IVAPorCodigos(_ context.Context, _ []string) map[string]decimal.Decimal {
	if f.iva == nil {
		return map[string]decimal.Decimal{}
	}
	return f.iva
}

func (f *stubFuente) VentasPorCodigos(_ context.Context, _ []string, _ time.Time) map[string]elabastecedor.Ventas {
	if f.ventas == nil {
		return map[string]elabastecedor.Ventas{}
	}
	return f.ventas
}

// ── RefrescadorEspejo stub ───────────────────────────────────────────────────

type stubRefrescador struct {
	encolados [][]model.Articulo
}

func (r *stubRefrescador) EncolarRefresco(_ context.Context, articulos []model.Articulo) {
	r.encolados = append(r.encolados, articulos)
}
