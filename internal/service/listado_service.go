package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"comprasverdu/internal/codigo"
	"comprasverdu/internal/dto"
	"comprasverdu/internal/elabastecedor"
	"comprasverdu/internal/model"
	"comprasverdu/internal/repository"
)

// ListadoService arma el listado enriquecido de productos: base de artículos
// (externa por depto/proveedor, o espejo local por búsqueda), más stock,
// precios y ventas de ELABASTECEDOR fusionados por código normalizado.
type ListadoService interface {
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Proveedores(ctx context.Context) []dto.ProveedorResponse
	ArticulosDeProveedor(ctx context.Context, codigoProv string) []dto.ArticuloRefResponse
	ArticulosDeDepartamento(ctx context.Context, depto string) []dto.ArticuloRefResponse
}

// RefrescadorEspejo encola la actualización asíncrona del espejo local de
// artículos. El listado no espera por el refresh: encola y responde.
type RefrescadorEspejo interface {
	EncolarRefresco(ctx context.Context, articulos []model.Articulo)
}

type listadoService struct {
	articuloRepo repository.ArticuloRepository
	fuente       FuenteExterna
	refrescador  RefrescadorEspejo
}

func NewListadoService(articuloRepo repository.ArticuloRepository, fuente FuenteExterna, refrescador RefrescadorEspejo) ListadoService {
	return &listadoService{articuloRepo: articuloRepo, fuente: fuente, refrescador: refrescador}
}

func (s *listadoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	fecha := time.Now().UTC()
	if filter.Fecha != "" {
		f, err := time.ParseInLocation("2006-01-02", filter.Fecha, time.UTC)
		if err != nil {
			return nil, ErrFechaInvalida
		}
		fecha = f
	}

	base, err := s.baseArticulos(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(base) == 0 {
		return &dto.ProductoListResponse{Data: []dto.ProductoEnriquecido{}, Page: filter.Page, Limit: filter.Limit}, nil
	}

	codigos := make([]string, 0, len(base))
	for _, a := range base {
		codigos = append(codigos, a.Codigo)
	}
	stock := s.fuente.StockPorCodigos(ctx, codigos)
	precios := s.fuente.PreciosPorCodigos(ctx, codigos)
	ventas := s.fuente.VentasPorCodigos(ctx, codigos, fecha)

	filas := enriquecer(base, stock, precios, ventas)
	ordenarListado(filas, filter.Orden, filter.Dir)

	total := len(filas)
	pagina := paginar(filas, filter.Page, filter.Limit)

	if s.refrescador != nil {
		s.refrescador.EncolarRefresco(ctx, espejoDesdeFilas(filas))
	}

	return &dto.ProductoListResponse{Data: pagina, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// baseArticulos resuelve el conjunto de arranque: departamento y proveedor
// consultan el maestro externo; la búsqueda libre va contra el espejo local.
func (s *listadoService) baseArticulos(ctx context.Context, filter dto.ProductoFilter) ([]dto.ArticuloRefResponse, error) {
	switch {
	case filter.Proveedor != "":
		clave := s.claveDeProveedor(ctx, filter.Proveedor)
		refs := s.fuente.ArticulosPorProveedor(ctx, filter.Proveedor, clave)
		return refsAResponse(refs), nil
	case filter.Depto != "":
		refs := s.fuente.ArticulosPorDepartamento(ctx, filter.Depto)
		return refsAResponse(refs), nil
	default:
		// Búsqueda libre y el listado sin filtros van contra el espejo local:
		// ILIKE de texto vacío matchea todo.
		locales, err := s.articuloRepo.Buscar(ctx, strings.TrimSpace(filter.Busqueda))
		if err != nil {
			return nil, err
		}
		out := make([]dto.ArticuloRefResponse, 0, len(locales))
		for _, a := range locales {
			out = append(out, dto.ArticuloRefResponse{Codigo: a.Codigo, Descripcion: a.Descripcion})
		}
		return out, nil
	}
}

// claveDeProveedor busca la clave alfanumérica asociada al código del
// proveedor en el maestro externo. Si no aparece, se filtra solo por código.
func (s *listadoService) claveDeProveedor(ctx context.Context, codigoProv string) string {
	norm := codigo.NormalizarProveedor(codigoProv)
	for _, p := range s.fuente.Proveedores(ctx) {
		if codigo.NormalizarProveedor(p.Codigo) == norm {
			return p.Clave
		}
	}
	return ""
}

func (s *listadoService) Proveedores(ctx context.Context) []dto.ProveedorResponse {
	provs := s.fuente.Proveedores(ctx)
	out := make([]dto.ProveedorResponse, 0, len(provs))
	for _, p := range provs {
		out = append(out, dto.ProveedorResponse{Clave: p.Clave, Codigo: p.Codigo, Nombre: p.Nombre})
	}
	return out
}

func (s *listadoService) ArticulosDeProveedor(ctx context.Context, codigoProv string) []dto.ArticuloRefResponse {
	clave := s.claveDeProveedor(ctx, codigoProv)
	return refsAResponse(s.fuente.ArticulosPorProveedor(ctx, codigoProv, clave))
}

func (s *listadoService) ArticulosDeDepartamento(ctx context.Context, depto string) []dto.ArticuloRefResponse {
	return refsAResponse(s.fuente.ArticulosPorDepartamento(ctx, depto))
}

func refsAResponse(refs []elabastecedor.ArticuloRef) []dto.ArticuloRefResponse {
	out := make([]dto.ArticuloRefResponse, 0, len(refs))
	for _, r := range refs {
		out = append(out, dto.ArticuloRefResponse{Codigo: codigo.Normalizar(r.Codigo), Descripcion: r.Descripcion})
	}
	return out
}

// enriquecer fusiona los tres mapas externos sobre la base en una sola
// pasada. Un código ausente en un mapa queda en cero, nunca se descarta la
// fila: un artículo sin stock ni ventas sigue siendo comprable.
func enriquecer(base []dto.ArticuloRefResponse, stock map[string]elabastecedor.Stock, precios map[string]elabastecedor.Precios, ventas map[string]elabastecedor.Ventas) []dto.ProductoEnriquecido {
	filas := make([]dto.ProductoEnriquecido, 0, len(base))
	for _, a := range base {
		fila := dto.ProductoEnriquecido{Codigo: a.Codigo, Descripcion: a.Descripcion}
		if st, ok := stock[a.Codigo]; ok {
			fila.StockSucursales = st.Sucursales
			fila.StockCD = st.CentroDist
		}
		if p, ok := precios[a.Codigo]; ok {
			fila.Costo = p.Costo
			fila.PrecioVenta = p.PrecioVenta
			fila.MargenPct = p.MargenPct
		}
		if v, ok := ventas[a.Codigo]; ok {
			fila.VentasDia1 = v.Dia1
			fila.VentasDia2 = v.Dia2
			fila.VentasSemana = v.Semana
		}
		filas = append(filas, fila)
	}
	return filas
}

// ordenarListado ordena en memoria por el campo enriquecido pedido. El orden
// es estable: a igualdad de clave se conserva el orden de la fuente.
func ordenarListado(filas []dto.ProductoEnriquecido, orden, dir string) {
	if orden == "" {
		return
	}
	asc := strings.EqualFold(dir, "asc")
	menor := func(a, b *dto.ProductoEnriquecido) bool {
		switch orden {
		case "descripcion":
			return a.Descripcion < b.Descripcion
		case "codigo":
			return a.Codigo < b.Codigo
		case "stock_sucursales":
			return a.StockSucursales.LessThan(b.StockSucursales)
		case "stock_cd":
			return a.StockCD.LessThan(b.StockCD)
		case "ventas_dia_1":
			return a.VentasDia1 < b.VentasDia1
		case "ventas_dia_2":
			return a.VentasDia2 < b.VentasDia2
		case "ventas_semana":
			return a.VentasSemana < b.VentasSemana
		case "costo":
			return a.Costo.LessThan(b.Costo)
		case "precio_venta":
			return a.PrecioVenta.LessThan(b.PrecioVenta)
		case "margen_pct":
			return a.MargenPct.LessThan(b.MargenPct)
		default:
			return false
		}
	}
	sort.SliceStable(filas, func(i, j int) bool {
		if asc {
			return menor(&filas[i], &filas[j])
		}
		return menor(&filas[j], &filas[i])
	})
}

func paginar(filas []dto.ProductoEnriquecido, page, limit int) []dto.ProductoEnriquecido {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	desde := (page - 1) * limit
	if desde >= len(filas) {
		return []dto.ProductoEnriquecido{}
	}
	hasta := desde + limit
	if hasta > len(filas) {
		hasta = len(filas)
	}
	return filas[desde:hasta]
}

// espejoDesdeFilas convierte el listado ya enriquecido en filas del espejo
// local, listas para el upsert del worker.
func espejoDesdeFilas(filas []dto.ProductoEnriquecido) []model.Articulo {
	out := make([]model.Articulo, 0, len(filas))
	for _, f := range filas {
		out = append(out, model.Articulo{
			Codigo:          f.Codigo,
			Descripcion:     f.Descripcion,
			StockSucursales: f.StockSucursales,
			StockCD:         f.StockCD,
			VentasDia1:      f.VentasDia1,
			VentasDia2:      f.VentasDia2,
			VentasSemana:    f.VentasSemana,
			CostoRef:        f.Costo,
			PrecioVentaRef:  f.PrecioVenta,
			MargenRef:       f.MargenPct,
		})
	}
	return out
}
