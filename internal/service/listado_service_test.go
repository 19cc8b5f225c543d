package service

import (
	"context"
	"testing"

	"comprasverdu/internal/dto"
	"comprasverdu/internal/elabastecedor"
	"comprasverdu/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListarEnriqueceConCeros(t *testing.T) {
	// La fuente devuelve artículos pero ningún mapa de stock/precios/ventas
	// (p.ej. el legado caído a mitad del request): las filas salen igual,
	// todas en cero.
	fuente := &stubFuente{
		porDepto: []elabastecedor.ArticuloRef{
			{Codigo: "3065", Descripcion: "Banana Ecuador"},
			{Codigo: "5053", Descripcion: "Tomate perita"},
		},
	}
	svc := NewListadoService(newStubArticuloRepo(), fuente, nil)

	resp, err := svc.Listar(context.Background(), dto.ProductoFilter{Depto: "VERDU", Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, 2, resp.Total)

	for _, f := range resp.Data {
		assert.True(t, f.StockSucursales.IsZero())
		assert.True(t, f.StockCD.IsZero())
		assert.Zero(t, f.VentasDia1)
		assert.Zero(t, f.VentasSemana)
		assert.True(t, f.Costo.IsZero())
	}
}

func TestListarFusionaPorCodigoNormalizado(t *testing.T) {
	// El maestro trae "3065.00"; los mapas externos ya vienen con clave
	// normalizada "3065". La fila tiene que enganchar igual.
	fuente := &stubFuente{
		porDepto: []elabastecedor.ArticuloRef{{Codigo: "3065.00", Descripcion: "Banana Ecuador"}},
		stock: map[string]elabastecedor.Stock{
			"3065": {Sucursales: dec("7"), CentroDist: dec("3")},
		},
		ventas: map[string]elabastecedor.Ventas{
			"3065": {Dia1: 12, Dia2: 9, Semana: 80},
		},
		precios: map[string]elabastecedor.Precios{
			"3065": {Costo: dec("14.50"), PrecioVenta: dec("24"), MargenPct: dec("65.52")},
		},
	}
	svc := NewListadoService(newStubArticuloRepo(), fuente, nil)

	resp, err := svc.Listar(context.Background(), dto.ProductoFilter{Depto: "VERDU", Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)

	f := resp.Data[0]
	assert.Equal(t, "3065", f.Codigo)
	assert.True(t, f.StockSucursales.Equal(dec("7")))
	assert.True(t, f.StockCD.Equal(dec("3")))
	assert.Equal(t, 12, f.VentasDia1)
	assert.Equal(t, 80, f.VentasSemana)
	assert.True(t, f.PrecioVenta.Equal(dec("24")))
}

func TestListarOrdenaPorCampoEnriquecido(t *testing.T) {
	fuente := &stubFuente{
		porDepto: []elabastecedor.ArticuloRef{
			{Codigo: "1", Descripcion: "A"},
			{Codigo: "2", Descripcion: "B"},
			{Codigo: "3", Descripcion: "C"},
		},
		ventas: map[string]elabastecedor.Ventas{
			"1": {Semana: 5},
			"2": {Semana: 50},
			"3": {Semana: 20},
		},
	}
	svc := NewListadoService(newStubArticuloRepo(), fuente, nil)

	resp, err := svc.Listar(context.Background(), dto.ProductoFilter{
		Depto: "VERDU", Orden: "ventas_semana", Dir: "desc", Page: 1, Limit: 50,
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "2", resp.Data[0].Codigo)
	assert.Equal(t, "3", resp.Data[1].Codigo)
	assert.Equal(t, "1", resp.Data[2].Codigo)
}

func TestListarPagina(t *testing.T) {
	refs := make([]elabastecedor.ArticuloRef, 0, 7)
	for _, c := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		refs = append(refs, elabastecedor.ArticuloRef{Codigo: c, Descripcion: "X" + c})
	}
	svc := NewListadoService(newStubArticuloRepo(), &stubFuente{porDepto: refs}, nil)

	resp, err := svc.Listar(context.Background(), dto.ProductoFilter{Depto: "VERDU", Page: 3, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Total) // total es pre-paginado
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "7", resp.Data[0].Codigo)

	resp3, err := svc.Listar(context.Background(), dto.ProductoFilter{Depto: "VERDU", Page: 9, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, resp3.Data)
}

func TestListarPorProveedorResuelveClave(t *testing.T) {
	fuente := &stubFuente{
		proveedores: []elabastecedor.Proveedor{
			{Clave: "PROV01", Codigo: "007", Nombre: "Frutas del Sur"},
		},
		porProv: []elabastecedor.ArticuloRef{{Codigo: "111", Descripcion: "Limón"}},
	}
	svc := NewListadoService(newStubArticuloRepo(), fuente, nil)

	// "7" matchea "007" porque los códigos de proveedor se comparan sin
	// ceros a la izquierda.
	arts := svc.ArticulosDeProveedor(context.Background(), "7")
	require.Len(t, arts, 1)
	assert.Equal(t, "111", arts[0].Codigo)
}

func TestListarBusquedaUsaEspejoLocal(t *testing.T) {
	repo := newStubArticuloRepo()
	require.NoError(t, repo.UpsertPorCodigo(context.Background(), []model.Articulo{
		{Codigo: "3065", Descripcion: "Banana Ecuador"},
		{Codigo: "5053", Descripcion: "Tomate perita"},
	}))
	svc := NewListadoService(repo, &stubFuente{}, nil)

	resp, err := svc.Listar(context.Background(), dto.ProductoFilter{Busqueda: "banana", Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "3065", resp.Data[0].Codigo)
}

func TestListarEncolaRefrescoDelEspejo(t *testing.T) {
	fuente := &stubFuente{
		porDepto: []elabastecedor.ArticuloRef{{Codigo: "3065", Descripcion: "Banana Ecuador"}},
		precios: map[string]elabastecedor.Precios{
			"3065": {Costo: dec("14.50"), PrecioVenta: dec("24"), MargenPct: dec("65.52")},
		},
	}
	ref := &stubRefrescador{}
	svc := NewListadoService(newStubArticuloRepo(), fuente, ref)

	_, err := svc.Listar(context.Background(), dto.ProductoFilter{Depto: "VERDU", Page: 1, Limit: 50})
	require.NoError(t, err)

	require.Len(t, ref.encolados, 1)
	require.Len(t, ref.encolados[0], 1)
	assert.Equal(t, "3065", ref.encolados[0][0].Codigo)
	assert.True(t, ref.encolados[0][0].CostoRef.Equal(dec("14.50")))
}

func TestListarFechaInvalida(t *testing.T) {
	svc := NewListadoService(newStubArticuloRepo(), &stubFuente{}, nil)
	_, err := svc.Listar(context.Background(), dto.ProductoFilter{Fecha: "31-08-2026"})
	assert.ErrorIs(t, err, ErrFechaInvalida)
}

func TestProveedores(t *testing.T) {
	fuente := &stubFuente{
		proveedores: []elabastecedor.Proveedor{
			{Clave: "PROV01", Codigo: "7", Nombre: "Frutas del Sur"},
		},
	}
	svc := NewListadoService(newStubArticuloRepo(), fuente, nil)

	provs := svc.Proveedores(context.Background())
	require.Len(t, provs, 1)
	assert.Equal(t, "Frutas del Sur", provs[0].Nombre)
}
