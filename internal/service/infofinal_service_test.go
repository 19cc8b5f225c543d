package service

import (
	"context"
	"testing"
	"time"

	"comprasverdu/internal/elabastecedor"
	"comprasverdu/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// itemRecibido arma un renglón de recepción ya preloadeado con su renglón de
// compra, como lo devuelven los finders del repositorio.
func itemRecibido(cod, desc string, cant string, uxb int, precioBulto string, precioVenta *decimal.Decimal) model.RecepcionItem {
	ci := &model.CompraItem{
		ID:          uuid.New(),
		Codigo:      cod,
		Descripcion: desc,
		PrecioBulto: dec(precioBulto),
	}
	it := model.RecepcionItem{
		ID:               uuid.New(),
		CompraItemID:     ci.ID,
		CantidadRecibida: dec(cant),
		UxB:              uxb,
		CompraItem:       ci,
	}
	if precioVenta != nil {
		it.PrecioVenta = precioVenta
		m := dec("50")
		it.MargenPct = &m
	}
	return it
}

func TestArmarInfoFinalCostoPonderado(t *testing.T) {
	// 10 bultos a $150 con uxb 10 y 5 bultos a $180 con uxb 12:
	// costo = (10×150 + 5×180) / (10×10 + 5×12) = 2400/160 = 15.00
	recs := []model.Recepcion{{
		Completa: true,
		Items: []model.RecepcionItem{
			itemRecibido("3065", "Banana Ecuador", "10", 10, "150", decPtr("25")),
			itemRecibido("3065", "Banana Ecuador", "5", 12, "180", decPtr("26")),
		},
	}}

	filas := armarInfoFinal(recs)
	require.Len(t, filas, 2) // un grupo por (código, uxb)

	for _, f := range filas {
		require.NotNil(t, f.CostoPonderado)
		assert.True(t, f.CostoPonderado.Equal(dec("15")), "costo %s", f.CostoPonderado)
	}
	assert.Equal(t, 10, filas[0].UxB)
	assert.Equal(t, 12, filas[1].UxB)
	assert.True(t, filas[0].CantidadRecibida.Equal(dec("10")))
	assert.True(t, filas[1].CantidadRecibida.Equal(dec("5")))
}

func TestArmarInfoFinalAgrupaMismoUxB(t *testing.T) {
	// Dos renglones con mismo código y mismo uxb colapsan en una fila.
	recs := []model.Recepcion{{
		Completa: true,
		Items: []model.RecepcionItem{
			itemRecibido("5053", "Tomate perita", "4", 6, "1200", decPtr("400")),
			itemRecibido("5053", "Tomate perita", "6", 6, "1100", decPtr("400")),
		},
	}}

	filas := armarInfoFinal(recs)
	require.Len(t, filas, 1)
	assert.True(t, filas[0].CantidadRecibida.Equal(dec("10")))
	// (4×1200 + 6×1100) / (4×6 + 6×6) = 11400/60 = 190.00
	require.NotNil(t, filas[0].CostoPonderado)
	assert.True(t, filas[0].CostoPonderado.Equal(dec("190")))
}

func TestArmarInfoFinalRedondeaADos(t *testing.T) {
	// 3 bultos × $100 con uxb 7: 300/21 = 14.285... → 14.29
	recs := []model.Recepcion{{
		Completa: true,
		Items: []model.RecepcionItem{
			itemRecibido("111", "Limón", "3", 7, "100", decPtr("30")),
		},
	}}

	filas := armarInfoFinal(recs)
	require.Len(t, filas, 1)
	require.NotNil(t, filas[0].CostoPonderado)
	assert.True(t, filas[0].CostoPonderado.Equal(dec("14.29")), "costo %s", filas[0].CostoPonderado)
}

func TestArmarInfoFinalExcluyeIncompletas(t *testing.T) {
	completa := model.Recepcion{
		Completa: true,
		Items: []model.RecepcionItem{
			itemRecibido("111", "Limón", "2", 10, "100", decPtr("20")),
		},
	}
	incompleta := model.Recepcion{
		Items: []model.RecepcionItem{
			itemRecibido("111", "Limón", "100", 10, "999", nil),
		},
	}

	filas := armarInfoFinal([]model.Recepcion{completa, incompleta})
	require.Len(t, filas, 1)
	// Solo aporta la completa: 2×100 / 2×10 = 10.00
	require.NotNil(t, filas[0].CostoPonderado)
	assert.True(t, filas[0].CostoPonderado.Equal(dec("10")))
}

func TestArmarInfoFinalIgnoraUxBCero(t *testing.T) {
	recs := []model.Recepcion{{
		Completa: true,
		Items: []model.RecepcionItem{
			itemRecibido("222", "Palta Hass", "5", 0, "500", decPtr("50")),
		},
	}}
	// El único renglón tiene uxb 0: no hay fila ni costo.
	assert.Empty(t, armarInfoFinal(recs))
}

func TestArmarInfoFinalCantidadCeroSinCosto(t *testing.T) {
	// Cantidad recibida 0 en todos los renglones del código: denominador 0,
	// la fila sale pero con costo nil.
	recs := []model.Recepcion{{
		Completa: true,
		Items: []model.RecepcionItem{
			itemRecibido("333", "Frutilla", "0", 8, "2000", decPtr("300")),
		},
	}}

	filas := armarInfoFinal(recs)
	require.Len(t, filas, 1)
	assert.Nil(t, filas[0].CostoPonderado)
	assert.True(t, filas[0].CantidadRecibida.IsZero())
}

func TestArmarInfoFinalPrimerPrecioDelGrupo(t *testing.T) {
	sinPrecio := itemRecibido("444", "Mandarina", "3", 10, "100", nil)
	conPrecio := itemRecibido("444", "Mandarina", "2", 10, "100", decPtr("18"))
	recs := []model.Recepcion{{
		Completa: true,
		Items:    []model.RecepcionItem{sinPrecio, conPrecio},
	}}

	filas := armarInfoFinal(recs)
	require.Len(t, filas, 1)
	require.NotNil(t, filas[0].PrecioVenta)
	assert.True(t, filas[0].PrecioVenta.Equal(dec("18")))
}

func TestInfoFinalArticulosFechaInvalida(t *testing.T) {
	svc := NewInfoFinalService(newStubCompraRepo(), newStubRecepcionRepo(), &stubFuente{})
	_, err := svc.InfoFinalArticulos(context.Background(), "01/08/2026")
	assert.ErrorIs(t, err, ErrFechaInvalida)
}

func TestInfoFinalArticulosMergeaReferenciaExterna(t *testing.T) {
	compraRepo := newStubCompraRepo()
	recRepo := newStubRecepcionRepo()

	fecha := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	compra := &model.Compra{
		Fecha: fecha,
		Items: []model.CompraItem{
			{Codigo: "3065", Descripcion: "Banana Ecuador", Bultos: 10, PrecioBulto: dec("150")},
		},
	}
	require.NoError(t, compraRepo.Create(context.Background(), nil, compra))
	recRepo.conItems(compra.Items)

	pv := dec("25")
	mg := dec("66.67")
	rec := &model.Recepcion{
		CompraID: compra.ID,
		Completa: true,
		Items: []model.RecepcionItem{{
			ID:               uuid.New(),
			CompraItemID:     compra.Items[0].ID,
			CantidadRecibida: dec("10"),
			UxB:              10,
			PrecioVenta:      &pv,
			MargenPct:        &mg,
		}},
	}
	require.NoError(t, recRepo.Create(context.Background(), nil, rec))

	fuente := &stubFuente{
		precios: map[string]elabastecedor.Precios{
			"3065": {Costo: dec("14.50"), PrecioVenta: dec("24"), MargenPct: dec("65.52")},
		},
	}

	svc := NewInfoFinalService(compraRepo, recRepo, fuente)
	resp, err := svc.InfoFinalArticulos(context.Background(), "2026-08-31")
	require.NoError(t, err)
	require.Len(t, resp.Filas, 1)

	fila := resp.Filas[0]
	assert.Equal(t, "3065", fila.Codigo)
	require.NotNil(t, fila.CostoPonderado)
	assert.True(t, fila.CostoPonderado.Equal(dec("15"))) // 1500/100
	assert.True(t, fila.CostoRef.Equal(dec("14.50")))
	assert.True(t, fila.PrecioVentaRef.Equal(dec("24")))
	assert.True(t, fila.MargenRef.Equal(dec("65.52")))
}

func TestInfoFinalArticulosSinCompras(t *testing.T) {
	svc := NewInfoFinalService(newStubCompraRepo(), newStubRecepcionRepo(), &stubFuente{})
	resp, err := svc.InfoFinalArticulos(context.Background(), "2026-08-31")
	require.NoError(t, err)
	assert.Empty(t, resp.Filas)
	assert.Equal(t, "2026-08-31", resp.Fecha)
}
