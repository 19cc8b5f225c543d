package elabastecedor

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLotesNoPierdeNiDuplica(t *testing.T) {
	codigos := make([]string, 500)
	for i := range codigos {
		codigos[i] = decimal.NewFromInt(int64(i + 1)).String()
	}

	partes := lotes(codigos, 280)
	require.Len(t, partes, 2)
	assert.Len(t, partes[0], 280)
	assert.Len(t, partes[1], 220)

	vistos := make(map[string]int)
	for _, lote := range partes {
		for _, c := range lote {
			vistos[c]++
		}
	}
	require.Len(t, vistos, 500)
	for c, n := range vistos {
		assert.Equal(t, 1, n, "código %s apareció %d veces", c, n)
	}
}

func TestLotesListaChica(t *testing.T) {
	partes := lotes([]string{"1", "2"}, 280)
	require.Len(t, partes, 1)
	assert.Len(t, partes[0], 2)
	assert.Empty(t, lotes(nil, 280))
}

func TestAcumularStockSeparaGrupos(t *testing.T) {
	filas := []filaStock{
		{Codigo: "3065", Sucursal: "1", Cantidad: d("5")},
		{Codigo: "3065", Sucursal: "2", Cantidad: d("3")},
		{Codigo: "3065", Sucursal: "28", Cantidad: d("2")},
	}
	// Sucursal 2 es el centro de distribución; {1, 28} venden.
	out := acumularStock(filas, []string{"3065"}, []string{"1", "28"}, "2")

	s, ok := out["3065"]
	require.True(t, ok)
	assert.True(t, d("7").Equal(s.Sucursales), "sucursales: %s", s.Sucursales)
	assert.True(t, d("3").Equal(s.CentroDist), "cd: %s", s.CentroDist)
}

func TestAcumularStockCodigoSinFilasMapeaACero(t *testing.T) {
	out := acumularStock(nil, []string{"3065", "5.053"}, []string{"1"}, "2")
	require.Len(t, out, 2)
	assert.True(t, out["3065"].Sucursales.IsZero())
	// El pedido se normaliza: "5.053" queda bajo "5053".
	_, ok := out["5053"]
	assert.True(t, ok)
}

func TestAcumularStockJoinPorCodigoNormalizado(t *testing.T) {
	// La columna decimal de la fuente devuelve "3065.00"; el pedido vino "3065".
	filas := []filaStock{{Codigo: "3065.00", Sucursal: "1", Cantidad: d("4")}}
	out := acumularStock(filas, []string{"3065"}, []string{"1"}, "2")
	assert.True(t, d("4").Equal(out["3065"].Sucursales))
}

func TestVentanaVentas(t *testing.T) {
	fecha := time.Date(2026, 2, 12, 15, 30, 0, 0, time.UTC) // la hora se ignora
	dia1, dia2, desde, hasta := ventanaVentas(fecha)
	assert.Equal(t, time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC), dia1)
	assert.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), dia2)
	assert.Equal(t, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), desde)
	assert.Equal(t, dia1, hasta)
}

func TestAcumularVentasBucketiza(t *testing.T) {
	fecha := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)
	dia := func(d int) time.Time { return time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC) }

	filas := []filaVenta{
		{Codigo: "3065", Fecha: dia(11), Cantidad: d("4")}, // día −1 y semana
		{Codigo: "3065", Fecha: dia(10), Cantidad: d("6")}, // día −2 y semana
		{Codigo: "3065", Fecha: dia(5), Cantidad: d("2")},  // solo semana (borde inferior)
		{Codigo: "3065", Fecha: dia(12), Cantidad: d("9")}, // mismo día: ninguna ventana
		{Codigo: "3065", Fecha: dia(4), Cantidad: d("9")},  // fuera de la semana
	}
	out := acumularVentas(filas, []string{"3065"}, fecha)

	v := out["3065"]
	assert.Equal(t, 4, v.Dia1)
	assert.Equal(t, 6, v.Dia2)
	assert.Equal(t, 12, v.Semana)
}

func TestDecodeNumericosAmbiguos(t *testing.T) {
	assert.True(t, d("12.5").Equal(aDecimal([]byte("12,5"))))
	assert.True(t, d("12.5").Equal(aDecimal("12.5")))
	assert.True(t, d("7").Equal(aDecimal(int64(7))))
	assert.True(t, d("7").Equal(aDecimal(7.0)))
	assert.True(t, aDecimal(nil).IsZero())
	assert.True(t, aDecimal("basura").IsZero())
	assert.Equal(t, 13, aEntero("12.6"))
}

func TestDecodeFlagEncajonable(t *testing.T) {
	assert.True(t, esVerdad("S"))
	assert.True(t, esVerdad(int64(1)))
	assert.True(t, esVerdad(true))
	assert.False(t, esVerdad("N"))
	assert.False(t, esVerdad(nil))
	assert.False(t, esVerdad(int64(0)))
}

func TestDecodeFecha(t *testing.T) {
	f, ok := aFecha("2026-02-11 00:00:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC), f)

	f, ok = aFecha(time.Date(2026, 2, 11, 23, 59, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC), f)

	_, ok = aFecha(int64(3))
	assert.False(t, ok)
}
