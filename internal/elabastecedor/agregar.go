package elabastecedor

import (
	"time"

	"comprasverdu/internal/codigo"

	"github.com/shopspring/decimal"
)

// lotes parte la lista de códigos en tandas de tamaño fijo. La consulta
// remota tiene un techo duro en el ancho del parámetro IN; los resultados
// parciales se mergean sin pérdida ni doble conteo porque cada código aparece
// en exactamente un lote.
func lotes(codigos []string, tam int) [][]string {
	if tam <= 0 {
		tam = 280
	}
	var out [][]string
	for len(codigos) > tam {
		out = append(out, codigos[:tam])
		codigos = codigos[tam:]
	}
	if len(codigos) > 0 {
		out = append(out, codigos)
	}
	return out
}

// normalizarTodos devuelve los códigos normalizados, sin duplicados y
// preservando el orden de la primera aparición.
func normalizarTodos(codigos []string) []string {
	vistos := make(map[string]bool, len(codigos))
	out := make([]string, 0, len(codigos))
	for _, c := range codigos {
		n := codigo.Normalizar(c)
		if !vistos[n] {
			vistos[n] = true
			out = append(out, n)
		}
	}
	return out
}

type filaStock struct {
	Codigo   string
	Sucursal string
	Cantidad decimal.Decimal
}

// acumularStock suma cantidades por código normalizado, separando sucursales
// de venta del centro de distribución. Todo código pedido aparece en el mapa
// resultado, con ceros si la fuente no lo trajo.
func acumularStock(filas []filaStock, pedidos []string, sucursalesVenta []string, cd string) map[string]Stock {
	venta := make(map[string]bool, len(sucursalesVenta))
	for _, s := range sucursalesVenta {
		venta[s] = true
	}

	out := make(map[string]Stock, len(pedidos))
	for _, c := range pedidos {
		out[codigo.Normalizar(c)] = Stock{}
	}

	for _, f := range filas {
		key := codigo.Normalizar(f.Codigo)
		acc, ok := out[key]
		if !ok {
			// Fila de un código no pedido: la fuente a veces devuelve de más.
			continue
		}
		suc := codigo.NormalizarProveedor(f.Sucursal)
		switch {
		case suc == codigo.NormalizarProveedor(cd):
			acc.CentroDist = acc.CentroDist.Add(f.Cantidad)
		case venta[suc]:
			acc.Sucursales = acc.Sucursales.Add(f.Cantidad)
		}
		out[key] = acc
	}
	return out
}

type filaVenta struct {
	Codigo   string
	Fecha    time.Time
	Cantidad decimal.Decimal
}

// ventanaVentas devuelve los límites UTC de las ventanas de reporte para una
// fecha dada: día −1, día −2 y la semana [fecha−7, fecha−1]. Una venta del
// mismo día del reporte no cuenta en ninguna ventana.
func ventanaVentas(fecha time.Time) (dia1, dia2, desde, hasta time.Time) {
	f := time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, time.UTC)
	dia1 = f.AddDate(0, 0, -1)
	dia2 = f.AddDate(0, 0, -2)
	desde = f.AddDate(0, 0, -7)
	hasta = dia1
	return
}

// acumularVentas bucketiza filas de la tabla de hechos en las ventanas fijas.
// Los días −1 y −2 son por igualdad exacta de fecha calendario; la semana es
// el rango cerrado [fecha−7, fecha−1].
func acumularVentas(filas []filaVenta, pedidos []string, fecha time.Time) map[string]Ventas {
	dia1, dia2, desde, hasta := ventanaVentas(fecha)

	out := make(map[string]Ventas, len(pedidos))
	for _, c := range pedidos {
		out[codigo.Normalizar(c)] = Ventas{}
	}

	for _, f := range filas {
		key := codigo.Normalizar(f.Codigo)
		acc, ok := out[key]
		if !ok {
			continue
		}
		cant := int(f.Cantidad.Round(0).IntPart())
		if f.Fecha.Equal(dia1) {
			acc.Dia1 += cant
		}
		if f.Fecha.Equal(dia2) {
			acc.Dia2 += cant
		}
		if !f.Fecha.Before(desde) && !f.Fecha.After(hasta) {
			acc.Semana += cant
		}
		out[key] = acc
	}
	return out
}
