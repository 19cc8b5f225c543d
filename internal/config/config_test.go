package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func esquemaValido() Esquema {
	return Esquema{
		TablaArticulos: "ARTICULOS",
		TablaIVA:       "IVA",
		TablaStock:     "STOCK",
		TablaVentas:    "dbo.VENTAS",
		TablaProveedor: "PROVEEDORES",

		ColCodigo:      "CODIGO",
		ColDescripcion: "DESCRIPCION",
		ColDepto:       "COD_DPTO",
		ColProveedor:   "COD_PROVEEDOR",
		ColEncajonable: "ENCAJONABLE",
		ColCosto:       "PRECIO_COSTO",
		ColPrecioVenta: "PRECIO_VTA",
		ColMargen:      "MARGEN",
		ColCodigoIVA:   "COD_IVA",

		ColIVACodigo:     "COD_IVA",
		ColIVAPorcentaje: "PORCENTAJE",

		ColStockSucursal: "COD_SUCURSAL",
		ColStockCodigo:   "COD_ARTICULO",
		ColStockCantidad: "CANTIDAD",

		ColVentaFecha:    "FECHA",
		ColVentaSucursal: "COD_SUCURSAL",
		ColVentaCodigo:   "COD_ARTICULO",
		ColVentaCantidad: "CANTIDAD",
		ColVentaImporte:  "IMPORTE",
		ColVentaCosto:    "COSTO",

		ColProvClave:  "CLAVE",
		ColProvCodigo: "CODIGO",
		ColProvNombre: "NOMBRE",
	}
}

func TestEsquemaValidarAceptaIdentificadoresSimples(t *testing.T) {
	require.NoError(t, esquemaValido().Validar())
}

func TestEsquemaValidarRechazaInterpolacion(t *testing.T) {
	casos := []string{
		"ARTICULOS; DROP TABLE usuarios",
		"ARTICULOS--",
		"ART ICULOS",
		"[ARTICULOS]",
		"dbo.ventas.extra",
		"",
	}
	for _, malo := range casos {
		e := esquemaValido()
		e.TablaArticulos = malo
		err := e.Validar()
		require.Error(t, err, "valor %q", malo)
		assert.Contains(t, err.Error(), "ELB_TABLA_ARTICULOS")
	}
}

func TestSucursalesVenta(t *testing.T) {
	a := Abastecedor{Sucursales: " 1, 3,4 ,, 28 "}
	assert.Equal(t, []string{"1", "3", "4", "28"}, a.SucursalesVenta())

	assert.Empty(t, Abastecedor{Sucursales: ""}.SucursalesVenta())
}
