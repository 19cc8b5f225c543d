package elabastecedor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"comprasverdu/internal/codigo"
	"comprasverdu/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Gateway posee el handle de conexión contra ELABASTECEDOR. Se construye una
// vez en el arranque y se inyecta donde haga falta; la conexión real se abre
// perezosamente en la primera consulta y se puede cerrar explícitamente
// (scripts de diagnóstico, shutdown). No hay estado global de paquete.
type Gateway struct {
	cfg config.Abastecedor

	mu sync.Mutex
	db *sqlx.DB
}

func New(cfg config.Abastecedor) *Gateway {
	return &Gateway{cfg: cfg}
}

// conn abre la conexión la primera vez que se necesita. Requests concurrentes
// comparten el pool de database/sql sin locking extra: cada consulta va
// parametrizada y aislada.
func (g *Gateway) conn() (*sqlx.DB, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.db != nil {
		return g.db, nil
	}
	db, err := sqlx.Open("sqlserver", g.cfg.DSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	g.db = db
	return g.db, nil
}

// Close libera el pool. La próxima consulta reabre.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.db == nil {
		return nil
	}
	err := g.db.Close()
	g.db = nil
	return err
}

// Ping verifica conectividad (endpoint de health).
func (g *Gateway) Ping(ctx context.Context) error {
	db, err := g.conn()
	if err != nil {
		return err
	}
	ctx, cancel := g.plazo(ctx)
	defer cancel()
	return db.PingContext(ctx)
}

func (g *Gateway) plazo(ctx context.Context) (context.Context, context.CancelFunc) {
	seg := g.cfg.TimeoutSeg
	if seg <= 0 {
		seg = 15
	}
	return context.WithTimeout(ctx, time.Duration(seg)*time.Second)
}

// consultar corre una consulta y devuelve las filas como slices posicionales
// crudas. El decode a tipos estrictos pasa en los callers, columna por
// columna, en el borde.
func (g *Gateway) consultar(ctx context.Context, query string, args ...any) ([][]any, error) {
	db, err := g.conn()
	if err != nil {
		return nil, err
	}
	ctx, cancel := g.plazo(ctx)
	defer cancel()

	// sqlx.In expande slices; Rebind traduce los "?" al bindvar del driver.
	if len(args) > 0 {
		query, args, err = sqlx.In(query, args...)
		if err != nil {
			return nil, err
		}
		query = db.Rebind(query)
	}

	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		fila, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		out = append(out, fila)
	}
	return out, rows.Err()
}

// fallo registra la degradación. Las operaciones del gateway nunca devuelven
// error al caller: ante cualquier falla loguean y entregan resultado vacío.
func fallo(op string, err error) {
	log.Warn().Str("op", op).Err(err).Msg("elabastecedor: consulta degradada a resultado vacío")
}

// ── Operaciones ──────────────────────────────────────────────────────────────

// Proveedores lista el maestro de proveedores externo, filtrado a nombres no
// vacíos.
func (g *Gateway) Proveedores(ctx context.Context) []Proveedor {
	e := g.cfg.Esquema
	q := fmt.Sprintf("SELECT %s, %s, %s FROM %s",
		e.ColProvClave, e.ColProvCodigo, e.ColProvNombre, e.TablaProveedor)

	filas, err := g.consultar(ctx, q)
	if err != nil {
		fallo("proveedores", err)
		return []Proveedor{}
	}

	out := make([]Proveedor, 0, len(filas))
	for _, f := range filas {
		if len(f) < 3 {
			continue
		}
		p := Proveedor{Clave: aTexto(f[0]), Codigo: aTexto(f[1]), Nombre: aTexto(f[2])}
		if p.Nombre == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ArticulosPorProveedor lista los artículos encajonables cuyo campo proveedor
// matchea el código externo O la clave interna del proveedor. La comparación
// es por código normalizado (NormalizarProveedor subsume la igualdad numérica:
// quita ceros a la izquierda y separadores).
func (g *Gateway) ArticulosPorProveedor(ctx context.Context, codigoProv, claveProv string) []ArticuloRef {
	e := g.cfg.Esquema
	q := fmt.Sprintf("SELECT %s, %s, %s, %s FROM %s WHERE %s IS NOT NULL",
		e.ColCodigo, e.ColDescripcion, e.ColProveedor, e.ColEncajonable,
		e.TablaArticulos, e.ColDescripcion)

	filas, err := g.consultar(ctx, q)
	if err != nil {
		fallo("articulos_por_proveedor", err)
		return []ArticuloRef{}
	}

	quiero1 := codigo.NormalizarProveedor(codigoProv)
	quiero2 := codigo.NormalizarProveedor(claveProv)

	out := make([]ArticuloRef, 0, 64)
	for _, f := range filas {
		if len(f) < 4 || !esVerdad(f[3]) {
			continue
		}
		prov := codigo.NormalizarProveedor(aTexto(f[2]))
		if prov != quiero1 && prov != quiero2 {
			continue
		}
		a := ArticuloRef{Codigo: codigo.Normalizar(aTexto(f[0])), Descripcion: aTexto(f[1])}
		if a.Descripcion == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ArticulosPorDepartamento lista artículos encajonables de un departamento.
func (g *Gateway) ArticulosPorDepartamento(ctx context.Context, depto string) []ArticuloRef {
	e := g.cfg.Esquema
	q := fmt.Sprintf("SELECT %s, %s, %s FROM %s WHERE %s = ? AND %s IS NOT NULL",
		e.ColCodigo, e.ColDescripcion, e.ColEncajonable,
		e.TablaArticulos, e.ColDepto, e.ColDescripcion)

	filas, err := g.consultar(ctx, q, depto)
	if err != nil {
		fallo("articulos_por_departamento", err)
		return []ArticuloRef{}
	}

	out := make([]ArticuloRef, 0, len(filas))
	for _, f := range filas {
		if len(f) < 3 || !esVerdad(f[2]) {
			continue
		}
		a := ArticuloRef{Codigo: codigo.Normalizar(aTexto(f[0])), Descripcion: aTexto(f[1])}
		if a.Descripcion == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

// StockPorCodigos suma el stock por código normalizado, separado en
// sucursales de venta vs. centro de distribución. Códigos sin filas mapean a
// ceros, no a ausente.
func (g *Gateway) StockPorCodigos(ctx context.Context, codigos []string) map[string]Stock {
	pedidos := normalizarTodos(codigos)
	if len(pedidos) == 0 {
		return map[string]Stock{}
	}

	e := g.cfg.Esquema
	q := fmt.Sprintf("SELECT %s, %s, %s FROM %s WHERE %s IN (?)",
		e.ColStockCodigo, e.ColStockSucursal, e.ColStockCantidad,
		e.TablaStock, e.ColStockCodigo)

	var todas []filaStock
	for _, lote := range lotes(pedidos, g.cfg.LoteCodigos) {
		filas, err := g.consultar(ctx, q, lote)
		if err != nil {
			fallo("stock_por_codigos", err)
			return map[string]Stock{}
		}
		for _, f := range filas {
			if len(f) < 3 {
				continue
			}
			todas = append(todas, filaStock{
				Codigo:   aTexto(f[0]),
				Sucursal: aTexto(f[1]),
				Cantidad: aDecimal(f[2]),
			})
		}
	}
	return acumularStock(todas, pedidos, g.cfg.SucursalesVenta(), g.cfg.CentroDistrib)
}

// PreciosPorCodigos devuelve costo (con IVA), precio de venta y margen de
// referencia por código. El costo base se cruza con la tabla de alícuotas:
// costo final = base × (1 + iva/100), redondeado a 2. Códigos sin fila
// mapean a ceros.
func (g *Gateway) PreciosPorCodigos(ctx context.Context, codigos []string) map[string]Precios {
	pedidos := normalizarTodos(codigos)
	if len(pedidos) == 0 {
		return map[string]Precios{}
	}

	ivas := g.tablaIVA(ctx)

	e := g.cfg.Esquema
	q := fmt.Sprintf("SELECT %s, %s, %s, %s, %s FROM %s WHERE %s IN (?)",
		e.ColCodigo, e.ColCosto, e.ColPrecioVenta, e.ColMargen, e.ColCodigoIVA,
		e.TablaArticulos, e.ColCodigo)

	out := make(map[string]Precios, len(pedidos))
	for _, c := range pedidos {
		out[c] = Precios{}
	}

	for _, lote := range lotes(pedidos, g.cfg.LoteCodigos) {
		filas, err := g.consultar(ctx, q, lote)
		if err != nil {
			fallo("precios_por_codigos", err)
			return map[string]Precios{}
		}
		for _, f := range filas {
			if len(f) < 5 {
				continue
			}
			key := codigo.Normalizar(aTexto(f[0]))
			if _, ok := out[key]; !ok {
				continue
			}
			base := aDecimal(f[1])
			iva := ivas[codigo.NormalizarProveedor(aTexto(f[4]))]
			costo := base.Mul(unoMas(iva)).Round(2)
			out[key] = Precios{
				Costo:       costo,
				PrecioVenta: aDecimal(f[2]),
				MargenPct:   aDecimal(f[3]),
			}
		}
	}
	return out
}

// IVAPorCodigos devuelve la alícuota de IVA por código de artículo
// (operación de diagnóstico, passthrough).
func (g *Gateway) IVAPorCodigos(ctx context.Context, codigos []string) map[string]decimal.Decimal {
	pedidos := normalizarTodos(codigos)
	if len(pedidos) == 0 {
		return map[string]decimal.Decimal{}
	}

	ivas := g.tablaIVA(ctx)

	e := g.cfg.Esquema
	q := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s IN (?)",
		e.ColCodigo, e.ColCodigoIVA, e.TablaArticulos, e.ColCodigo)

	out := make(map[string]decimal.Decimal, len(pedidos))
	for _, lote := range lotes(pedidos, g.cfg.LoteCodigos) {
		filas, err := g.consultar(ctx, q, lote)
		if err != nil {
			fallo("iva_por_codigos", err)
			return map[string]decimal.Decimal{}
		}
		for _, f := range filas {
			if len(f) < 2 {
				continue
			}
			key := codigo.Normalizar(aTexto(f[0]))
			out[key] = ivas[codigo.NormalizarProveedor(aTexto(f[1]))]
		}
	}
	return out
}

// VentasPorCodigos suma las cantidades vendidas en las ventanas fijas de
// reporte (día −1, día −2, semana) para la fecha dada, solo sucursales de
// venta. Fecha cero → mapa vacío.
func (g *Gateway) VentasPorCodigos(ctx context.Context, codigos []string, fecha time.Time) map[string]Ventas {
	if fecha.IsZero() {
		return map[string]Ventas{}
	}
	pedidos := normalizarTodos(codigos)
	if len(pedidos) == 0 {
		return map[string]Ventas{}
	}

	_, _, desde, hasta := ventanaVentas(fecha)

	e := g.cfg.Esquema
	q := fmt.Sprintf(
		"SELECT %s, %s, SUM(%s) FROM %s WHERE %s IN (?) AND %s >= ? AND %s <= ? AND %s IN (?) GROUP BY %s, %s",
		e.ColVentaCodigo, e.ColVentaFecha, e.ColVentaCantidad,
		e.TablaVentas,
		e.ColVentaCodigo, e.ColVentaFecha, e.ColVentaFecha, e.ColVentaSucursal,
		e.ColVentaCodigo, e.ColVentaFecha)

	var todas []filaVenta
	for _, lote := range lotes(pedidos, g.cfg.LoteCodigos) {
		filas, err := g.consultar(ctx, q, lote, desde, hasta, g.cfg.SucursalesVenta())
		if err != nil {
			fallo("ventas_por_codigos", err)
			return map[string]Ventas{}
		}
		for _, f := range filas {
			if len(f) < 3 {
				continue
			}
			dia, ok := aFecha(f[1])
			if !ok {
				continue
			}
			todas = append(todas, filaVenta{
				Codigo:   aTexto(f[0]),
				Fecha:    dia,
				Cantidad: aDecimal(f[2]),
			})
		}
	}
	return acumularVentas(todas, pedidos, fecha)
}

// tablaIVA lee la tabla de alícuotas completa (código → porcentaje). Es
// chica y se consulta entera en cada operación que la cruza.
func (g *Gateway) tablaIVA(ctx context.Context) map[string]decimal.Decimal {
	e := g.cfg.Esquema
	q := fmt.Sprintf("SELECT %s, %s FROM %s", e.ColIVACodigo, e.ColIVAPorcentaje, e.TablaIVA)

	filas, err := g.consultar(ctx, q)
	if err != nil {
		fallo("tabla_iva", err)
		return map[string]decimal.Decimal{}
	}
	out := make(map[string]decimal.Decimal, len(filas))
	for _, f := range filas {
		if len(f) < 2 {
			continue
		}
		out[codigo.NormalizarProveedor(aTexto(f[0]))] = aDecimal(f[1])
	}
	return out
}

func unoMas(porcentaje decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(porcentaje.Div(decimal.NewFromInt(100)))
}
