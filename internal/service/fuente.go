package service

import (
	"context"
	"time"

	"comprasverdu/internal/elabastecedor"

	"github.com/shopspring/decimal"
)

// FuenteExterna es el contrato del gateway ELABASTECEDOR visto desde los
// servicios. Las operaciones degradan a vacío ante fallas; nunca devuelven
// error. *elabastecedor.Gateway lo implementa.
type FuenteExterna interface {
	Proveedores(ctx context.Context) []elabastecedor.Proveedor
	ArticulosPorProveedor(ctx context.Context, codigoProv, claveProv string) []elabastecedor.ArticuloRef
	ArticulosPorDepartamento(ctx context.Context, depto string) []elabastecedor.ArticuloRef
	StockPorCodigos(ctx context.Context, codigos []string) map[string]elabastecedor.Stock
	PreciosPorCodigos(ctx context.Context, codigos []string) map[string]elabastecedor.Precios
	IVAPorCodigos(ctx context.Context, codigos []string) map[string]decimal.Decimal
	VentasPorCodigos(ctx context.Context, codigos []string, fecha time.Time) map[string]elabastecedor.Ventas
}
