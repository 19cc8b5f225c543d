package service

import (
	"context"
	"sort"
	"time"

	"comprasverdu/internal/apierror"
	"comprasverdu/internal/dto"
	"comprasverdu/internal/model"
	"comprasverdu/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InfoFinalService arma el reporte final del día: agrupa lo recibido por
// (código, uxb), calcula el costo promedio ponderado por artículo y lo cruza
// con la referencia externa para resaltar discrepancias.
type InfoFinalService interface {
	InfoFinalArticulos(ctx context.Context, fecha string) (*dto.InfoFinalResponse, error)
}

type infoFinalService struct {
	compraRepo    repository.CompraRepository
	recepcionRepo repository.RecepcionRepository
	fuente        FuenteExterna
}

func NewInfoFinalService(compraRepo repository.CompraRepository, recepcionRepo repository.RecepcionRepository, fuente FuenteExterna) InfoFinalService {
	return &infoFinalService{compraRepo: compraRepo, recepcionRepo: recepcionRepo, fuente: fuente}
}

// ErrFechaInvalida es un error de validación de entrada: se corta antes de
// cualquier agregación, con código accionable para el cliente.
var ErrFechaInvalida = apierror.WithCode(apierror.CodeFechaInvalida, "fecha inválida, formato esperado YYYY-MM-DD")

func (s *infoFinalService) InfoFinalArticulos(ctx context.Context, fecha string) (*dto.InfoFinalResponse, error) {
	dia, err := time.ParseInLocation("2006-01-02", fecha, time.UTC)
	if err != nil {
		return nil, ErrFechaInvalida
	}

	compras, err := s.compraRepo.FindByFecha(ctx, fecha)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(compras))
	for _, c := range compras {
		ids = append(ids, c.ID)
	}
	recepciones, err := s.recepcionRepo.FindByCompraIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	filas := armarInfoFinal(recepciones)

	// Referencia externa por código normalizado; ceros si la fuente falló.
	codigos := make([]string, 0, len(filas))
	for _, f := range filas {
		codigos = append(codigos, f.Codigo)
	}
	precios := s.fuente.PreciosPorCodigos(ctx, codigos)
	for i := range filas {
		if p, ok := precios[filas[i].Codigo]; ok {
			filas[i].CostoRef = p.Costo
			filas[i].PrecioVentaRef = p.PrecioVenta
			filas[i].MargenRef = p.MargenPct
		}
	}

	return &dto.InfoFinalResponse{Fecha: dia.Format("2006-01-02"), Filas: filas}, nil
}

// grupoClave agrupa renglones para display: el mismo artículo recibido con
// distinto tamaño de bulto queda en filas separadas.
type grupoClave struct {
	Codigo string
	UxB    int
}

type grupoAcum struct {
	Descripcion string
	Cantidad    decimal.Decimal
	PrecioVenta *decimal.Decimal
	MargenPct   *decimal.Decimal
}

// armarInfoFinal es el algoritmo de dos pasadas del reporte:
//
//  1. acumula por código (ignorando uxb) Σ(cant × precioBulto) y
//     Σ(cant × uxb), y junta los grupos (código, uxb) para display;
//  2. emite una fila por grupo con el costo ponderado del código compartido
//     entre todos sus grupos.
//
// Solo entran recepciones completas; un renglón con uxb <= 0 queda excluido
// por completo (no puede aportar costo por unidad ni fila de display).
func armarInfoFinal(recepciones []model.Recepcion) []dto.InfoFinalFila {
	numerador := make(map[string]decimal.Decimal)   // Σ cant × precioBulto
	denominador := make(map[string]decimal.Decimal) // Σ cant × uxb
	grupos := make(map[grupoClave]*grupoAcum)
	var orden []grupoClave

	for i := range recepciones {
		rec := &recepciones[i]
		if !RecepcionCompleta(rec) {
			continue
		}
		for j := range rec.Items {
			it := &rec.Items[j]
			if it.UxB <= 0 || it.CompraItem == nil {
				continue
			}
			cod := it.CompraItem.Codigo
			uxb := decimal.NewFromInt(int64(it.UxB))

			numerador[cod] = numerador[cod].Add(it.CantidadRecibida.Mul(it.CompraItem.PrecioBulto))
			denominador[cod] = denominador[cod].Add(it.CantidadRecibida.Mul(uxb))

			clave := grupoClave{Codigo: cod, UxB: it.UxB}
			g, ok := grupos[clave]
			if !ok {
				g = &grupoAcum{Descripcion: it.CompraItem.Descripcion}
				grupos[clave] = g
				orden = append(orden, clave)
			}
			g.Cantidad = g.Cantidad.Add(it.CantidadRecibida)
			if g.PrecioVenta == nil && it.PrecioVenta != nil {
				g.PrecioVenta = it.PrecioVenta
				g.MargenPct = it.MargenPct
			}
		}
	}

	// Segunda pasada: los acumuladores ya vieron todos los renglones del día
	// antes de leer el costo ponderado de cualquier código.
	ponderado := make(map[string]*decimal.Decimal, len(numerador))
	for cod, num := range numerador {
		den := denominador[cod]
		if den.IsZero() {
			ponderado[cod] = nil
			continue
		}
		c := num.Div(den).Round(2)
		ponderado[cod] = &c
	}

	sort.SliceStable(orden, func(a, b int) bool {
		if orden[a].Codigo != orden[b].Codigo {
			return orden[a].Codigo < orden[b].Codigo
		}
		return orden[a].UxB < orden[b].UxB
	})

	filas := make([]dto.InfoFinalFila, 0, len(orden))
	for _, clave := range orden {
		g := grupos[clave]
		filas = append(filas, dto.InfoFinalFila{
			Codigo:           clave.Codigo,
			Descripcion:      g.Descripcion,
			UxB:              clave.UxB,
			CantidadRecibida: g.Cantidad,
			CostoPonderado:   ponderado[clave.Codigo],
			PrecioVenta:      g.PrecioVenta,
			MargenPct:        g.MargenPct,
		})
	}
	return filas
}
