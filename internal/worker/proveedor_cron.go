package worker

// proveedor_cron.go
// Background goroutine that periodically syncs the local supplier mirror
// from the external master. The mirror anchors purchases by UUID even when
// the legacy DB is unreachable.

import (
	"context"
	"time"

	"comprasverdu/internal/codigo"
	"comprasverdu/internal/elabastecedor"
	"comprasverdu/internal/model"
	"comprasverdu/internal/repository"

	"github.com/rs/zerolog/log"
)

const proveedorTickInterval = 15 * time.Minute

type fuenteProveedores interface {
	Proveedores(ctx context.Context) []elabastecedor.Proveedor
}

// StartProveedorCron launches a goroutine that syncs suppliers on start and
// then every 15 minutes. It respects the context for graceful shutdown.
func StartProveedorCron(ctx context.Context, fuente fuenteProveedores, repo repository.ProveedorRepository) {
	go func() {
		log.Info().Msg("proveedor_cron: started")
		sincronizarProveedores(ctx, fuente, repo)

		ticker := time.NewTicker(proveedorTickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("proveedor_cron: shutting down")
				return
			case <-ticker.C:
				sincronizarProveedores(ctx, fuente, repo)
			}
		}
	}()
}

func sincronizarProveedores(ctx context.Context, fuente fuenteProveedores, repo repository.ProveedorRepository) {
	externos := fuente.Proveedores(ctx)
	if len(externos) == 0 {
		// Fuente caída o maestro vacío: el espejo previo sigue siendo válido.
		log.Debug().Msg("proveedor_cron: maestro externo vacío, espejo sin cambios")
		return
	}

	filas := make([]model.Proveedor, 0, len(externos))
	for _, p := range externos {
		if p.Clave == "" {
			continue
		}
		filas = append(filas, model.Proveedor{
			Clave:  p.Clave,
			Codigo: codigo.NormalizarProveedor(p.Codigo),
			Nombre: p.Nombre,
			Activo: true,
		})
	}
	if err := repo.UpsertPorClave(ctx, filas); err != nil {
		log.Error().Err(err).Msg("proveedor_cron: upsert falló")
		return
	}
	log.Info().Int("proveedores", len(filas)).Msg("proveedor_cron: espejo de proveedores actualizado")
}
