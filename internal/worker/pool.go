package worker

import (
	"context"
	"encoding/json"
	"time"

	"comprasverdu/internal/model"
	"comprasverdu/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueEspejo = "jobs:espejo"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EncolarRefresco pushes a mirror-refresh job with the freshly aggregated
// article rows. Enqueue failures are logged and swallowed: the listing
// response never depends on the mirror being refreshable.
func (d *Dispatcher) EncolarRefresco(ctx context.Context, articulos []model.Articulo) {
	if d.rdb == nil || len(articulos) == 0 {
		return
	}
	if err := d.enqueue(ctx, QueueEspejo, "espejo", articulos); err != nil {
		log.Warn().Err(err).Int("articulos", len(articulos)).Msg("dispatcher: no se pudo encolar refresco del espejo")
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the mirror queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, articuloRepo repository.ArticuloRepository, numWorkers int) {
	w := &espejoWorker{repo: articuloRepo, rdb: rdb}
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, w, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, w *espejoWorker, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueEspejo).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, w, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, w *espejoWorker, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, w.rdb, queue, "?", []byte(raw), "payload ilegible", 1)
		return
	}
	switch job.Type {
	case "espejo":
		w.Process(ctx, job.Payload)
	default:
		log.Warn().Str("type", job.Type).Str("queue", queue).Msg("job de tipo desconocido")
	}
}

// espejoWorker upserts aggregated article rows into the local mirror.
type espejoWorker struct {
	repo repository.ArticuloRepository
	rdb  *redis.Client
}

func (w *espejoWorker) Process(ctx context.Context, raw json.RawMessage) {
	var articulos []model.Articulo
	if err := json.Unmarshal(raw, &articulos); err != nil {
		log.Error().Err(err).Msg("espejo_worker: payload inválido")
		SendToDLQ(ctx, w.rdb, QueueEspejo, "espejo", raw, "payload inválido", 1)
		return
	}
	if len(articulos) == 0 {
		return
	}
	if err := w.repo.UpsertPorCodigo(ctx, articulos); err != nil {
		log.Error().Err(err).Int("articulos", len(articulos)).Msg("espejo_worker: upsert falló")
		SendToDLQ(ctx, w.rdb, QueueEspejo, "espejo", raw, err.Error(), 1)
		return
	}
	log.Debug().Int("articulos", len(articulos)).Msg("espejo_worker: espejo actualizado")
}
