// Package scheduler tareas periódicas del API sobre robfig/cron.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
)

// Job tarea programada. Recibe un contexto con timeout.
type Job func(ctx context.Context) error

// Scheduler ejecuta Jobs según expresiones cron de 5 campos.
type Scheduler struct {
	cron    *cron.Cron
	log     zerolog.Logger
	metrics ports.Metrics
	timeout time.Duration
}

// New construye el scheduler en la zona horaria de las tiendas. Una ejecución que aún no terminó
// hace que se salte la siguiente.
func New(loc *time.Location, log zerolog.Logger, metrics ports.Metrics) *Scheduler {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	return &Scheduler{cron: c, log: log, metrics: metrics, timeout: 5 * time.Minute}
}

// Add registra job con nombre name. Devuelve error si spec no es válida.
func (s *Scheduler) Add(spec, name string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, job)
	})
	return err
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	start := time.Now()
	err := job(ctx)
	s.metrics.JobRun(name, err)
	if err != nil {
		s.log.Error().Err(err).Str("job", name).Msg("tarea programada fallida")
		return
	}
	s.log.Debug().Str("job", name).Dur("took", time.Since(start)).Msg("tarea programada completada")
}

// Start inicia el scheduler en segundo plano.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler iniciado")
}

// Stop detiene el scheduler y espera a las tareas en curso o a que ctx venza.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler detenido con tareas en curso")
	}
}
