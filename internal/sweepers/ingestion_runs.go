package sweepers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/fleetcart/catalog-service/internal/ingestion"
)

// IngestionRunSweeper periodically marks stale running ingestion runs
// as interrupted so a crashed run never stays 'running' forever
type IngestionRunSweeper struct {
	ingestor *ingestion.Ingestor
	logger   *zerolog.Logger
	interval time.Duration
	maxAge   time.Duration
	stopChan chan struct{}
}

// NewIngestionRunSweeper creates a sweeper for ingestion run maintenance
func NewIngestionRunSweeper(pool *pgxpool.Pool, logger *zerolog.Logger, interval, maxAge time.Duration) *IngestionRunSweeper {
	return &IngestionRunSweeper{
		ingestor: ingestion.New(pool, 1),
		logger:   logger,
		interval: interval,
		maxAge:   maxAge,
		stopChan: make(chan struct{}),
	}
}

// Start runs one immediate sweep, then sweeps on the interval
func (s *IngestionRunSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("max_age", s.maxAge).
		Msg("Starting ingestion run sweeper")

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Ingestion run sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Ingestion run sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop signals the sweeper to stop
func (s *IngestionRunSweeper) Stop() {
	close(s.stopChan)
}

func (s *IngestionRunSweeper) sweep(ctx context.Context) {
	interrupted, err := s.ingestor.MarkStaleRunsInterrupted(ctx, s.maxAge)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sweep stale ingestion runs")
		return
	}
	if interrupted > 0 {
		s.logger.Info().Int64("interrupted", interrupted).Msg("Marked stale ingestion runs interrupted")
	}
}
