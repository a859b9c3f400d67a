package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/metrics"
	"github.com/jaevor/go-nanoid"
)

const (
	cycleIDLength  = 21
	summaryTopSize = 5
)

type DefaultRefreshUsecase struct {
	countrySource domain.CountrySource
	rateSource    domain.RateSource
	countryRepo   domain.CountryRepository
	renderer      domain.SummaryRenderer
	publisher     domain.RefreshEventPublisher
	metrics       *metrics.RefreshMetrics
	logger        *slog.Logger
	factor        GDPFactor
	newCycleID    func() string

	// Serializes refresh cycles: overlapping callers wait and then run their
	// own full cycle against the shared store.
	mu sync.Mutex
}

// NewDefaultRefreshUsecase wires the refresh pipeline. publisher and m may be
// nil (event publishing and metrics are optional).
func NewDefaultRefreshUsecase(
	countrySource domain.CountrySource,
	rateSource domain.RateSource,
	countryRepo domain.CountryRepository,
	renderer domain.SummaryRenderer,
	publisher domain.RefreshEventPublisher,
	m *metrics.RefreshMetrics,
	logger *slog.Logger,
) *DefaultRefreshUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	gen, err := nanoid.Standard(cycleIDLength)
	if err != nil {
		// only reachable with an invalid length constant
		panic(err)
	}
	return &DefaultRefreshUsecase{
		countrySource: countrySource,
		rateSource:    rateSource,
		countryRepo:   countryRepo,
		renderer:      renderer,
		publisher:     publisher,
		metrics:       m,
		logger:        logger,
		factor:        defaultGDPFactor,
		newCycleID:    gen,
	}
}

// Refresh runs one full cycle: fetch both upstreams concurrently, merge,
// persist records and status in one transaction, then render the summary and
// publish the refresh event. Both fetches always settle before the cycle
// decides anything (join, not race); either failure aborts the cycle before
// any write. Render and publish failures do not fail the cycle: the data is
// already committed and both artifacts are regenerable.
func (uc *DefaultRefreshUsecase) Refresh(ctx context.Context) (*domain.RefreshResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	cycleID := uc.newCycleID()
	logger := uc.logger.With("cycle_id", cycleID)
	start := time.Now()

	var (
		raw          []domain.RawCountry
		table        *domain.RateTable
		countriesErr error
		ratesErr     error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		raw, countriesErr = uc.countrySource.FetchCountries(ctx)
	}()
	go func() {
		defer wg.Done()
		table, ratesErr = uc.rateSource.FetchRates(ctx)
	}()
	wg.Wait()

	if countriesErr != nil {
		uc.recordUpstreamError(logger, countriesErr)
		return nil, countriesErr
	}
	if ratesErr != nil {
		uc.recordUpstreamError(logger, ratesErr)
		return nil, ratesErr
	}

	merged := mergeCountries(raw, table.Rates, uc.factor)

	refreshedAt := time.Now().UTC()
	total, err := uc.countryRepo.SaveRefresh(merged, refreshedAt)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.RecordPersistenceError()
		}
		logger.Error("failed to persist refresh", "error", err)
		return nil, fmt.Errorf("failed to persist refresh: %w", err)
	}

	result := &domain.RefreshResult{
		CycleID:        cycleID,
		TotalCountries: total,
		RefreshedAt:    refreshedAt,
	}

	if err := uc.renderSummary(total, refreshedAt); err != nil {
		if uc.metrics != nil {
			uc.metrics.RecordRenderFailure()
		}
		logger.Error("summary render failed", "error", err)
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishRefresh(ctx, *result); err != nil {
			logger.Error("failed to publish refresh event", "error", err)
		}
	}

	duration := time.Since(start)
	if uc.metrics != nil {
		uc.metrics.RecordRefreshSuccess(total, duration.Seconds())
	}
	logger.Info("refresh cycle completed", "total_countries", total, "duration", duration)

	return result, nil
}

func (uc *DefaultRefreshUsecase) renderSummary(total int64, refreshedAt time.Time) error {
	top, err := uc.countryRepo.TopByGDP(summaryTopSize)
	if err != nil {
		return fmt.Errorf("failed to load top countries: %w", err)
	}
	return uc.renderer.Render(top, total, refreshedAt)
}

func (uc *DefaultRefreshUsecase) recordUpstreamError(logger *slog.Logger, err error) {
	source := "unknown"
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		source = ue.Source
	}
	if uc.metrics != nil {
		uc.metrics.RecordUpstreamError(source)
	}
	logger.Error("upstream fetch failed", "source", source, "error", err)
}
