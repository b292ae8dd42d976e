package repository

import (
	"context"
	"errors"
	"time"

	"dispatch-booking-service/internal/domain/entity"
	"dispatch-booking-service/internal/domain/repository"
	"dispatch-booking-service/pkg/logger"
	"dispatch-booking-service/pkg/metrics"
)

// CachedFlightScheduleRepository serves fresh schedules from the cache and
// falls back to the upstream lookup. Not-found answers are never cached.
type CachedFlightScheduleRepository struct {
	upstream repository.FlightScheduleRepository
	cache    repository.FlightScheduleCache
	ttl      time.Duration
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewCachedFlightScheduleRepository wraps upstream with cache
func NewCachedFlightScheduleRepository(
	upstream repository.FlightScheduleRepository,
	cache repository.FlightScheduleCache,
	ttl time.Duration,
	logger logger.Logger,
	metrics *metrics.Metrics,
) repository.FlightScheduleRepository {
	return &CachedFlightScheduleRepository{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
		metrics:  metrics,
	}
}

func (r *CachedFlightScheduleRepository) Lookup(ctx context.Context, flightNumber string) (*entity.ScheduleRecord, error) {
	record, err := r.cache.FindFresh(ctx, flightNumber, r.ttl)
	if err == nil {
		r.countCache(metrics.CacheHit)
		return record, nil
	}
	r.countCache(metrics.CacheMiss)
	if !errors.Is(err, repository.ErrScheduleNotFound) {
		r.logger.Warn("Flight schedule cache read failed", "flightNumber", flightNumber, "error", err)
	}

	record, err = r.upstream.Lookup(ctx, flightNumber)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Upsert(ctx, record); err != nil {
		r.logger.Warn("Failed to cache flight schedule", "flightNumber", flightNumber, "error", err)
	}
	return record, nil
}

// countCache only tracks the cache itself; lookup outcomes are counted by
// the workflow that requested them
func (r *CachedFlightScheduleRepository) countCache(result string) {
	if r.metrics != nil {
		r.metrics.ScheduleCache.WithLabelValues(result).Inc()
	}
}
