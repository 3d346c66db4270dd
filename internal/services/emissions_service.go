package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ithomeportal/unilink-energy/internal/emissions"
	"github.com/ithomeportal/unilink-energy/internal/models"
	"github.com/ithomeportal/unilink-energy/internal/repository"
)

// EmissionsResult is one dashboard payload plus how it was produced.
type EmissionsResult struct {
	Data       *models.EmissionsData
	ComputedAt time.Time
	Cached     bool
	// Demo is set when Data came from the fallback provider.
	Demo bool
	// Err is the shipment source failure that forced the fallback, if any.
	Err error
}

// EmissionsService computes the emissions dashboard from shipment records.
type EmissionsService struct {
	shipments repository.ShipmentRepository
	fallback  FallbackProvider
	since     time.Time
	timeout   time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func NewEmissionsService(shipments repository.ShipmentRepository, fallback FallbackProvider, since time.Time, timeout time.Duration, logger zerolog.Logger) *EmissionsService {
	if fallback == nil {
		fallback = DemoDataset{}
	}
	return &EmissionsService{
		shipments: shipments,
		fallback:  fallback,
		since:     since,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
	}
}

// Compute reads every shipment since the policy start date and aggregates
// it. It never fails: an empty store or a source error yields the fallback
// dataset marked Demo.
func (s *EmissionsService) Compute(ctx context.Context) EmissionsResult {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := s.now()
	records, err := s.shipments.ListShipments(ctx, s.since)
	if err != nil {
		err = fmt.Errorf("list shipments: %w", err)
		s.logger.Warn().Err(err).Msg("shipment source unavailable, serving demo dataset")
		return s.demo(started, err)
	}
	if len(records) == 0 {
		s.logger.Info().Time("since", s.since).Msg("no shipments found, serving demo dataset")
		return s.demo(started, nil)
	}

	data := emissions.Aggregate(records, started)
	s.logger.Info().
		Int("orders", data.Summary.TotalOrders).
		Int("states", data.Summary.StateCount).
		Dur("took", s.now().Sub(started)).
		Msg("emissions aggregated")

	return EmissionsResult{Data: data, ComputedAt: started}
}

func (s *EmissionsService) demo(at time.Time, err error) EmissionsResult {
	return EmissionsResult{
		Data:       s.fallback.Dataset(at),
		ComputedAt: at,
		Demo:       true,
		Err:        err,
	}
}
